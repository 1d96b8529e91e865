package db

import (
	"errors"
	"strings"
)

var ErrInvalidSort = errors.New("invalid_sort")

// Sort maps client-facing sort keys to columns. A key prefixed with "-"
// sorts descending; several keys may be separated by commas.
type Sort struct {
	Columns  map[string]string
	Default  string
	Tiebreak string
}

// Clause builds the ORDER BY expression for value. The tiebreak column is
// always appended so offset paging is stable.
func (s Sort) Clause(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.withTiebreak([]string{s.Default}), nil
	}

	parts := strings.Split(value, ",")
	clauses := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		direction := "ASC"
		if strings.HasPrefix(part, "-") {
			direction = "DESC"
			part = strings.TrimPrefix(part, "-")
		}
		column, ok := s.Columns[part]
		if !ok {
			return "", ErrInvalidSort
		}
		clauses = append(clauses, column+" "+direction)
	}
	if len(clauses) == 0 {
		clauses = append(clauses, s.Default)
	}
	return s.withTiebreak(clauses), nil
}

func (s Sort) withTiebreak(clauses []string) string {
	if s.Tiebreak != "" {
		clauses = append(clauses, s.Tiebreak+" ASC")
	}
	return strings.Join(clauses, ", ")
}

// ContainsPattern returns a lower-cased LIKE pattern matching value anywhere.
func ContainsPattern(value string) string {
	return "%" + strings.ToLower(value) + "%"
}

// PrefixPattern returns a LIKE pattern matching values that start with value.
func PrefixPattern(value string) string {
	return value + "%"
}
