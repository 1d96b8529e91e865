package schema

import (
	"errors"
	"strings"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"
)

const dateOnlyLayout = "2006-01-02"

var errInvalidTime = errors.New("invalid_time")

func argString(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

func argStringPtr(args map[string]interface{}, key string) *string {
	v, ok := args[key].(string)
	if !ok {
		return nil
	}
	return &v
}

func argInt(args map[string]interface{}, key string) int {
	v, _ := args[key].(int)
	return v
}

func argIntPtr(args map[string]interface{}, key string) *int {
	v, ok := args[key].(int)
	if !ok {
		return nil
	}
	return &v
}

func argBool(args map[string]interface{}, key string) bool {
	v, _ := args[key].(bool)
	return v
}

func argDecimalPtr(args map[string]interface{}, key string) *decimal.Decimal {
	v, ok := args[key].(decimal.Decimal)
	if !ok {
		return nil
	}
	return &v
}

func argStrings(args map[string]interface{}, key string) []string {
	raw, _ := args[key].([]interface{})
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func argTimePtr(args map[string]interface{}, key string) *time.Time {
	switch v := args[key].(type) {
	case time.Time:
		return &v
	case *time.Time:
		return v
	default:
		return nil
	}
}

// argDate parses an RFC 3339 timestamp or a calendar date. A bare date used as
// an upper bound covers the whole day.
func argDate(args map[string]interface{}, key string, endOfDay bool) (*time.Time, error) {
	trimmed := strings.TrimSpace(argString(args, key))
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &parsed, nil
	}
	if parsed, err := time.Parse(dateOnlyLayout, trimmed); err == nil {
		if endOfDay {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
		} else {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		}
		return &parsed, nil
	}
	return nil, errInvalidTime
}

// connectionArgs are accepted by every list field.
func connectionArgs(extra graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	args := graphql.FieldConfigArgument{
		"first":   &graphql.ArgumentConfig{Type: graphql.Int},
		"after":   &graphql.ArgumentConfig{Type: graphql.String},
		"orderBy": &graphql.ArgumentConfig{Type: graphql.String},
	}
	for k, v := range extra {
		args[k] = v
	}
	return args
}
