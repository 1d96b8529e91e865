package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

var ErrInvalidCursor = errors.New("invalid_cursor")

// Pagination is a forward-only page request. PageToken is the cursor of the
// last item already seen by the client.
type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
}

type Cursor struct {
	Offset int `json:"o"`
}

type PageInfo struct {
	EndCursor string `json:"end_cursor"`
	HasMore   bool   `json:"has_more"`
}

func EncodeCursor(data Cursor) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

func DecodeCursor(data string) (*Cursor, error) {
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil {
		return nil, ErrInvalidCursor
	}
	if cursor.Offset < 0 {
		return nil, ErrInvalidCursor
	}

	return &cursor, nil
}

// CursorAt returns the cursor for the item at absolute position offset.
func CursorAt(offset int) string {
	token, _ := EncodeCursor(Cursor{Offset: offset})
	return token
}

// StartOffset returns the position of the first item after the cursor.
func StartOffset(token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	cursor, err := DecodeCursor(token)
	if err != nil {
		return 0, err
	}
	return cursor.Offset + 1, nil
}

// Page is one window of a listing. Items were fetched with limit+1 rows so
// HasMore can be reported without a second query.
type Page[T any] struct {
	Items      []T
	Offset     int
	HasMore    bool
	TotalCount int64
}

// NewPage trims rows to limit and records whether more rows exist.
func NewPage[T any](rows []T, offset, limit int, total int64) Page[T] {
	hasMore := false
	if limit >= 0 && len(rows) > limit {
		hasMore = true
		rows = rows[:limit]
	}
	return Page[T]{Items: rows, Offset: offset, HasMore: hasMore, TotalCount: total}
}

// CursorFor returns the cursor of the i-th item of the page.
func (p Page[T]) CursorFor(i int) string {
	return CursorAt(p.Offset + i)
}

func (p Page[T]) PageInfo() PageInfo {
	info := PageInfo{HasMore: p.HasMore}
	if len(p.Items) > 0 {
		info.EndCursor = p.CursorFor(len(p.Items) - 1)
	}
	return info
}
