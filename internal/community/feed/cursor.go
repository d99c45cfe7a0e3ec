package feed

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/community-platform/internal/community/store"
)

// Cursor marks the last row of a served page. The sort key is part of
// the cursor so a token minted under one ordering cannot be replayed
// against another.
type Cursor struct {
	Key         store.SortKey
	AnchorID    int64
	AnchorValue int64
}

// Encode renders the cursor as an opaque URL-safe token.
func (c Cursor) Encode() string {
	raw := fmt.Sprintf("%s:%d:%d", c.Key, c.AnchorID, c.AnchorValue)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a client-supplied token minted by Encode. The
// expected key comes from the current request's sort parameter; a
// mismatch or any malformed token yields ErrInvalidCursor.
func DecodeCursor(token string, expected store.SortKey) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	parts := strings.Split(string(raw), ":")
	if len(parts) != 3 {
		return Cursor{}, ErrInvalidCursor
	}
	if store.SortKey(parts[0]) != expected {
		return Cursor{}, ErrInvalidCursor
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return Cursor{}, ErrInvalidCursor
	}
	val, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	return Cursor{Key: expected, AnchorID: id, AnchorValue: val}, nil
}
