package query

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrBadCursor is returned for cursors that don't decode.
var ErrBadCursor = errors.New("malformed cursor")

// Cursor is a keyset position: the (published_at, id) pair of the last row
// the client has seen. Keyset paging stays stable while rows are inserted,
// unlike offsets.
type Cursor struct {
	PublishedAt time.Time
	ID          int64
}

// Encode packs the cursor as base64("RFC3339Nano|id").
func (c Cursor) Encode() string {
	raw := fmt.Sprintf("%s|%d", c.PublishedAt.UTC().Format(time.RFC3339Nano), c.ID)
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses an encoded cursor, rejecting anything malformed.
func DecodeCursor(s string) (Cursor, error) {
	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, ErrBadCursor
	}

	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return Cursor{}, ErrBadCursor
	}

	at, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return Cursor{}, ErrBadCursor
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Cursor{}, ErrBadCursor
	}

	return Cursor{PublishedAt: at, ID: id}, nil
}

// EscapeLike escapes the LIKE/ILIKE metacharacters in user input so a
// search term is matched literally. The pattern still goes through a bind
// parameter; this only neutralizes wildcards.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
