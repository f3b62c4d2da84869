package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Page
		want Page
	}{
		{"zero value", Page{}, Page{Number: 1, Size: 25}},
		{"negative page", Page{Number: -3, Size: 10}, Page{Number: 1, Size: 10}},
		{"size over max", Page{Number: 2, Size: 500}, Page{Number: 2, Size: 100}},
		{"in range", Page{Number: 3, Size: 50}, Page{Number: 3, Size: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize(25, 100))
		})
	}
}

func TestPageOffset(t *testing.T) {
	p := Page{Number: 3, Size: 25}
	assert.Equal(t, 50, p.Offset())
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, Sort{Field: "title"}, ParseSort("title"))
	assert.Equal(t, Sort{Field: "published_at", Desc: true}, ParseSort("-published_at"))
	assert.Equal(t, Sort{}, ParseSort(""))
}

func TestSortColumn(t *testing.T) {
	whitelist := map[string]string{
		"title":     "title",
		"published": "published_at",
	}

	col, err := Sort{Field: "published"}.Column(whitelist, "id")
	require.NoError(t, err)
	assert.Equal(t, "published_at", col)

	col, err = Sort{}.Column(whitelist, "id")
	require.NoError(t, err)
	assert.Equal(t, "id", col)

	_, err = Sort{Field: "lock_version; DROP TABLE posts"}.Column(whitelist, "id")
	assert.ErrorIs(t, err, ErrBadSort)
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)
	c := Cursor{PublishedAt: at, ID: 42}

	decoded, err := DecodeCursor(c.Encode())
	require.NoError(t, err)
	assert.True(t, decoded.PublishedAt.Equal(at))
	assert.Equal(t, int64(42), decoded.ID)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	for _, s := range []string{
		"not base64 at all!!",
		"aGVsbG8=",     // "hello", no separator
		"fHx8",         // "|||"
		"MjAyNnwxMg==", // "2026|12", bad timestamp
	} {
		_, err := DecodeCursor(s)
		assert.ErrorIs(t, err, ErrBadCursor, "input %q", s)
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% sure`, EscapeLike("100% sure"))
	assert.Equal(t, `under\_score`, EscapeLike("under_score"))
	assert.Equal(t, `back\\slash`, EscapeLike(`back\slash`))
	assert.Equal(t, "plain", EscapeLike("plain"))
}
