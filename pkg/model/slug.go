package model

import (
	"strings"
	"unicode"
)

// Slugify lowers a title into a URL slug: lowercase, runs of anything that
// isn't a letter or digit collapse to a single hyphen, no leading/trailing
// hyphens. Returns "" when nothing sluggable remains.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
