package services

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Slugify lowercases the name and collapses anything non-alphanumeric into
// single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// TimestampSuffix disambiguates slug collisions with a compact base-36
// millisecond timestamp.
func TimestampSuffix(at time.Time) string {
	return strconv.FormatInt(at.UnixMilli(), 36)
}
