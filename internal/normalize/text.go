package normalize

import (
	"regexp"
	"strings"
)

// Default length caps, used when the caller passes no explicit limit.
const (
	// MerchantMaxLength caps a cleaned merchant name.
	MerchantMaxLength = 255
	// MemoMaxLength caps a cleaned memo.
	MemoMaxLength = 500
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	leadingIDPattern  = regexp.MustCompile(`^\d{4,}\s+`)
)

// CleanMerchant normalizes a raw merchant cell. Card processors pad
// names with asterisks and prepend numeric terminal identifiers, both
// of which are noise for matching and display. A max of zero or less
// falls back to MerchantMaxLength.
func CleanMerchant(raw string, max int) string {
	if max <= 0 {
		max = MerchantMaxLength
	}
	s := whitespacePattern.ReplaceAllString(strings.TrimSpace(raw), " ")
	s = strings.Trim(s, "*")
	s = strings.TrimSpace(s)
	s = leadingIDPattern.ReplaceAllString(s, "")
	return truncate(s, max)
}

// CleanMemo normalizes a raw memo cell. A max of zero or less falls
// back to MemoMaxLength.
func CleanMemo(raw string, max int) string {
	if max <= 0 {
		max = MemoMaxLength
	}
	s := whitespacePattern.ReplaceAllString(strings.TrimSpace(raw), " ")
	return truncate(s, max)
}

// CleanText collapses whitespace without any length cap, for
// pass-through fields like account names and owners.
func CleanText(raw string) string {
	return whitespacePattern.ReplaceAllString(strings.TrimSpace(raw), " ")
}

// ParseBool interprets the truthy spellings found in export flag
// columns. Anything else, including empty, is false.
func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "y", "t", "on":
		return true
	default:
		return false
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
