package components

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatCount formats a number with thousands separators like "1,024".
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// CountryFlag returns the emoji flag for a two letter country code, or "" for other codes.
func CountryFlag(code string) string {
	code = strings.ToUpper(code)
	if len(code) != 2 {
		return ""
	}
	var b strings.Builder
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + r - 'A')
	}
	return b.String()
}
