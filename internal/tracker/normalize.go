package tracker

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxCodeLength is the longest input treated as a country code instead of a name.
const maxCodeLength = 3

// IsCode reports whether a normalized token is looked up as a country code.
func IsCode(token string) bool {
	return utf8.RuneCountInString(token) <= maxCodeLength
}

// Normalize turns free text country input into a lookup token.
// Short tokens are upper-cased country code candidates, longer ones are
// title-cased word by word ("united STATES" becomes "United States").
// Words are split on single spaces, so repeated spaces are kept as is.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if IsCode(trimmed) {
		return strings.ToUpper(trimmed)
	}

	words := strings.Split(trimmed, " ")
	for i, word := range words {
		words[i] = titleWord(word)
	}
	return strings.Join(words, " ")
}

func titleWord(word string) string {
	first, size := utf8.DecodeRuneInString(word)
	if size == 0 {
		return word
	}
	return string(unicode.ToUpper(first)) + strings.ToLower(word[size:])
}
