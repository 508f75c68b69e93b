package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// AIPhrase is the topic phrase used for the annual report AI flag
const AIPhrase = "artificial intelligence"

// SplitSentences splits text after '.', '!' or '?' when followed by
// whitespace. The whitespace run between sentences is dropped; nothing
// else is trimmed.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if r != '.' && r != '!' && r != '?' {
			continue
		}

		j := i
		for j < len(text) {
			ws, wsize := utf8.DecodeRuneInString(text[j:])
			if !unicode.IsSpace(ws) {
				break
			}
			j += wsize
		}
		if j == i {
			continue
		}

		sentences = append(sentences, text[start:i])
		start = j
		i = j
	}

	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

// MatchSentences returns the sentences whose lowercase form contains the
// lowercase phrase, in order and unmodified. No match gives an empty list.
func MatchSentences(text, phrase string) []string {
	needle := strings.ToLower(phrase)
	matched := []string{}
	if needle == "" {
		return matched
	}
	for _, s := range SplitSentences(text) {
		if strings.Contains(strings.ToLower(s), needle) {
			matched = append(matched, s)
		}
	}
	return matched
}

// AISentences returns the sentences mentioning artificial intelligence
func AISentences(text string) []string {
	return MatchSentences(text, AIPhrase)
}
