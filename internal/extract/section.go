// Package extract holds the pattern matchers that pull facts out of
// filing text. Every extractor is a pure function that returns a defined
// sentinel instead of an error when nothing is found.
package extract

import "regexp"

// SectionExtractor returns the text between a start marker and the first
// end marker after it
type SectionExtractor struct {
	Start *regexp.Regexp
	End   *regexp.Regexp
}

// NewSectionExtractor compiles a start and end marker pattern
func NewSectionExtractor(start, end string) SectionExtractor {
	return SectionExtractor{Start: regexp.MustCompile(start), End: regexp.MustCompile(end)}
}

// ItemOneBusiness is the 10-K "Item 1. Business" section, ending at
// "Item 1A. Risk Factors". Whitespace after the start header is dropped.
var ItemOneBusiness = NewSectionExtractor(
	`(?i)ITEM\s+1\s*\.?\s*BUSINESS\s*`,
	`(?i)ITEM\s+1A\s*\.?\s*RISK\s+FACTORS`,
)

// Extract returns the text strictly between the first start marker and
// the first end marker that follows it, or "" if either is missing
func (s SectionExtractor) Extract(text string) string {
	loc := s.Start.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	end := firstIndexFrom(s.End, text, loc[1])
	if end < 0 {
		return ""
	}
	return text[loc[1]:end]
}

// firstIndexFrom returns the start of the first match of re at or after
// offset, or -1. Matching runs over the whole text so word boundaries at
// offset are judged in context.
func firstIndexFrom(re *regexp.Regexp, text string, offset int) int {
	for _, m := range re.FindAllStringIndex(text, -1) {
		if m[0] >= offset {
			return m[0]
		}
	}
	return -1
}
