package extract

import (
	"regexp"
	"strings"
	"sync"
)

// UnknownTitle is returned by OfficerTitle when there is no officerTitle tag
const UnknownTitle = "UNKNOWN"

var (
	tagPatterns   sync.Map // tag name -> tagPair
	leadingOpener = regexp.MustCompile(`^<\s*([A-Za-z][\w.:-]*)\s*>`)
)

type tagPair struct {
	open, close *regexp.Regexp
}

func tagPatternsFor(tag string) tagPair {
	if p, ok := tagPatterns.Load(tag); ok {
		return p.(tagPair)
	}
	name := regexp.QuoteMeta(tag)
	p := tagPair{
		open:  regexp.MustCompile(`(?i)<\s*` + name + `\s*>`),
		close: regexp.MustCompile(`(?i)<\s*/\s*` + name + `\s*>`),
	}
	tagPatterns.Store(tag, p)
	return p
}

// TagValue returns the trimmed value inside the first <tag>...</tag> pair,
// tolerating whitespace around names and slashes. Nested pairs give the
// inner-most value, whether the nested tag has the same name
// (<value><value>X</value></value>) or another one
// (<code><value>D</value></code>). Missing tags give "".
func TagValue(text, tag string) string {
	v, _ := lookupTag(text, tag)
	return v
}

func lookupTag(text, tag string) (string, bool) {
	value, ok := innermostPair(text, tagPatternsFor(tag))
	if !ok {
		return "", false
	}
	for {
		opener := leadingOpener.FindStringSubmatch(value)
		if opener == nil {
			break
		}
		inner, ok := lookupTag(value, opener[1])
		if !ok {
			break
		}
		value = inner
	}
	return strings.TrimSpace(value), true
}

// innermostPair returns the text between the first closing tag that has an
// opener before it and the last such opener
func innermostPair(text string, p tagPair) (string, bool) {
	for _, c := range p.close.FindAllStringIndex(text, -1) {
		openers := p.open.FindAllStringIndex(text[:c[0]], -1)
		if len(openers) == 0 {
			continue
		}
		return text[openers[len(openers)-1][1]:c[0]], true
	}
	return "", false
}

// IsOfficer returns the isOfficer flag as digits, normalising true and
// false to 1 and 0, or "" when missing or not numeric
func IsOfficer(text string) string {
	v := strings.ToLower(TagValue(text, "isOfficer"))
	switch v {
	case "true":
		return "1"
	case "false":
		return "0"
	}
	if !allDigits(v) {
		return ""
	}
	return v
}

// OfficerTitle returns the officer title with "&amp;" and commas removed,
// whitespace collapsed and upper-cased, or UnknownTitle when missing
func OfficerTitle(text string) string {
	v, ok := lookupTag(text, "officerTitle")
	if !ok {
		return UnknownTitle
	}
	v = strings.ReplaceAll(v, "&amp;", "")
	v = strings.ReplaceAll(v, ",", "")
	return strings.ToUpper(strings.Join(strings.Fields(v), " "))
}

// TransactionCode returns the acquired/disposed code, "A" or "D", or ""
func TransactionCode(text string) string {
	v := strings.ToUpper(TagValue(text, "transactionAcquiredDisposedCode"))
	if v != "A" && v != "D" {
		return ""
	}
	return v
}

// TransactionDate returns the transaction date with dashes removed, or ""
func TransactionDate(text string) string {
	v := strings.ReplaceAll(TagValue(text, "transactionDate"), "-", "")
	if !allDigits(v) {
		return ""
	}
	return v
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
