package extract

import (
	"regexp"
	"strings"
)

// UnknownTopic is returned by FirstTopic when there is no ITEM INFORMATION label
const UnknownTopic = "Unknown"

var (
	firstTopicPattern = regexp.MustCompile(`(?i)ITEM INFORMATION:\s*(.+)`)
	topicLabelPattern = regexp.MustCompile(`(?i)ITEM INFORMATION:\s*`)
	filedDateLabel    = regexp.MustCompile(`(?i)\bFILED AS OF DATE:`)
	filedDatePattern  = regexp.MustCompile(`(?i)\bFILED AS OF DATE:\s*(\d{8})\b`)
)

// FirstTopic returns the first line following the first ITEM INFORMATION
// label, trimmed, or UnknownTopic
func FirstTopic(text string) string {
	m := firstTopicPattern.FindStringSubmatch(text)
	if m == nil {
		return UnknownTopic
	}
	line, _, _ := strings.Cut(m[1], "\n")
	return strings.TrimSpace(line)
}

// AllTopics returns every non-blank line from the first ITEM INFORMATION
// label up to FILED AS OF DATE or the end of text. Filings with several
// items repeat the label on each line; that leading label is stripped so
// every entry is the bare topic, comparable with FirstTopic.
func AllTopics(text string) []string {
	topics := []string{}
	loc := topicLabelPattern.FindStringIndex(text)
	if loc == nil {
		return topics
	}

	block := text[loc[1]:]
	if end := firstIndexFrom(filedDateLabel, text, loc[1]); end >= 0 {
		block = text[loc[1]:end]
	}

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if l := topicLabelPattern.FindStringIndex(line); l != nil && l[0] == 0 {
			line = strings.TrimSpace(line[l[1]:])
		}
		if line != "" {
			topics = append(topics, line)
		}
	}
	return topics
}

// FiledDate returns the 8 digits after FILED AS OF DATE, or ""
func FiledDate(text string) string {
	m := filedDatePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
