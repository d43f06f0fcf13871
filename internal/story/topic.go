package story

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeTopic trims a topic and collapses inner whitespace.
func NormalizeTopic(topic string) string {
	return strings.Join(strings.Fields(topic), " ")
}

// TitleTopic returns the normalized topic in title case for display,
// e.g. "volcano   safety" becomes "Volcano Safety".
func TitleTopic(topic string) string {
	return cases.Title(language.English).String(NormalizeTopic(topic))
}
