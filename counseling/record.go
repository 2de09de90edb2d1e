// Package counseling owns the durable counseling content: the per-language
// record store, the cache-or-generate service and the HTTP handler.
package counseling

import (
	"regexp"
	"strings"
)

// Section is one numbered block of the counseling text.
type Section struct {
	Header  string `json:"header"`
	Content string `json:"content"`
}

// Record is the persisted counseling content for one (medicine, language)
// pair. Records are written once and never mutated. AICounseling is the
// legacy flat-text schema; records found in that form are upgraded to
// Sections on read, never the other way around.
type Record struct {
	Medicine     string    `json:"medicine"`
	Language     string    `json:"language"`
	Sections     []Section `json:"sections,omitempty"`
	AICounseling string    `json:"ai_counseling,omitempty"`
}

// Text renders the record as the flat text the frontend and the speech
// synthesizer consume.
func (r *Record) Text() string {
	if len(r.Sections) == 0 {
		return r.AICounseling
	}
	parts := make([]string, 0, len(r.Sections))
	for _, s := range r.Sections {
		if s.Content == "" {
			parts = append(parts, s.Header)
			continue
		}
		parts = append(parts, s.Header+"\n"+s.Content)
	}
	return strings.Join(parts, "\n\n")
}

// headerLine matches the "1. HEADER" lines the provider is instructed to emit.
var headerLine = regexp.MustCompile(`^\s*\d+\.\s`)

// SplitSections parses flat counseling text into sections on its numbered
// header lines. Text before the first header becomes a headerless section so
// no content is dropped.
func SplitSections(text string) []Section {
	var sections []Section
	var current *Section

	flush := func() {
		if current != nil {
			current.Content = strings.TrimSpace(current.Content)
			sections = append(sections, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if headerLine.MatchString(line) {
			flush()
			current = &Section{Header: strings.TrimSpace(line)}
			continue
		}
		if current == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			current = &Section{Content: line}
			continue
		}
		current.Content += "\n" + line
	}
	flush()
	return sections
}
