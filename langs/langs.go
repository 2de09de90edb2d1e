// Package langs normalizes user-supplied language names into the short codes
// used as storage directory names.
package langs

import (
	"strings"

	"golang.org/x/text/language"
)

// Default is used when the input cannot be mapped to a supported language.
const Default = "en"

// displayNames maps the display names sent by the mobile frontend.
var displayNames = map[string]string{
	"english": "en",
	"hindi":   "hi",
	"marathi": "mr",
	"telugu":  "te",
	"urdu":    "ur",
}

var supported = []language.Tag{
	language.English,
	language.Hindi,
	language.Marathi,
	language.Telugu,
	language.Urdu,
}

var matcher = language.NewMatcher(supported)

// Normalize maps a display name ("Hindi") or a language tag ("hi", "hi-IN")
// to one of the supported codes. Unrecognized input falls back to Default.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Default
	}
	if code, ok := displayNames[strings.ToLower(s)]; ok {
		return code
	}
	tag, err := language.Parse(s)
	if err != nil {
		return Default
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Default
	}
	base, _ := supported[idx].Base()
	return base.String()
}
