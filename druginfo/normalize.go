package druginfo

import "strings"

var nameReplacer = strings.NewReplacer(
	" ", "_",
	"+", "plus",
	"/", "_",
	"(", "",
	")", "",
)

// Normalize canonicalizes a free-text drug name into the stable key used for
// rule lookups, record files and audio files. It never fails and is
// idempotent: characters outside the replacement set pass through unchanged.
func Normalize(raw string) string {
	return nameReplacer.Replace(strings.TrimSpace(strings.ToLower(raw)))
}
