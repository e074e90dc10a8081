package core

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeService trims surrounding whitespace and lower-cases a service
// name using full Unicode case mapping.
func NormalizeService(service string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(service))
}
