package common

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID returns a random UUID string.
func GenerateUUID() string {
	return uuid.New().String()
}

// ShortID returns the first segment of a random UUID, used to
// disambiguate timestamp-derived identifiers.
func ShortID() string {
	return strings.SplitN(uuid.New().String(), "-", 2)[0]
}

var umlautReplacer = strings.NewReplacer(
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"Ä", "Ae",
	"Ö", "Oe",
	"Ü", "Ue",
	"ß", "ss",
)

// SanitizeFilename transliterates umlauts, replaces whitespace with
// underscores and strips everything outside [a-zA-Z0-9._-].
func SanitizeFilename(filename string) string {
	filename = umlautReplacer.Replace(filename)
	filename = strings.Join(strings.Fields(filename), "_")

	var b strings.Builder
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
