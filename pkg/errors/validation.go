package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateDesignName validates a cable design name for safety.
// Names end up in cache keys, file names and annotation text, so they are
// restricted to printable characters without path components.
func ValidateDesignName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "design name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "design name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "design name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "design name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// artifactIDRegex matches artifact identifiers (UUIDs or content hashes).
var artifactIDRegex = regexp.MustCompile(`^[a-zA-Z0-9-]{8,64}$`)

// ValidateArtifactID validates an artifact identifier received from a client.
func ValidateArtifactID(id string) error {
	if !artifactIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid artifact id: %q", id)
	}
	return nil
}
