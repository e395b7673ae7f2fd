package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateIdentifier validates a package identifier before it is used as a
// path segment.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No path traversal sequences (.., /, \)
//   - Maximum length of 256 characters
//
// Identifiers are otherwise passed through as-is; the API decides whether they
// exist.
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "package identifier cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "package identifier too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "package identifier contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "package identifier contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// slugRegex matches repository slugs as issued by the API.
var slugRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateSlug validates a repository slug.
func ValidateSlug(slug string) error {
	if slug == "" {
		return New(ErrCodeInvalidInput, "repository slug cannot be empty")
	}
	if len(slug) > 128 {
		return New(ErrCodeInvalidInput, "repository slug too long (max 128 characters)")
	}
	if strings.Contains(slug, "..") || !slugRegex.MatchString(slug) {
		return New(ErrCodeInvalidInput, "invalid repository slug: %q", slug)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	for _, r := range rawURL {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "URL contains invalid characters")
		}
	}

	return nil
}
