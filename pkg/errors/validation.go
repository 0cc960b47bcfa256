package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// languageKeyRegex matches language keys. Keys end up in CSS class names
// (pic-language-<key>) so they are restricted to identifier characters.
var languageKeyRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateLanguageKey validates the name of a language profile.
func ValidateLanguageKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidConfig, "language key cannot be empty")
	}
	if len(key) > 64 {
		return New(ErrCodeInvalidConfig, "language key too long (max 64 characters): %q", key)
	}
	if !languageKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidConfig, "invalid language key %q (letters, digits, '-' and '_' only)", key)
	}
	return nil
}

// classNameRegex matches a single HTML class token.
var classNameRegex = regexp.MustCompile(`^-?[_A-Za-z][_A-Za-z0-9-]*$`)

// ValidateClassNames validates a space separated list of HTML classes.
func ValidateClassNames(classes string) error {
	for _, c := range strings.Fields(classes) {
		if !classNameRegex.MatchString(c) {
			return New(ErrCodeInvalidOption, "invalid html class %q", c)
		}
	}
	return nil
}

// ValidateSourcePath validates a path named in a directive (file argument or
// depends option). Absolute and relative paths are both allowed.
func ValidateSourcePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidOption, "path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidOption, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidOption, "path contains invalid characters: %q", path)
		}
	}
	return nil
}
