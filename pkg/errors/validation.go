package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateNodeName validates a scene node name.
// Names are used as lookup keys and as DOT identifiers, so the rules are
// conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
//   - Letters, digits, '_', '-' and '.' only
func ValidateNodeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidScene, "node name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidScene, "node name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidScene, "node name contains invalid control characters")
		}
	}

	if !nodeNameRegex.MatchString(name) {
		return New(ErrCodeInvalidScene, "invalid node name: %q", name)
	}

	return nil
}

var nodeNameRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// ValidatePath validates a file path supplied on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateFormat checks that format is one of the allowed output formats.
// The comparison is case-insensitive.
func ValidateFormat(format string, allowed ...string) error {
	f := strings.ToLower(format)
	for _, a := range allowed {
		if f == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}
