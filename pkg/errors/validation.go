package errors

import (
	"strings"
	"unicode"
)

// StdinPath is the input path that selects standard input.
const StdinPath = "-"

// maxPathLength bounds input paths accepted on the command line.
const maxPathLength = 4096

// ValidateInputPath validates a path naming the dump input.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//
// [StdinPath] is always accepted.
func ValidateInputPath(path string) error {
	if path == StdinPath {
		return nil
	}
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateBound checks that a numeric limit is positive and at most max.
// Zero is accepted and means "use the default".
func ValidateBound(name string, v, max int) error {
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s cannot be negative", name)
	}
	if v > max {
		return New(ErrCodeInvalidInput, "%s too large (max %d)", name, max)
	}
	return nil
}

// ValidateChoice checks that v is one of the allowed values.
func ValidateChoice(name, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid %s: %q (must be one of: %s)", name, v, strings.Join(allowed, ", "))
}
