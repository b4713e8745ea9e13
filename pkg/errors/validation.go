package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidateCoordinateField checks one component (group, name or version) of a
// module coordinate before it is turned into an element identifier.
//
// Only empty values and invalid UTF-8 are rejected. Invalid UTF-8 would be
// replaced with U+FFFD in the JSON name and versionInfo fields. Everything
// else, including ':', '/', control characters and long values, is accepted
// because the identifier escaping handles it.
func ValidateCoordinateField(field, value string) error {
	if value == "" {
		return New(ErrCodeInvalidCoordinate, "%s cannot be empty", field)
	}

	if !utf8.ValidString(value) {
		return New(ErrCodeInvalidCoordinate, "%s is not valid UTF-8: %q", field, value)
	}

	return nil
}

// ValidatePath validates an input file path given on the command line or in
// a config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	return nil
}

// ValidateNamespaceBase validates the URL prefix used to build document
// namespaces. It must use the http or https scheme. Trailing slashes are
// trimmed by the caller before joining.
func ValidateNamespaceBase(base string) error {
	if base == "" {
		return New(ErrCodeInvalidConfig, "namespace base cannot be empty")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return New(ErrCodeInvalidConfig, "namespace base must use http or https scheme: %q", base)
	}
	if strings.ContainsAny(base, " \t\n#?") {
		return New(ErrCodeInvalidConfig, "namespace base contains invalid characters: %q", base)
	}
	return nil
}
