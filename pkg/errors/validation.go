package errors

import (
	"strings"
	"unicode"
)

// maxSpecifierLen bounds specifiers accepted from users and HTTP clients.
const maxSpecifierLen = 1024

// ValidateSpecifier validates a requested package specifier before it
// reaches the locator. It rejects input that can never name a package:
//   - empty or whitespace-only names
//   - control characters and null bytes
//   - names longer than 1024 bytes
//
// Paths (including "..") are legitimate specifiers and pass.
func ValidateSpecifier(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "package name cannot be empty")
	}

	if len(name) > maxSpecifierLen {
		return New(ErrCodeInvalidInput, "package name too long (max %d characters)", maxSpecifierLen)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "package name contains invalid control characters")
		}
	}

	return nil
}

// ValidateSpecifiers validates every name and returns the first failure.
func ValidateSpecifiers(names []string) error {
	if len(names) == 0 {
		return New(ErrCodeInvalidInput, "at least one package name is required")
	}
	for _, n := range names {
		if err := ValidateSpecifier(n); err != nil {
			return err
		}
	}
	return nil
}
