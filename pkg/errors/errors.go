// Package errors provides structured error types for ender-package.
//
// Every failure that crosses a package boundary is an [*Error] carrying a
// machine-readable [Code]:
//
//   - PACKAGE_NOT_FOUND: an ancestry search ran out of directories
//   - PACKAGE_NOT_LOCAL: the specifier names a tarball, url or git source
//   - FILESYSTEM: an I/O failure, wrapping the underlying cause
//   - JSON_PARSE: a descriptor that is not valid JSON
//
// # Usage
//
//	err := errors.PackageNotFound("bonzo")
//	if errors.Is(err, errors.ErrCodePackageNotFound) {
//	    // downgrade to a missing entry
//	}
//
// Filesystem errors unwrap to their cause, so the standard library checks
// keep working:
//
//	if stderrors.Is(err, fs.ErrNotExist) { ... }
package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Resolution errors
	ErrCodePackageNotFound Code = "PACKAGE_NOT_FOUND"
	ErrCodePackageNotLocal Code = "PACKAGE_NOT_LOCAL"

	// Local state errors
	ErrCodeFilesystem Code = "FILESYSTEM"
	ErrCodeJSONParse  Code = "JSON_PARSE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Name    string // Specifier the error is about (optional)
	Path    string // Filesystem path the error is about (optional)
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface. The cause is appended unless the
// message already carries it.
func (e *Error) Error() string {
	if e.Cause != nil && !strings.Contains(e.Message, e.Cause.Error()) {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// PackageNotFound reports that no package called name exists in any
// directory of the searched ancestry.
func PackageNotFound(name string) *Error {
	return &Error{
		Code:    ErrCodePackageNotFound,
		Message: fmt.Sprintf("Package '%s' could not be found.", name),
		Name:    name,
	}
}

// PackageNotLocal reports a remote specifier. Only path and package-name
// specifiers can be found locally.
func PackageNotLocal(name string) *Error {
	return &Error{
		Code:    ErrCodePackageNotLocal,
		Message: fmt.Sprintf("Can only find packages by path or name, not '%s'", name),
		Name:    name,
	}
}

// Filesystem wraps an I/O failure. The path is taken from the cause when it
// is an [*fs.PathError].
func Filesystem(cause error) *Error {
	e := &Error{Code: ErrCodeFilesystem, Message: "filesystem error", Cause: cause}
	var pe *fs.PathError
	if errors.As(cause, &pe) {
		e.Path = pe.Path
	}
	return e
}

// JSONParse reports a descriptor at path whose content is not valid JSON.
// The message carries the parser's message and the offending path.
func JSONParse(path string, cause error) *Error {
	return &Error{
		Code:    ErrCodeJSONParse,
		Message: fmt.Sprintf("%v [%s]", cause, path),
		Path:    path,
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsNotFound reports whether err is a PACKAGE_NOT_FOUND error.
func IsNotFound(err error) bool { return Is(err, ErrCodePackageNotFound) }

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Code == ErrCodeFilesystem && e.Cause != nil {
			return e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}
