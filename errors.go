package errtree

import (
	"errors"
	"fmt"
	"strings"
)

// Compilation errors.
var (
	// ErrMissingTemplate is matched by every *MissingTemplateError.
	ErrMissingTemplate = errors.New("errtree: message template not found")

	// ErrUnknownNode is returned for a Node kind the compiler does not handle.
	ErrUnknownNode = errors.New("errtree: unknown node kind")

	// ErrShapeConflict is returned when Merge meets a leaf and a branch at the same path.
	ErrShapeConflict = errors.New("errtree: leaf and branch at the same path")

	// ErrUnknownToken is returned when a template references a token that was not derived.
	ErrUnknownToken = errors.New("errtree: unknown template token")
)

// MissingTemplateError reports a predicate the catalog has no template for.
// It signals a catalog defect and is never recovered by the compiler.
type MissingTemplateError struct {
	Predicate string
	Path      Path
}

func (e *MissingTemplateError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("message for %s was not found", e.Predicate)
	}
	return fmt.Sprintf("message for %s was not found (at %s)", e.Predicate, e.Path)
}

// Is makes errors.Is(err, ErrMissingTemplate) match.
func (e *MissingTemplateError) Is(target error) bool {
	return target == ErrMissingTemplate
}

// Error codes for catalog validation failures.
const (
	ErrCodeRequired          = "required"
	ErrCodeInvalidType       = "invalid_type"
	ErrCodeUnknownKey        = "unknown_key"
	ErrCodeMalformedTemplate = "malformed_template"
)

// ValidationError aggregates key-level catalog failures.
type ValidationError struct {
	FieldErrors []FieldError
}

// Error formats validation errors as a multi-line message.
func (e *ValidationError) Error() string {
	if len(e.FieldErrors) == 0 {
		return "catalog validation failed: no errors"
	}

	var b strings.Builder
	if len(e.FieldErrors) == 1 {
		b.WriteString("catalog validation failed: 1 error\n")
	} else {
		fmt.Fprintf(&b, "catalog validation failed: %d errors\n", len(e.FieldErrors))
	}

	for _, fe := range e.FieldErrors {
		fmt.Fprintf(&b, "  - %s: %s (%s)\n", fe.Key, fe.Code, fe.Message)
	}

	return strings.TrimRight(b.String(), "\n")
}

// FieldError represents a single catalog entry failure.
type FieldError struct {
	Key     string // Dot notation (e.g., "size.arg.range")
	Code    string // Error code (e.g., "required", "unknown_key")
	Message string // Human-readable description
}
