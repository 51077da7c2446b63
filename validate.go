package errtree

import (
	"context"
	"fmt"

	"github.com/Azhovan/errtree/internal/normalize"
)

// ValidateMessages checks every template in m for malformed %{token}
// references and that each required predicate has at least one entry.
// Returns a *ValidationError listing all failures, or nil.
func ValidateMessages(m *Messages, required ...string) error {
	if fieldErrors := validateMessages(m, required); len(fieldErrors) > 0 {
		return &ValidationError{FieldErrors: fieldErrors}
	}
	return nil
}

func validateMessages(m *Messages, required []string) []FieldError {
	var fieldErrors []FieldError

	for _, key := range m.Keys() {
		if _, ok := templateTokens(m.templates[key]); !ok {
			fieldErrors = append(fieldErrors, FieldError{
				Key:     key,
				Code:    ErrCodeMalformedTemplate,
				Message: fmt.Sprintf("template %q has an unterminated or empty %%{} token", m.templates[key]),
			})
		}
	}

	for _, predicate := range required {
		if !m.HasPredicate(predicate) {
			fieldErrors = append(fieldErrors, FieldError{
				Key:     normalize.PredicateKey(predicate),
				Code:    ErrCodeRequired,
				Message: fmt.Sprintf("no template for required predicate %s", predicate),
			})
		}
	}

	return fieldErrors
}

// TokenValidator returns a Validator that rejects templates referencing
// tokens outside allowed. Use it to pin a catalog to the tokens your
// predicates actually derive.
func TokenValidator(allowed ...string) Validator {
	set := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		set[a] = true
	}
	return ValidatorFunc(func(_ context.Context, m *Messages) error {
		var fieldErrors []FieldError
		for _, key := range m.Keys() {
			names, _ := templateTokens(m.templates[key])
			for _, name := range names {
				if !set[name] {
					fieldErrors = append(fieldErrors, FieldError{
						Key:     key,
						Code:    ErrCodeMalformedTemplate,
						Message: fmt.Sprintf("token %q is not allowed", name),
					})
				}
			}
		}
		if len(fieldErrors) > 0 {
			return &ValidationError{FieldErrors: fieldErrors}
		}
		return nil
	})
}
