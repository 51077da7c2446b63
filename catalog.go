package errtree

import "reflect"

// Catalog resolves message templates and human-readable rule names.
// Implementations must be safe for concurrent reads.
type Catalog interface {
	// Lookup returns the template for predicate, or false when none exists.
	Lookup(predicate string, lc LookupContext) (string, bool)

	// RuleName returns the display name for a rule identifier.
	RuleName(rule string, lc LookupContext) (string, bool)
}

// LookupContext describes the failure a template is requested for.
type LookupContext struct {
	Rule    Segment      // Innermost rule (zero at root)
	Path    Path         // Root-first path prefix being compiled
	ValType reflect.Type // Type of the input in scope (nil for nil input)
	ArgType reflect.Type // Type of the first argument value (nil without arguments)
	Tokens  Tokens       // Derived tokens; nil during RuleName
}
