package errtree

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
)

// Tokens maps template token names to values.
type Tokens map[string]any

func (t Tokens) clone() Tokens {
	out := make(Tokens, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Arg is one named predicate argument.
type Arg struct {
	Name  string
	Value any
}

// Range is an inclusive bound, as passed to size predicates.
type Range struct {
	Start int
	End   int
}

func (r Range) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// OptionsFunc rewrites the tokens derived for a predicate. It receives a
// private copy and returns the tokens to render with.
type OptionsFunc func(tokens Tokens) Tokens

// DeprecationReporter receives notices about retired predicate names.
type DeprecationReporter interface {
	Deprecated(predicate, replacement string)
}

type logReporter struct {
	logger *slog.Logger
}

// NewLogReporter returns a DeprecationReporter that logs a warning per notice.
// A nil logger uses slog.Default().
func NewLogReporter(logger *slog.Logger) DeprecationReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &logReporter{logger: logger}
}

func (r *logReporter) Deprecated(predicate, replacement string) {
	r.logger.Warn(
		fmt.Sprintf("%s is deprecated - use %s instead.", strings.TrimSuffix(predicate, "?"), strings.TrimSuffix(replacement, "?")),
		"predicate", predicate,
		"replacement", replacement,
	)
}

type override struct {
	fn          OptionsFunc
	replacement string // set for deprecated aliases
}

// Deriver computes template tokens for predicate failures. It is immutable
// after NewDeriver and safe for concurrent use.
type Deriver struct {
	overrides map[string]override
	reporter  DeprecationReporter
}

// DeriverOption configures a Deriver.
type DeriverOption func(*Deriver)

// WithOverride registers fn for the predicate name, replacing any built-in.
func WithOverride(predicate string, fn OptionsFunc) DeriverOption {
	return func(d *Deriver) {
		d.overrides[predicate] = override{fn: fn}
	}
}

// WithDeprecatedAlias makes predicate a retired name for replacement.
// Deriving it reports a deprecation and applies the replacement's override.
func WithDeprecatedAlias(predicate, replacement string) DeriverOption {
	return func(d *Deriver) {
		d.overrides[predicate] = override{replacement: replacement}
	}
}

// WithReporter sets where deprecation notices go.
func WithReporter(r DeprecationReporter) DeriverOption {
	return func(d *Deriver) {
		d.reporter = r
	}
}

// NewDeriver returns a Deriver with the built-in overrides for size?,
// included_in?, excluded_from? and the deprecated inclusion?/exclusion?.
func NewDeriver(opts ...DeriverOption) *Deriver {
	d := &Deriver{
		overrides: map[string]override{
			"size?":          {fn: sizeOptions},
			"included_in?":   {fn: listOptions},
			"excluded_from?": {fn: listOptions},
			"inclusion?":     {replacement: "included_in?"},
			"exclusion?":     {replacement: "excluded_from?"},
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.reporter == nil {
		d.reporter = NewLogReporter(nil)
	}
	return d
}

// Predicates returns the predicate names with a registered override.
func (d *Deriver) Predicates() []string {
	names := make([]string, 0, len(d.overrides))
	for name := range d.overrides {
		names = append(names, name)
	}
	return names
}

// Derive returns the tokens for rendering predicate's template:
// name, rule and value defaults, then every argument by name, then the
// predicate's override if one is registered.
func (d *Deriver) Derive(predicate string, args []Arg, rule Segment, input any) Tokens {
	var ruleToken any
	if !rule.IsZero() {
		ruleToken = rule
	}
	tokens := Tokens{
		"name":  ruleToken,
		"rule":  ruleToken,
		"value": input,
	}
	for _, a := range args {
		tokens[a.Name] = a.Value
	}

	fn := d.resolve(predicate, make(map[string]bool))
	if fn == nil {
		return tokens
	}
	return fn(tokens.clone())
}

func (d *Deriver) resolve(predicate string, seen map[string]bool) OptionsFunc {
	ov, ok := d.overrides[predicate]
	if !ok || seen[predicate] {
		return nil
	}
	seen[predicate] = true
	if ov.replacement == "" {
		return ov.fn
	}
	d.reporter.Deprecated(predicate, ov.replacement)
	return d.resolve(ov.replacement, seen)
}

func sizeOptions(tokens Tokens) Tokens {
	r, ok := tokens["size"].(Range)
	if !ok {
		return tokens
	}
	delete(tokens, "size")
	tokens["left"] = r.Start
	tokens["right"] = r.End
	return tokens
}

func listOptions(tokens Tokens) Tokens {
	if list, ok := tokens["list"]; ok {
		tokens["list"] = joinList(list)
	}
	return tokens
}

// joinList renders slice and array elements joined by ", ".
func joinList(list any) string {
	v := reflect.ValueOf(list)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return fmt.Sprint(list)
	}
	parts := make([]string, v.Len())
	for i := 0; i < v.Len(); i++ {
		parts[i] = fmt.Sprint(v.Index(i).Interface())
	}
	return strings.Join(parts, ", ")
}
