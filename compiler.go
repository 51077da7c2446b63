package errtree

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"golang.org/x/sync/errgroup"
)

// Options scopes one compilation.
type Options struct {
	// Name is the root-first path prefix of the node being compiled.
	Name Path

	// Input is the value in scope for Name.
	Input any

	// Full prefixes each message with its rule name ("age must be filled").
	Full bool

	// Hints marks every produced message as a hint.
	Hints bool
}

// Compiler renders rule-evaluation results into error trees.
// A Compiler is immutable and safe for concurrent use.
type Compiler struct {
	catalog     Catalog
	deriver     *Deriver
	logger      *slog.Logger
	concurrency int
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithDeriver replaces the default token Deriver.
func WithDeriver(d *Deriver) CompilerOption {
	return func(c *Compiler) {
		c.deriver = d
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) CompilerOption {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithConcurrency bounds the goroutines used by CompileAll. Default: 8.
func WithConcurrency(n int) CompilerOption {
	return func(c *Compiler) {
		c.concurrency = n
	}
}

// NewCompiler creates a Compiler reading templates from catalog.
func NewCompiler(catalog Catalog, opts ...CompilerOption) *Compiler {
	c := &Compiler{
		catalog:     catalog,
		concurrency: 8,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.deriver == nil {
		c.deriver = NewDeriver(WithReporter(NewLogReporter(c.logger)))
	}
	return c
}

// Compile renders node into an error tree.
// A missing template aborts the whole call and no tree is returned.
func (c *Compiler) Compile(node Node, opts Options) (*Tree, error) {
	v := c.visitor(opts.Name, opts.Input, opts, false)
	tree, err := v.visit(node)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// Failure pairs a top-level result node with the options to compile it with.
type Failure struct {
	Node    Node
	Options Options
}

// CompileAll compiles failures concurrently and merges the trees in input
// order. The first error cancels the remaining work.
func (c *Compiler) CompileAll(ctx context.Context, failures []Failure) (*Tree, error) {
	trees := make([]*Tree, len(failures))

	g, ctx := errgroup.WithContext(ctx)
	if c.concurrency > 0 {
		g.SetLimit(c.concurrency)
	}
	for i, f := range failures {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tree, err := c.Compile(f.Node, f.Options)
			if err != nil {
				return fmt.Errorf("compile failure %d: %w", i, err)
			}
			trees[i] = tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Merge(trees...)
}

func (c *Compiler) visitor(name Path, input any, opts Options, grouped bool) *visitor {
	return &visitor{
		c:       c,
		name:    name,
		input:   input,
		rule:    name.Last(),
		valType: reflect.TypeOf(input),
		opts:    opts,
		grouped: grouped,
	}
}

// visitor carries the context of one compilation scope.
type visitor struct {
	c       *Compiler
	name    Path
	input   any
	rule    Segment
	valType reflect.Type
	opts    Options
	grouped bool
}

func (v *visitor) visit(node Node) (*Tree, error) {
	switch n := node.(type) {
	case EachNode:
		return v.visitEach(n)
	case SetNode:
		return v.visitSet(n)
	case ElementNode:
		return v.visitElement(n)
	case CheckNode:
		return v.visit(n.Node)
	case PredicateNode:
		return v.visitPredicate(n)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownNode, node)
	}
}

func (v *visitor) visitEach(n EachNode) (*Tree, error) {
	inner := *v
	inner.grouped = true
	return inner.visitAll(n.Nodes)
}

func (v *visitor) visitSet(n SetNode) (*Tree, error) {
	return v.visitAll(n.Nodes)
}

func (v *visitor) visitAll(nodes []Node) (*Tree, error) {
	trees := make([]*Tree, 0, len(nodes))
	for _, child := range nodes {
		tree, err := v.visit(child)
		if err != nil {
			return nil, err
		}
		trees = append(trees, tree)
	}
	return Merge(trees...)
}

func (v *visitor) visitElement(n ElementNode) (*Tree, error) {
	path := v.name.Append(Index(n.Index))
	return v.c.visitor(path, elementAt(v.input, n.Index), v.opts, v.grouped).visit(n.Node)
}

func (v *visitor) visitPredicate(n PredicateNode) (*Tree, error) {
	lc := LookupContext{
		Rule:    v.rule,
		Path:    v.name,
		ValType: v.valType,
	}
	if len(n.Args) > 0 {
		lc.ArgType = reflect.TypeOf(n.Args[0].Value)
	}

	tokens := v.c.deriver.Derive(n.Name, n.Args, v.rule, v.input)
	lc.Tokens = tokens

	template, ok := v.c.catalog.Lookup(n.Name, lc)
	if !ok {
		return nil, &MissingTemplateError{Predicate: n.Name, Path: v.name}
	}

	body, err := Render(template, tokens)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", n.Name, err)
	}

	text := body
	if v.opts.Full {
		ruleLC := lc
		ruleLC.Tokens = nil
		prefix := v.ruleName(ruleLC)
		if prefix == "" && tokens["name"] != nil {
			prefix = fmt.Sprint(tokens["name"])
		}
		if prefix != "" {
			text = prefix + " " + body
		}
	}

	path := v.name.Append()
	if seg, ok := segmentOf(tokens["name"]); ok && !path.Contains(seg) {
		path = append(path, seg)
	}

	// The last argument is the input itself.
	argVals := make([]any, 0, len(n.Args))
	if len(n.Args) > 0 {
		for _, a := range n.Args[:len(n.Args)-1] {
			argVals = append(argVals, a.Value)
		}
	}

	msg := Message{
		Rule:      v.rule,
		Predicate: Predicate{Name: n.Name, Args: argVals},
		Path:      path,
		Text:      text,
	}
	if v.opts.Hints {
		msg = msg.WithHint(v.grouped)
	}

	v.c.logger.Debug("compiled failure",
		"predicate", n.Name,
		"path", path.String(),
	)

	return Build(msg, path), nil
}

// ruleName resolves the display name of the rule in scope. Key rules go
// through the catalog and fall back to the key itself.
func (v *visitor) ruleName(lc LookupContext) string {
	switch {
	case v.rule.IsZero():
		return ""
	case v.rule.IsIndex():
		return v.rule.String()
	}
	if name, ok := v.c.catalog.RuleName(v.rule.Name(), lc); ok && name != "" {
		return name
	}
	return v.rule.Name()
}

// elementAt returns input[idx] for slices, arrays and int-keyed maps.
// Anything else, or an index out of range, yields nil.
func elementAt(input any, idx int) any {
	rv := reflect.ValueOf(input)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if idx < 0 || idx >= rv.Len() {
			return nil
		}
		return rv.Index(idx).Interface()
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.Int {
			return nil
		}
		el := rv.MapIndex(reflect.ValueOf(idx).Convert(rv.Type().Key()))
		if !el.IsValid() {
			return nil
		}
		return el.Interface()
	default:
		return nil
	}
}
