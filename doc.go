// Package errtree compiles rule-evaluation failures into nested error trees
// of rendered messages.
//
// Quick Start:
//
//	compiler := errtree.NewCompiler(errtree.DefaultMessages())
//
//	node := errtree.PredicateNode{Name: "filled?", Args: []errtree.Arg{{Name: "input", Value: ""}}}
//	tree, err := compiler.Compile(node, errtree.Options{Name: errtree.ParsePath("user.name"), Full: true})
//	// tree: {user: {name: ["name must be filled"]}}
//
// Catalogs map predicate names to %{token} templates. Lookup prefers the most
// specific key: per-rule entries, then value type and argument type variants,
// then the bare predicate. Layered catalogs are built with Loader:
//
//	messages, err := errtree.NewLoader().
//	    WithSource(catalogfile.New("errors.yaml", catalogfile.Options{Required: true})).
//	    WithSource(catalogenv.New(catalogenv.Options{Prefix: "APP_MSG_"})).
//	    WithRequired("filled?", "key?").
//	    Load(ctx)
//
// See example_test.go for more.
package errtree
