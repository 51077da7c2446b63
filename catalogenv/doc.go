// Package catalogenv overrides catalog templates from environment variables.
//
// Key normalization: SIZE__ARG__RANGE → size.arg.range, INCLUDED_IN → included_in
//
// Example:
//
//	source := catalogenv.New(catalogenv.Options{Prefix: "APP_MSG_"})
//	messages, err := errtree.NewLoader().WithSource(base).WithSource(source).Load(ctx)
package catalogenv
