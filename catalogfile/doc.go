// Package catalogfile loads message catalogs from YAML, JSON, or TOML files.
//
// Format is auto-detected from extension (.yaml, .json, .toml).
// Nested tables flatten to dot keys: size → arg → range becomes "size.arg.range".
//
// Example:
//
//	source := catalogfile.New("errors.yaml", catalogfile.Options{Required: true, Watch: true})
//	messages, err := errtree.NewLoader().WithSource(source).Load(ctx)
package catalogfile
