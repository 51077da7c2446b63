package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Azhovan/errtree"
)

func newRenderCommand(g *globalFlags) *cobra.Command {
	var (
		files []string
		path  string
		args  []string
		input string
		full  bool
	)

	cmd := &cobra.Command{
		Use:   "render <predicate>",
		Short: "Preview the message for a predicate failure",
		Long: `Render compiles a single failed predicate against the layered catalog
and prints the resulting message with its path.

Argument and input values are typed from their text: 3..5 is a range,
integers and floats are numbers, true/false are booleans, and a value
containing commas is a list.`,
		Example: `  errtree render filled? --path user.name --full
  # user.name: name must be filled

  errtree render size? --arg size=3..5 --input ab --path tags.0
  # tags.0: length must be within 3 - 5

  errtree render included_in? --arg list=admin,member --input root -f errors.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, pos []string) error {
			m, err := g.loader(cmd, files, false).Load(cmd.Context())
			if err != nil {
				return err
			}

			node := errtree.PredicateNode{Name: pos[0]}
			for _, a := range args {
				name, raw, ok := strings.Cut(a, "=")
				if !ok || name == "" {
					return fmt.Errorf("invalid --arg %q: want name=value", a)
				}
				node.Args = append(node.Args, errtree.Arg{Name: name, Value: parseValue(raw)})
			}

			var value any
			if cmd.Flags().Changed("input") {
				value = parseValue(input)
			}
			node.Args = append(node.Args, errtree.Arg{Name: "input", Value: value})

			compiler := errtree.NewCompiler(m, errtree.WithLogger(g.logger(cmd)))
			tree, err := compiler.Compile(node, errtree.Options{
				Name:  errtree.ParsePath(path),
				Input: value,
				Full:  full,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, msg := range tree.All() {
				if msg.Root() {
					fmt.Fprintln(out, msg.Text)
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", msg.Path, msg.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "Catalog files to layer over the built-in messages")
	cmd.Flags().StringVarP(&path, "path", "p", "", "Dot path of the failing value (e.g. items.2.name)")
	cmd.Flags().StringArrayVarP(&args, "arg", "a", nil, "Predicate argument as name=value (repeatable)")
	cmd.Flags().StringVarP(&input, "input", "i", "", "The failing value (omit for nil)")
	cmd.Flags().BoolVar(&full, "full", false, "Prefix the message with the rule name")

	return cmd
}

// parseValue types a command-line value.
func parseValue(s string) any {
	if lo, hi, ok := strings.Cut(s, ".."); ok {
		start, err1 := strconv.Atoi(lo)
		end, err2 := strconv.Atoi(hi)
		if err1 == nil && err2 == nil {
			return errtree.Range{Start: start, End: end}
		}
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil && (s == "true" || s == "false") {
		return b
	}
	if strings.Contains(s, ",") {
		return strings.Split(s, ",")
	}
	return s
}
