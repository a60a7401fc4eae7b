package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/dejo1307/hdrgraph/internal/catalog"
	"github.com/dejo1307/hdrgraph/internal/render"
	"github.com/dejo1307/hdrgraph/internal/server"
)

func newDeclCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "decl <name>",
		Short: "Show the fields and methods of a struct or class",
		Long: `Locate a struct or class definition and print its base class, fields,
methods and any body lines that matched neither shape.

The first file (in path order) containing a definition wins. A definition
whose body never closes is reported as malformed.

Examples:
  hdrgraph decl Widget -n ui
  hdrgraph decl Widget -n ui --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.newEngine(cmd)
			if err != nil {
				return err
			}
			d, err := eng.LocateDeclaration(args[0], eng.Namespace(""))
			if err != nil {
				return err
			}
			return printResult(cmd, eng, d)
		},
	}
}

func newEnumCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "enum <name>",
		Short: "Show the enumerators of an enum or enum class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.newEngine(cmd)
			if err != nil {
				return err
			}
			e, err := eng.LocateEnum(args[0], eng.Namespace(""))
			if err != nil {
				return err
			}
			return printResult(cmd, eng, e)
		},
	}
}

func newDepsCommand(opts *options) *cobra.Command {
	var publicOnly bool
	cmd := &cobra.Command{
		Use:   "deps <name>",
		Short: "List the custom types a declaration references",
		Long: `Compute the dependency set of a struct or class: every custom type named
by its fields, method return and parameter types and base class. Builtin
types, std:: types and types listed under builtins.extra are excluded.

Examples:
  hdrgraph deps Widget -n ui
  hdrgraph deps Widget -n ui --public-only`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.publicOnly = publicOnly
			eng, err := opts.newEngine(cmd)
			if err != nil {
				return err
			}
			d, deps, err := eng.Dependencies(args[0], eng.Namespace(""))
			if err != nil {
				return err
			}
			return printResult(cmd, eng, &render.Dependencies{
				Name:      d.Name,
				Namespace: d.Namespace,
				File:      d.File,
				Deps:      deps,
			})
		},
	}
	cmd.Flags().BoolVar(&publicOnly, "public-only", false, "Only consider public fields and methods")
	return cmd
}

func newOrderCommand(opts *options) *cobra.Command {
	var failOnCycle bool
	cmd := &cobra.Command{
		Use:   "order <root>",
		Short: "Print the dependency-first generation order of a type",
		Long: `Expand a root type into every type it transitively depends on and print
them so that each type comes after its dependencies. Types that cannot be
found in the corpus are listed separately as external and take no position
in the order. Types that reference each other
are placed next to each other and reported as a cycle.

Examples:
  hdrgraph order Scene -n engine
  hdrgraph order Scene -n engine --format markdown
  hdrgraph order Scene --fail-on-cycle`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.newEngine(cmd)
			if err != nil {
				return err
			}
			o, err := eng.ComputeGenerationOrder(args[0], eng.Namespace(""))
			if err != nil {
				return err
			}
			if err := printResult(cmd, eng, o); err != nil {
				return err
			}
			if failOnCycle && o.HasCycles() {
				return fmt.Errorf("%d dependency cycle(s) reachable from %s", len(o.Cycles), args[0])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&failOnCycle, "fail-on-cycle", false, "Exit with an error when the order contains a cycle")
	return cmd
}

func newTypesCommand(opts *options) *cobra.Command {
	var kind, name string
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List every type defined in the corpus",
		Long: `List struct, class, union and enum definitions with their file and line.
Unlike the other commands this uses a full C++ grammar, so nested and
reopened namespaces and nested types are reported with their qualified
names.

Examples:
  hdrgraph types
  hdrgraph types --kind struct --name render`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.newEngine(cmd)
			if err != nil {
				return err
			}
			entries, err := eng.Catalog(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd, eng, catalog.Filter(entries, name, kind))
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Only list this kind (struct|class|union|enum|enum class)")
	cmd.Flags().StringVar(&name, "name", "", "Only list qualified names containing this text")
	return cmd
}

func newFilesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List the headers loaded into the corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.newEngine(cmd)
			if err != nil {
				return err
			}
			c := eng.Corpus()
			return printResult(cmd, eng, &render.FileListing{
				Root:    c.Root(),
				Files:   c.Paths(),
				Bytes:   c.Size(),
				Skipped: c.Skipped(),
			})
		},
	}
}

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Load the corpus once and serve declaration, dependency and ordering
queries to an MCP client over stdin/stdout. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.newEngine(cmd)
			if err != nil {
				return err
			}
			srv := server.New(eng, Version)
			if err := srv.Run(cmd.Context()); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			log.Println("[server] stopped")
			return nil
		},
	}
}
