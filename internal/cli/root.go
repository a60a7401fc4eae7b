// Package cli contains the hdrgraph commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/dejo1307/hdrgraph/internal/config"
	"github.com/dejo1307/hdrgraph/internal/engine"
	"github.com/dejo1307/hdrgraph/internal/render"
)

// Version is the current version of hdrgraph.
var Version = "0.1.0"

const defaultConfigPath = "hdrgraph.yaml"

// options holds the global flags shared by every command.
type options struct {
	configPath string
	root       string
	namespace  string
	format     string
	verbose    bool
	publicOnly bool
}

// NewRootCommand builds the hdrgraph command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "hdrgraph",
		Short: "Query C++ headers for type declarations and dependency order",
		Long: `hdrgraph scans a tree of C++ headers and answers questions about the
structs, classes and enums declared in them.

It extracts members and method signatures, computes which custom types a
declaration depends on and expands a root type into a dependency-first
generation order. The same queries are available to MCP clients through
'hdrgraph serve'.

Examples:
  hdrgraph decl Widget -n ui              # Show fields and methods of ui::Widget
  hdrgraph enum Color --format json       # Show enumerators as JSON
  hdrgraph deps Widget -n ui              # List custom types Widget references
  hdrgraph order Scene --format markdown  # Dependency-first order as markdown
  hdrgraph types --kind "enum class"      # List scoped enums in the corpus
  hdrgraph serve                          # Run the MCP server on stdio

See 'hdrgraph <command> --help' for command-specific options.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default: "+defaultConfigPath+")")
	flags.StringVar(&opts.root, "root", "", "Directory to scan for headers (overrides config)")
	flags.StringVarP(&opts.namespace, "namespace", "n", "", "Namespace to search in (overrides config)")
	flags.StringVar(&opts.format, "format", "", "Output format: text|json|jsonl|markdown (overrides config)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log traversal and extraction details")

	rootCmd.AddCommand(
		newDeclCommand(opts),
		newEnumCommand(opts),
		newDepsCommand(opts),
		newOrderCommand(opts),
		newTypesCommand(opts),
		newFilesCommand(opts),
		newServeCommand(opts),
	)
	return rootCmd
}

// Execute runs the root command and exits with status 1 on any error,
// including a type that is not found or not well formed.
func Execute() {
	log.SetOutput(os.Stderr)
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flag overrides. A missing
// default config file is not an error; an explicitly named one is.
func (o *options) loadConfig(stderr io.Writer) (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		if o.configPath != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		fmt.Fprintf(stderr, "warning: %v, using defaults\n", err)
		cfg = config.Default()
	}

	if o.root != "" {
		cfg.Root = o.root
	}
	if o.namespace != "" {
		cfg.Namespace = o.namespace
	}
	if o.format != "" {
		cfg.Output.Format = o.format
	}
	if o.publicOnly {
		cfg.Dependencies.PublicOnly = true
	}
	return cfg, nil
}

// newEngine loads the config and the corpus it describes.
func (o *options) newEngine(cmd *cobra.Command) (*engine.Engine, error) {
	cfg, err := o.loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	if _, err := render.Default().Lookup(cfg.Output.Format); err != nil {
		return nil, err
	}
	return engine.New(cmd.Context(), cfg, o.verbose)
}

// printResult renders v in the configured format to the command's stdout.
func printResult(cmd *cobra.Command, eng *engine.Engine, v any) error {
	rnd, err := render.Default().Lookup(eng.Config().Output.Format)
	if err != nil {
		return err
	}
	return rnd.Render(cmd.OutOrStdout(), v)
}
