package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dejo1307/hdrgraph/internal/catalog"
	"github.com/dejo1307/hdrgraph/internal/engine"
	"github.com/dejo1307/hdrgraph/internal/render"
)

// Server wraps the MCP server and connects it to the query engine.
type Server struct {
	mcp       *mcp.Server
	eng       *engine.Engine
	renderers *render.Registry
}

// New creates a new MCP server wired to the given engine.
func New(eng *engine.Engine, version string) *Server {
	s := &Server{
		eng:       eng,
		renderers: render.Default(),
	}

	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    "hdrgraph",
		Version: version,
	}, nil)
	s.registerResources()
	s.registerTools()
	return s
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	log.Printf("[server] starting MCP server on stdio transport (%d headers loaded)", s.eng.Corpus().Len())
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		URI:         "hdrgraph://corpus/files",
		Name:        "Header Corpus",
		Description: "Headers loaded into the corpus and files that were skipped",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		data, err := json.MarshalIndent(s.fileListing(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding corpus listing: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: req.Params.URI, Text: string(data), MIMEType: "application/json"},
			},
		}, nil
	})

	s.mcp.AddResource(&mcp.Resource{
		URI:         "hdrgraph://corpus/types",
		Name:        "Type Catalog",
		Description: "Every struct, class, union and enum defined in the corpus",
		MIMEType:    "text/markdown",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		entries, err := s.eng.Catalog(ctx)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := (render.Markdown{}).Render(&buf, entries); err != nil {
			return nil, err
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: req.Params.URI, Text: buf.String(), MIMEType: "text/markdown"},
			},
		}, nil
	})
}

// lookupArgs are the arguments shared by the single-type tools.
type lookupArgs struct {
	Name      string `json:"name" jsonschema:"required,Unqualified type name, e.g. Widget"`
	Namespace string `json:"namespace,omitempty" jsonschema:"Namespace the type must be declared in. Defaults to the configured namespace."`
	Format    string `json:"format,omitempty" jsonschema:"Output format: json (default), markdown or text"`
}

// orderArgs are the arguments for the generation_order tool.
type orderArgs struct {
	Root      string `json:"root" jsonschema:"required,Type to start from"`
	Namespace string `json:"namespace,omitempty" jsonschema:"Namespace dependencies are resolved in. Defaults to the configured namespace."`
	Format    string `json:"format,omitempty" jsonschema:"Output format: json (default), markdown or text"`
}

// listTypesArgs are the arguments for the list_types tool.
type listTypesArgs struct {
	Name  string `json:"name,omitempty" jsonschema:"Filter by qualified name using substring match"`
	Kind  string `json:"kind,omitempty" jsonschema:"Filter by kind: struct, class, union, enum or enum class"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of entries to return (default 200)"`
}

// showSourceArgs are the arguments for the show_source tool.
type showSourceArgs struct {
	Name         string `json:"name" jsonschema:"required,Type name or qualified name to show"`
	ContextLines int    `json:"context_lines,omitempty" jsonschema:"Number of source lines to show from the definition (default 30)"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "locate_declaration",
		Description: "Find a struct or class definition in the header corpus and return its base, fields, methods and any body lines that could not be parsed.",
	}, s.locateDeclaration)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "locate_enum",
		Description: "Find an enum or enum class definition and return its enumerators and underlying type.",
	}, s.locateEnum)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "compute_dependencies",
		Description: "List the custom types a struct or class references through its fields, method signatures and base class. Builtins and std:: types are excluded.",
	}, s.computeDependencies)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "generation_order",
		Description: "Expand a root type into every type it transitively depends on, ordered so each type comes after its dependencies. Reports types not found in the corpus and dependency cycles.",
	}, s.generationOrder)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_types",
		Description: "List struct, class, union and enum definitions in the corpus with their file and line, including nested namespaces and nested types.",
	}, s.listTypes)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "show_source",
		Description: "Show the header source of a type definition with line numbers.",
	}, s.showSource)
}

func (s *Server) locateDeclaration(ctx context.Context, req *mcp.CallToolRequest, args lookupArgs) (*mcp.CallToolResult, any, error) {
	if args.Name == "" {
		return errorResult("name is required"), nil, nil
	}
	d, err := s.eng.LocateDeclaration(args.Name, s.eng.Namespace(args.Namespace))
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	return s.renderResult(args.Format, d), nil, nil
}

func (s *Server) locateEnum(ctx context.Context, req *mcp.CallToolRequest, args lookupArgs) (*mcp.CallToolResult, any, error) {
	if args.Name == "" {
		return errorResult("name is required"), nil, nil
	}
	e, err := s.eng.LocateEnum(args.Name, s.eng.Namespace(args.Namespace))
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	return s.renderResult(args.Format, e), nil, nil
}

func (s *Server) computeDependencies(ctx context.Context, req *mcp.CallToolRequest, args lookupArgs) (*mcp.CallToolResult, any, error) {
	if args.Name == "" {
		return errorResult("name is required"), nil, nil
	}
	d, deps, err := s.eng.Dependencies(args.Name, s.eng.Namespace(args.Namespace))
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	return s.renderResult(args.Format, &render.Dependencies{
		Name:      d.Name,
		Namespace: d.Namespace,
		File:      d.File,
		Deps:      deps,
	}), nil, nil
}

func (s *Server) generationOrder(ctx context.Context, req *mcp.CallToolRequest, args orderArgs) (*mcp.CallToolResult, any, error) {
	if args.Root == "" {
		return errorResult("root is required"), nil, nil
	}
	o, err := s.eng.ComputeGenerationOrder(args.Root, s.eng.Namespace(args.Namespace))
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	return s.renderResult(args.Format, o), nil, nil
}

func (s *Server) listTypes(ctx context.Context, req *mcp.CallToolRequest, args listTypesArgs) (*mcp.CallToolResult, any, error) {
	entries, err := s.eng.Catalog(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("building type catalog failed: %v", err)), nil, nil
	}

	limit := args.Limit
	if limit <= 0 {
		limit = 200
	}
	matched := catalog.Filter(entries, args.Name, args.Kind)
	total := len(matched)
	if total > limit {
		matched = matched[:limit]
	}

	var buf bytes.Buffer
	if err := (render.Markdown{}).Render(&buf, matched); err != nil {
		return errorResult(err.Error()), nil, nil
	}
	text := buf.String()
	if total > limit {
		text += fmt.Sprintf("... (showing %d of %d types, refine your query)\n", limit, total)
	}
	return textResult(text), nil, nil
}

func (s *Server) showSource(ctx context.Context, req *mcp.CallToolRequest, args showSourceArgs) (*mcp.CallToolResult, any, error) {
	if args.Name == "" {
		return errorResult("name is required"), nil, nil
	}
	entries, err := s.eng.Catalog(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("building type catalog failed: %v", err)), nil, nil
	}

	var matches []catalog.Entry
	for _, e := range entries {
		if e.Name == args.Name || e.QualifiedName() == args.Name {
			matches = append(matches, e)
		}
	}
	if len(matches) == 0 {
		return errorResult(fmt.Sprintf("no type named %q in the corpus", args.Name)), nil, nil
	}
	if len(matches) > 5 {
		matches = matches[:5]
	}

	contextLines := args.ContextLines
	if contextLines <= 0 {
		contextLines = 30
	}

	var sb strings.Builder
	for i, e := range matches {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&sb, "### %s (%s)\n", e.QualifiedName(), e.Kind)
		fmt.Fprintf(&sb, "File: %s  Line: %d\n\n", e.File, e.Line)
		text, ok := s.eng.Corpus().Text(e.File)
		if !ok {
			fmt.Fprintf(&sb, "_Could not read source of %s_\n", e.File)
			continue
		}
		fmt.Fprintf(&sb, "```cpp\n%s```\n", sourceWindow(text, e.Line, contextLines))
	}
	return textResult(sb.String()), nil, nil
}

func (s *Server) fileListing() *render.FileListing {
	c := s.eng.Corpus()
	return &render.FileListing{Root: c.Root(), Files: c.Paths(), Bytes: c.Size(), Skipped: c.Skipped()}
}

// renderResult formats v with the named renderer, JSON by default.
func (s *Server) renderResult(format string, v any) *mcp.CallToolResult {
	if format == "" {
		format = "json"
	}
	rnd, err := s.renderers.Lookup(format)
	if err != nil {
		return errorResult(err.Error())
	}
	var buf bytes.Buffer
	if err := rnd.Render(&buf, v); err != nil {
		return errorResult(fmt.Sprintf("failed to render result: %v", err))
	}
	return textResult(buf.String())
}

// sourceWindow returns contextLines lines of text starting at startLine,
// each prefixed with its line number.
func sourceWindow(text string, startLine, contextLines int) string {
	lines := strings.Split(text, "\n")
	if startLine < 1 {
		startLine = 1
	}
	endLine := startLine + contextLines - 1
	if endLine > len(lines) {
		endLine = len(lines)
	}

	var sb strings.Builder
	for i := startLine; i <= endLine; i++ {
		fmt.Fprintf(&sb, "%4d│ %s\n", i, lines[i-1])
	}
	return sb.String()
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
