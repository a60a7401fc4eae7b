package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dejo1307/hdrgraph/internal/catalog"
	"github.com/dejo1307/hdrgraph/internal/decl"
	"github.com/dejo1307/hdrgraph/internal/order"
)

// Markdown renders results as markdown sections and tables, suitable for
// pasting into design notes or feeding to an LLM.
type Markdown struct{}

func (Markdown) Name() string { return "markdown" }

func (m Markdown) Render(w io.Writer, v any) error {
	var sb strings.Builder
	switch v := v.(type) {
	case *decl.TypeDeclaration:
		m.declaration(&sb, v)
	case *decl.EnumDeclaration:
		m.enum(&sb, v)
	case *Dependencies:
		m.dependencies(&sb, v)
	case *order.Order:
		m.order(&sb, v)
	case []catalog.Entry:
		m.catalog(&sb, v)
	case *FileListing:
		m.files(&sb, v)
	default:
		return unsupported(m.Name(), v)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (Markdown) declaration(sb *strings.Builder, d *decl.TypeDeclaration) {
	fmt.Fprintf(sb, "## `%s`\n\n", declHeader(d))
	fmt.Fprintf(sb, "Defined in `%s`.\n\n", d.File)

	if len(d.Fields) > 0 {
		sb.WriteString("### Fields\n\n")
		sb.WriteString("| Access | Declaration |\n")
		sb.WriteString("|--------|-------------|\n")
		for _, f := range d.Fields {
			fmt.Fprintf(sb, "| %s | `%s` |\n", f.Access, escapeCell(FieldDeclaration(f)))
		}
		sb.WriteString("\n")
	}
	if len(d.Methods) > 0 {
		sb.WriteString("### Methods\n\n")
		sb.WriteString("| Access | Signature |\n")
		sb.WriteString("|--------|-----------|\n")
		for _, mt := range d.Methods {
			fmt.Fprintf(sb, "| %s | `%s` |\n", mt.Access, escapeCell(MethodSignature(mt)))
		}
		sb.WriteString("\n")
	}
	if len(d.Skipped) > 0 {
		sb.WriteString("### Skipped lines\n\n")
		for _, s := range d.Skipped {
			fmt.Fprintf(sb, "- line %d: `%s` (%s)\n", s.Line, s.Text, s.Reason)
		}
		sb.WriteString("\n")
	}
}

func (Markdown) enum(sb *strings.Builder, e *decl.EnumDeclaration) {
	fmt.Fprintf(sb, "## `%s`\n\n", enumHeader(e))
	fmt.Fprintf(sb, "Defined in `%s`.\n\n", e.File)
	if len(e.Values) == 0 {
		sb.WriteString("_No enumerators._\n")
		return
	}
	sb.WriteString("| Enumerator | Value |\n")
	sb.WriteString("|------------|-------|\n")
	for _, v := range e.Values {
		val := v.Value
		if val == "" {
			val = "-"
		} else {
			val = "`" + escapeCell(val) + "`"
		}
		fmt.Fprintf(sb, "| `%s` | %s |\n", v.Name, val)
	}
	sb.WriteString("\n")
}

func (Markdown) dependencies(sb *strings.Builder, d *Dependencies) {
	fmt.Fprintf(sb, "## Dependencies of `%s`\n\n", d.Name)
	if len(d.Deps) == 0 {
		sb.WriteString("_No custom dependencies._\n\n")
		return
	}
	for _, dep := range d.Deps {
		fmt.Fprintf(sb, "- `%s`\n", dep)
	}
	sb.WriteString("\n")
}

func (Markdown) order(sb *strings.Builder, o *order.Order) {
	fmt.Fprintf(sb, "# Generation order for `%s`\n\n", o.Root)
	sb.WriteString("| # | Type | Kind | File | Depends on |\n")
	sb.WriteString("|---|------|------|------|------------|\n")
	for i, e := range o.Entries {
		file := "-"
		switch {
		case e.Decl != nil:
			file = "`" + e.Decl.File + "`"
		case e.Enum != nil:
			file = "`" + e.Enum.File + "`"
		}
		deps := "-"
		if len(e.Deps) > 0 {
			deps = strings.Join(e.Deps, ", ")
		}
		fmt.Fprintf(sb, "| %d | `%s` | %s | %s | %s |\n", i+1, e.Name, e.Kind, file, deps)
	}
	sb.WriteString("\n")

	if len(o.Externals) > 0 {
		sb.WriteString("## External types\n\n")
		for _, name := range o.Externals {
			fmt.Fprintf(sb, "- `%s`\n", name)
		}
		sb.WriteString("\n")
	}
	if o.HasCycles() {
		sb.WriteString("## Cycles\n\n")
		sb.WriteString("These types reference each other and need forward declarations.\n\n")
		for _, c := range o.Cycles {
			fmt.Fprintf(sb, "- %s\n", strings.Join(c, " <-> "))
		}
		sb.WriteString("\n")
	}
}

func (Markdown) catalog(sb *strings.Builder, entries []catalog.Entry) {
	sb.WriteString("| Type | Kind | Location |\n")
	sb.WriteString("|------|------|----------|\n")
	for _, e := range entries {
		fmt.Fprintf(sb, "| `%s` | %s | `%s:%d` |\n", e.QualifiedName(), e.Kind, e.File, e.Line)
	}
	sb.WriteString("\n")
}

func (Markdown) files(sb *strings.Builder, l *FileListing) {
	fmt.Fprintf(sb, "## Corpus\n\n%d files, %s.\n\n", len(l.Files), humanize.Bytes(uint64(l.Bytes)))
	for _, p := range l.Files {
		fmt.Fprintf(sb, "- `%s`\n", p)
	}
	if len(l.Skipped) > 0 {
		sb.WriteString("\n### Skipped\n\n")
		for _, s := range l.Skipped {
			fmt.Fprintf(sb, "- `%s`: %s\n", s.Path, s.Reason)
		}
	}
	sb.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
