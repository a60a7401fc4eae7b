package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/dejo1307/hdrgraph/internal/catalog"
	"github.com/dejo1307/hdrgraph/internal/decl"
	"github.com/dejo1307/hdrgraph/internal/order"
)

// Text is the human-readable terminal format.
type Text struct{}

func (Text) Name() string { return "text" }

func (t Text) Render(w io.Writer, v any) error {
	var sb strings.Builder
	switch v := v.(type) {
	case *decl.TypeDeclaration:
		t.declaration(&sb, v)
	case *decl.EnumDeclaration:
		t.enum(&sb, v)
	case *Dependencies:
		t.dependencies(&sb, v)
	case *order.Order:
		t.order(&sb, v)
	case []catalog.Entry:
		return t.catalog(w, v)
	case *FileListing:
		t.files(&sb, v)
	default:
		return unsupported(t.Name(), v)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (Text) declaration(sb *strings.Builder, d *decl.TypeDeclaration) {
	fmt.Fprintf(sb, "%s  (%s)\n", declHeader(d), d.File)
	if len(d.Fields) > 0 {
		sb.WriteString("  fields:\n")
		for _, f := range d.Fields {
			fmt.Fprintf(sb, "    %-9s %s\n", f.Access, FieldDeclaration(f))
		}
	}
	if len(d.Methods) > 0 {
		sb.WriteString("  methods:\n")
		for _, m := range d.Methods {
			fmt.Fprintf(sb, "    %-9s %s\n", m.Access, MethodSignature(m))
		}
	}
	if len(d.Skipped) > 0 {
		sb.WriteString("  skipped:\n")
		for _, s := range d.Skipped {
			fmt.Fprintf(sb, "    line %d: %s (%s)\n", s.Line, s.Text, s.Reason)
		}
	}
}

func (Text) enum(sb *strings.Builder, e *decl.EnumDeclaration) {
	fmt.Fprintf(sb, "%s  (%s)\n", enumHeader(e), e.File)
	for _, v := range e.Values {
		if v.Value != "" {
			fmt.Fprintf(sb, "  %s = %s\n", v.Name, v.Value)
		} else {
			fmt.Fprintf(sb, "  %s\n", v.Name)
		}
	}
}

func (Text) dependencies(sb *strings.Builder, d *Dependencies) {
	name := d.Name
	if d.Namespace != "" {
		name = d.Namespace + "::" + d.Name
	}
	if len(d.Deps) == 0 {
		fmt.Fprintf(sb, "%s has no custom dependencies\n", name)
		return
	}
	fmt.Fprintf(sb, "%s depends on:\n", name)
	for _, dep := range d.Deps {
		fmt.Fprintf(sb, "  %s\n", dep)
	}
}

func (Text) order(sb *strings.Builder, o *order.Order) {
	fmt.Fprintf(sb, "Generation order for %s (%d types):\n", o.Root, len(o.Entries))
	for i, e := range o.Entries {
		fmt.Fprintf(sb, "%4d. %-8s %s", i+1, e.Kind, e.Name)
		if e.Decl != nil {
			fmt.Fprintf(sb, "  (%s)", e.Decl.File)
		} else if e.Enum != nil {
			fmt.Fprintf(sb, "  (%s)", e.Enum.File)
		}
		sb.WriteByte('\n')
	}
	if len(o.Externals) > 0 {
		fmt.Fprintf(sb, "\nNot found in corpus: %s\n", strings.Join(o.Externals, ", "))
	}
	for _, c := range o.Cycles {
		fmt.Fprintf(sb, "Cycle: %s\n", strings.Join(c, " <-> "))
	}
}

func (t Text) catalog(w io.Writer, entries []catalog.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s:%d\n", e.Kind, e.QualifiedName(), e.File, e.Line)
	}
	return tw.Flush()
}

func (Text) files(sb *strings.Builder, l *FileListing) {
	fmt.Fprintf(sb, "%d files, %s\n", len(l.Files), humanize.Bytes(uint64(l.Bytes)))
	for _, p := range l.Files {
		fmt.Fprintf(sb, "  %s\n", p)
	}
	for _, s := range l.Skipped {
		fmt.Fprintf(sb, "  skipped %s: %s\n", s.Path, s.Reason)
	}
}
