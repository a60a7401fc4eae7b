// Package render prints query results as text, JSON, JSON lines or
// markdown.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dejo1307/hdrgraph/internal/corpus"
	"github.com/dejo1307/hdrgraph/internal/decl"
)

// Renderer writes one query result to w. Supported values are
// *decl.TypeDeclaration, *decl.EnumDeclaration, *Dependencies,
// *order.Order, []catalog.Entry and *FileListing.
type Renderer interface {
	// Name returns the format identifier (e.g. "markdown").
	Name() string
	Render(w io.Writer, v any) error
}

// Dependencies is the result of a dependency query.
type Dependencies struct {
	Name      string   `json:"name"`
	Namespace string   `json:"namespace,omitempty"`
	File      string   `json:"file"`
	Deps      []string `json:"deps"`
}

// FileListing describes the loaded corpus.
type FileListing struct {
	Root    string               `json:"root,omitempty"`
	Files   []string             `json:"files"`
	Bytes   int64                `json:"bytes"`
	Skipped []corpus.SkippedFile `json:"skipped,omitempty"`
}

// Registry holds renderers by name.
type Registry struct {
	renderers []Renderer
}

// NewRegistry creates a new renderer registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Default returns a registry with every built-in format.
func Default() *Registry {
	r := NewRegistry()
	r.Register(Text{})
	r.Register(JSON{})
	r.Register(JSONL{})
	r.Register(Markdown{})
	return r
}

// Register adds a renderer to the registry.
func (r *Registry) Register(rnd Renderer) {
	r.renderers = append(r.renderers, rnd)
}

// Get returns the renderer with the given name, or nil if not found.
func (r *Registry) Get(name string) Renderer {
	for _, rnd := range r.renderers {
		if rnd.Name() == name {
			return rnd
		}
	}
	return nil
}

// Lookup is Get with an error naming the known formats.
func (r *Registry) Lookup(name string) (Renderer, error) {
	if rnd := r.Get(name); rnd != nil {
		return rnd, nil
	}
	return nil, fmt.Errorf("unknown output format %q (want one of %s)", name, strings.Join(r.Names(), ", "))
}

// Names returns the registered format names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.renderers))
	for _, rnd := range r.renderers {
		names = append(names, rnd.Name())
	}
	sort.Strings(names)
	return names
}

func unsupported(format string, v any) error {
	return fmt.Errorf("%s: cannot render %T", format, v)
}

// MethodSignature formats m roughly as it was declared, e.g.
// "virtual void draw(Canvas& c, int layer = 0) const override".
func MethodSignature(m decl.Method) string {
	var sb strings.Builder
	if m.Static {
		sb.WriteString("static ")
	}
	if m.Virtual {
		sb.WriteString("virtual ")
	}
	if m.Inline {
		sb.WriteString("inline ")
	}
	sb.WriteString(m.Return.Raw)
	sb.WriteByte(' ')
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Type.Raw)
		if p.Name != "" {
			sb.WriteByte(' ')
			sb.WriteString(p.Name)
		}
		if p.Default != "" {
			sb.WriteString(" = ")
			sb.WriteString(p.Default)
		}
	}
	sb.WriteByte(')')
	if m.Const {
		sb.WriteString(" const")
	}
	if m.Override {
		sb.WriteString(" override")
	}
	return sb.String()
}

// FieldDeclaration formats f as a member declaration, e.g.
// "static const int kMax = 8".
func FieldDeclaration(f decl.Field) string {
	var sb strings.Builder
	if f.Static {
		sb.WriteString("static ")
	}
	if f.Const && !f.Type.Const {
		sb.WriteString("const ")
	}
	sb.WriteString(f.Type.Raw)
	sb.WriteByte(' ')
	sb.WriteString(f.Name)
	if f.Default != "" {
		if strings.HasPrefix(f.Default, "{") {
			sb.WriteString(f.Default)
		} else {
			sb.WriteString(" = ")
			sb.WriteString(f.Default)
		}
	}
	return sb.String()
}

func declHeader(d *decl.TypeDeclaration) string {
	h := string(d.Kind) + " " + d.QualifiedName()
	if d.Base != "" {
		h += " : " + d.Base
	}
	return h
}

func enumHeader(e *decl.EnumDeclaration) string {
	h := "enum "
	if e.Scoped {
		h += "class "
	}
	h += e.QualifiedName()
	if e.Underlying != nil {
		h += " : " + e.Underlying.Raw
	}
	return h
}
