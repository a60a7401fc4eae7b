// Package catalog lists every struct, class, union and enum definition in a
// corpus using the tree-sitter C++ grammar. Unlike the heuristic extractor it
// follows nested and reopened namespaces and nested types.
package catalog

import (
	"context"
	"log"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
)

// Entry is one type definition found in the corpus.
type Entry struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
	Scope     string `json:"scope,omitempty"` // enclosing types of a nested definition
	Kind      string `json:"kind"`            // struct, class, union, enum or enum class
	File      string `json:"file"`
	Line      int    `json:"line"`
}

// QualifiedName joins namespace, enclosing types and name with "::".
func (e Entry) QualifiedName() string {
	var parts []string
	for _, p := range []string{e.Namespace, e.Scope, e.Name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "::")
}

// Source is the read-only corpus view the catalog parses.
type Source interface {
	Paths() []string
	Text(path string) (string, bool)
}

var specifierKinds = map[string]string{
	"struct_specifier": "struct",
	"class_specifier":  "class",
	"union_specifier":  "union",
	"enum_specifier":   "enum",
}

// Build parses every file of src and returns the definitions sorted by
// qualified name, then file and line. Files with syntax errors are still
// indexed as far as the grammar recovers. Cancellation is checked between
// files.
func Build(ctx context.Context, src Source) ([]Entry, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(sitter.NewLanguage(cpp.Language())); err != nil {
		return nil, err
	}

	entries := []Entry{}
	for _, path := range src.Paths() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, ok := src.Text(path)
		if !ok {
			continue
		}
		entries = append(entries, parseFile(parser, []byte(text), path)...)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if qa, qb := a.QualifiedName(), b.QualifiedName(); qa != qb {
			return qa < qb
		}
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
	return entries, nil
}

// Filter returns the entries whose kind equals kind and whose qualified
// name contains name, ignoring case. Empty arguments match everything.
func Filter(entries []Entry, name, kind string) []Entry {
	out := []Entry{}
	lowerName := strings.ToLower(name)
	for _, e := range entries {
		if kind != "" && e.Kind != kind {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(e.QualifiedName()), lowerName) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func parseFile(parser *sitter.Parser, src []byte, path string) []Entry {
	tree := parser.Parse(src, nil)
	if tree == nil {
		log.Printf("[catalog] could not parse %s", path)
		return nil
	}
	defer tree.Close()

	w := &walker{src: src, file: path}
	w.walk(tree.RootNode())
	return w.entries
}

type walker struct {
	src        []byte
	file       string
	namespaces []string
	scopes     []string
	entries    []Entry
}

func (w *walker) walk(node *sitter.Node) {
	switch node.Kind() {
	case "namespace_definition":
		body := node.ChildByFieldName("body")
		if body == nil {
			return
		}
		if name := node.ChildByFieldName("name"); name != nil {
			w.namespaces = append(w.namespaces, nodeText(name, w.src))
			defer func() { w.namespaces = w.namespaces[:len(w.namespaces)-1] }()
		}
		w.walkChildren(body)
		return

	case "struct_specifier", "class_specifier", "union_specifier", "enum_specifier":
		name := node.ChildByFieldName("name")
		body := node.ChildByFieldName("body")
		if name == nil || body == nil {
			// forward declaration, elaborated use or anonymous type
			if body != nil {
				w.walkChildren(body)
			}
			return
		}
		typeName := nodeText(name, w.src)
		w.entries = append(w.entries, Entry{
			Name:      typeName,
			Namespace: strings.Join(w.namespaces, "::"),
			Scope:     strings.Join(w.scopes, "::"),
			Kind:      w.kindOf(node),
			File:      w.file,
			Line:      int(node.StartPosition().Row) + 1,
		})
		w.scopes = append(w.scopes, typeName)
		w.walkChildren(body)
		w.scopes = w.scopes[:len(w.scopes)-1]
		return

	case "function_definition", "compound_statement":
		// Types local to function bodies are not part of the public surface.
		return
	}
	w.walkChildren(node)
}

func (w *walker) walkChildren(node *sitter.Node) {
	for i := range node.ChildCount() {
		if child := node.Child(i); child != nil {
			w.walk(child)
		}
	}
}

// kindOf maps a specifier node to its entry kind; "enum class" and
// "enum struct" are reported as "enum class".
func (w *walker) kindOf(node *sitter.Node) string {
	kind := specifierKinds[node.Kind()]
	if kind != "enum" {
		return kind
	}
	if findChildByKind(node, "class") != nil || findChildByKind(node, "struct") != nil {
		return "enum class"
	}
	return kind
}

func findChildByKind(node *sitter.Node, kind string) *sitter.Node {
	for i := range node.ChildCount() {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

func nodeText(node *sitter.Node, src []byte) string {
	return string(src[node.StartByte():node.EndByte()])
}
