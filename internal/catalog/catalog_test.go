package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/dejo1307/hdrgraph/internal/corpus"
)

const engineHeader = `#pragma once
namespace engine {
namespace render {
struct Vertex { float x; };
class Mesh {
public:
    struct Lod { int level; };
    enum class Mode { Fill, Wire };
};
} // namespace render
} // namespace engine

namespace engine::audio {
enum Channel { Left, Right };
}

class Forward;
struct Global { int v; };
void f() { struct Local { int x; }; }
`

func TestBuild(t *testing.T) {
	src := corpus.FromFiles(map[string]string{"engine.h": engineHeader})
	entries, err := Build(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}

	want := []struct {
		qualified string
		kind      string
		line      int
	}{
		{"Global", "struct", 18},
		{"engine::audio::Channel", "enum", 14},
		{"engine::render::Mesh", "class", 5},
		{"engine::render::Mesh::Lod", "struct", 7},
		{"engine::render::Mesh::Mode", "enum class", 8},
		{"engine::render::Vertex", "struct", 4},
	}
	if len(entries) != len(want) {
		for _, e := range entries {
			t.Logf("entry: %s (%s) line %d", e.QualifiedName(), e.Kind, e.Line)
		}
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, w := range want {
		e := entries[i]
		if e.QualifiedName() != w.qualified || e.Kind != w.kind || e.Line != w.line {
			t.Errorf("entry %d = %s (%s) line %d, want %s (%s) line %d",
				i, e.QualifiedName(), e.Kind, e.Line, w.qualified, w.kind, w.line)
		}
		if e.File != "engine.h" {
			t.Errorf("entry %d file = %q", i, e.File)
		}
	}

	lod := entries[3]
	if lod.Name != "Lod" || lod.Namespace != "engine::render" || lod.Scope != "Mesh" {
		t.Errorf("nested entry = %+v", lod)
	}
}

func TestBuild_ToleratesSyntaxErrors(t *testing.T) {
	src := corpus.FromFiles(map[string]string{
		"broken.h": "struct Good { int a; };\nclass Bad { int x;\n",
		"other.h":  "struct Other { double d; };",
	})
	entries, err := Build(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	found := map[string]bool{}
	for _, e := range entries {
		found[e.Name] = true
	}
	if !found["Good"] || !found["Other"] {
		t.Errorf("expected Good and Other in %+v", entries)
	}
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := corpus.FromFiles(map[string]string{"a.h": "struct A {};"})
	if _, err := Build(ctx, src); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestEntryQualifiedName(t *testing.T) {
	tests := []struct {
		e    Entry
		want string
	}{
		{Entry{Name: "A"}, "A"},
		{Entry{Name: "A", Namespace: "ns"}, "ns::A"},
		{Entry{Name: "In", Scope: "Out"}, "Out::In"},
		{Entry{Name: "In", Namespace: "a::b", Scope: "Out"}, "a::b::Out::In"},
	}
	for _, tt := range tests {
		if got := tt.e.QualifiedName(); got != tt.want {
			t.Errorf("QualifiedName() = %q, want %q", got, tt.want)
		}
	}
}

func TestFilter(t *testing.T) {
	entries := []Entry{
		{Name: "Mesh", Namespace: "gfx", Kind: "class"},
		{Name: "Mode", Namespace: "gfx", Scope: "Mesh", Kind: "enum class"},
		{Name: "Sound", Namespace: "audio", Kind: "struct"},
	}
	tests := []struct {
		name, filter, kind string
		want               []string
	}{
		{"everything", "", "", []string{"Mesh", "Mode", "Sound"}},
		{"name ignores case", "MESH", "", []string{"Mesh", "Mode"}},
		{"kind", "", "struct", []string{"Sound"}},
		{"combined", "gfx", "class", []string{"Mesh"}},
		{"no match", "zzz", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(entries, tt.filter, tt.kind)
			var names []string
			for _, e := range got {
				names = append(names, e.Name)
			}
			if strings.Join(names, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Filter(%q, %q) = %v, want %v", tt.filter, tt.kind, names, tt.want)
			}
		})
	}
}
