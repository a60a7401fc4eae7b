package corpus

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/dejo1307/hdrgraph/internal/config"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testConfig(root string) *config.Config {
	cfg := config.Default()
	cfg.Root = root
	return cfg
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "include/model.h", "struct Model { int id; };")
	writeFile(t, dir, "src/model.cpp", "#include \"model.h\"")
	writeFile(t, dir, "src/notes.txt", "struct NotCode {};")
	writeFile(t, dir, "build/gen/generated.h", "struct Generated {};")
	writeFile(t, dir, "vendor/lib.hpp", "struct Vendored {};")
	writeFile(t, dir, "out/tmp.h", "struct Tmp {};")
	writeFile(t, dir, ".gitignore", "out/\n")

	cfg := testConfig(dir)
	cfg.Ignore = append(cfg.Ignore, "vendor/**")

	c, err := Load(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"include/model.h", "src/model.cpp"}
	if !reflect.DeepEqual(c.Paths(), want) {
		t.Errorf("paths = %v, want %v", c.Paths(), want)
	}
	if text, ok := c.Text("include/model.h"); !ok || !strings.Contains(text, "Model") {
		t.Errorf("text = %q, %v", text, ok)
	}
	if c.Root() == "" {
		t.Error("expected root to be set")
	}
}

func TestLoad_IgnoresGitignoreWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "out/tmp.h", "struct Tmp {};")
	writeFile(t, dir, ".gitignore", "out/\n")

	cfg := testConfig(dir)
	cfg.RespectGitignore = false
	c, err := Load(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 {
		t.Errorf("expected out/tmp.h to be loaded, got %v", c.Paths())
	}
}

func TestLoad_SkipsLargeFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "small.h", "struct S {};")
	writeFile(t, dir, "big.h", strings.Repeat("x", 200))

	cfg := testConfig(dir)
	cfg.MaxFileBytes = 100
	c, err := Load(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(c.Paths(), []string{"small.h"}) {
		t.Errorf("paths = %v", c.Paths())
	}
	skipped := c.Skipped()
	if len(skipped) != 1 || skipped[0].Path != "big.h" || !strings.Contains(skipped[0].Reason, "exceeds") {
		t.Errorf("skipped = %+v", skipped)
	}
}

func TestLoad_MissingRoot(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "nope"))
	if _, err := Load(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestLoad_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.h", "struct A {};")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, testConfig(dir)); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestFromFiles(t *testing.T) {
	files := map[string]string{
		"b.h": "struct B {}; // trailing",
		"a.h": "/* header */ struct A {};",
	}
	c := FromFiles(files)
	files["c.h"] = "added later"

	if !reflect.DeepEqual(c.Paths(), []string{"a.h", "b.h"}) {
		t.Errorf("paths = %v", c.Paths())
	}
	if c.Size() != int64(len("struct B {}; // trailing")+len("/* header */ struct A {};")) {
		t.Errorf("size = %d", c.Size())
	}

	for i := 0; i < 2; i++ {
		s, ok := c.Stripped("b.h")
		if !ok || strings.Contains(s, "trailing") {
			t.Errorf("stripped = %q", s)
		}
	}
	if _, ok := c.Stripped("missing.h"); ok {
		t.Error("expected missing file to report false")
	}
}

func TestIsIgnored(t *testing.T) {
	patterns := []string{"build/**", "cmake-build-*/**", "**/*.generated.h", "docs/*.h"}
	tests := []struct {
		path string
		want bool
	}{
		{"build", true},
		{"build/x.h", true},
		{"cmake-build-debug", true},
		{"cmake-build-debug/a/b.h", true},
		{"src/model.generated.h", true},
		{"docs/api.h", true},
		{"docs/deep/api.h", false},
		{"src/build.h", false},
		{"include/model.h", false},
	}
	for _, tt := range tests {
		if got := isIgnored(patterns, tt.path); got != tt.want {
			t.Errorf("isIgnored(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
