package server

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dejo1307/hdrgraph/internal/config"
	"github.com/dejo1307/hdrgraph/internal/corpus"
	"github.com/dejo1307/hdrgraph/internal/decl"
	"github.com/dejo1307/hdrgraph/internal/engine"
)

var testFiles = map[string]string{
	"net/packet.h": `#pragma once
namespace net {

enum class Opcode : uint16_t {
    Ping = 1,
    Pong,
};

struct Header {
    Opcode op;
    uint32_t length = 0;
};

class Packet {
public:
    const Header& header() const;
    void append(const Payload& p);
private:
    Header header_;
    std::vector<uint8_t> data_;
};

}
`,
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Namespace = "net"
	eng := engine.NewWithCorpus(cfg, corpus.FromFiles(testFiles), false)
	return New(eng, "test")
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestLocateDeclaration(t *testing.T) {
	s := newTestServer(t)
	res, _, err := s.locateDeclaration(context.Background(), nil, lookupArgs{Name: "Packet"})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	var d decl.TypeDeclaration
	if err := json.Unmarshal([]byte(resultText(t, res)), &d); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if d.QualifiedName() != "net::Packet" || len(d.Methods) != 2 || len(d.Fields) != 2 {
		t.Errorf("Packet = %+v", d)
	}
}

func TestLocateDeclaration_Errors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name string
		args lookupArgs
		want string
	}{
		{"missing name", lookupArgs{}, "name is required"},
		{"not found", lookupArgs{Name: "Nope"}, "Nope"},
		{"wrong namespace", lookupArgs{Name: "Packet", Namespace: "other"}, "Packet"},
		{"bad format", lookupArgs{Name: "Packet", Format: "yaml"}, "unknown output format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := s.locateDeclaration(context.Background(), nil, tt.args)
			if err != nil {
				t.Fatal(err)
			}
			if !res.IsError {
				t.Fatal("expected error result")
			}
			if text := resultText(t, res); !strings.Contains(text, tt.want) {
				t.Errorf("error %q does not mention %q", text, tt.want)
			}
		})
	}
}

func TestLocateEnum_Markdown(t *testing.T) {
	s := newTestServer(t)
	res, _, err := s.locateEnum(context.Background(), nil, lookupArgs{Name: "Opcode", Format: "markdown"})
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, res)
	if res.IsError || !strings.Contains(text, "enum class net::Opcode : uint16_t") || !strings.Contains(text, "| `Ping` | `1` |") {
		t.Errorf("unexpected result:\n%s", text)
	}
}

func TestComputeDependencies(t *testing.T) {
	s := newTestServer(t)
	res, _, err := s.computeDependencies(context.Background(), nil, lookupArgs{Name: "Packet"})
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Name string   `json:"name"`
		Deps []string `json:"deps"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "Packet" || strings.Join(got.Deps, ",") != "Header,Payload" {
		t.Errorf("deps = %+v", got)
	}
}

func TestGenerationOrder(t *testing.T) {
	s := newTestServer(t)
	res, _, err := s.generationOrder(context.Background(), nil, orderArgs{Root: "Packet", Format: "text"})
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, res)
	if res.IsError {
		t.Fatalf("unexpected error: %s", text)
	}
	for _, w := range []string{"Generation order for Packet (3 types)", "Not found in corpus: Payload"} {
		if !strings.Contains(text, w) {
			t.Errorf("output missing %q:\n%s", w, text)
		}
	}
	if strings.Index(text, "Opcode") > strings.Index(text, "Header") {
		t.Errorf("Opcode must precede Header:\n%s", text)
	}

	res, _, _ = s.generationOrder(context.Background(), nil, orderArgs{})
	if !res.IsError {
		t.Error("expected error for missing root")
	}
}

func TestListTypes(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name    string
		args    listTypesArgs
		want    []string
		notWant []string
	}{
		{"all", listTypesArgs{}, []string{"net::Header", "net::Opcode", "net::Packet"}, nil},
		{"by name", listTypesArgs{Name: "pack"}, []string{"net::Packet"}, []string{"net::Header"}},
		{"by kind", listTypesArgs{Kind: "enum class"}, []string{"net::Opcode"}, []string{"net::Packet"}},
		{"limit", listTypesArgs{Limit: 1}, []string{"showing 1 of 3"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := s.listTypes(context.Background(), nil, tt.args)
			if err != nil {
				t.Fatal(err)
			}
			text := resultText(t, res)
			for _, w := range tt.want {
				if !strings.Contains(text, w) {
					t.Errorf("missing %q:\n%s", w, text)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(text, w) {
					t.Errorf("unexpected %q:\n%s", w, text)
				}
			}
		})
	}
}

func TestShowSource(t *testing.T) {
	s := newTestServer(t)
	res, _, err := s.showSource(context.Background(), nil, showSourceArgs{Name: "net::Header", ContextLines: 4})
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, res)
	for _, w := range []string{"### net::Header (struct)", "Line: 9", "   9│ struct Header {", "  12│ };"} {
		if !strings.Contains(text, w) {
			t.Errorf("missing %q:\n%s", w, text)
		}
	}
	if strings.Contains(text, "  13│") {
		t.Errorf("window exceeds context lines:\n%s", text)
	}

	res, _, _ = s.showSource(context.Background(), nil, showSourceArgs{Name: "Missing"})
	if !res.IsError {
		t.Error("expected error for unknown type")
	}
}

func TestSourceWindow(t *testing.T) {
	text := "a\nb\nc\nd\ne"
	tests := []struct {
		name         string
		start        int
		contextLines int
		wantFirst    string
		wantLines    int
	}{
		{"from start", 1, 2, "   1│ a", 2},
		{"middle", 3, 2, "   3│ c", 2},
		{"clamped to end", 4, 10, "   4│ d", 2},
		{"start below one", 0, 1, "   1│ a", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Split(strings.TrimRight(sourceWindow(text, tt.start, tt.contextLines), "\n"), "\n")
			if len(got) != tt.wantLines || got[0] != tt.wantFirst {
				t.Errorf("sourceWindow = %q", got)
			}
		})
	}
}

func TestFileListing(t *testing.T) {
	s := newTestServer(t)
	l := s.fileListing()
	if len(l.Files) != 1 || l.Files[0] != "net/packet.h" || l.Bytes != int64(len(testFiles["net/packet.h"])) {
		t.Errorf("listing = %+v", l)
	}
}
