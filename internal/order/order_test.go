package order

import (
	"reflect"
	"sort"
	"sync"
	"testing"

	"github.com/dejo1307/hdrgraph/internal/deps"
	"github.com/dejo1307/hdrgraph/internal/extract"
	"github.com/dejo1307/hdrgraph/internal/scan"
)

type memSource map[string]string

func (m memSource) Paths() []string {
	var paths []string
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (m memSource) Stripped(path string) (string, bool) {
	text, ok := m[path]
	return scan.StripComments(text), ok
}

func newOrderer(files map[string]string) *Orderer {
	a := deps.NewAnalyzer(deps.Options{})
	return New(extract.New(memSource(files)), a.Compute, false)
}

func TestOrder_Chain(t *testing.T) {
	o := newOrderer(map[string]string{
		"a.h": "struct A { B b; };",
		"b.h": "struct B { std::vector<C> cs; };",
		"c.h": "struct C { int v; };",
	})
	got, err := o.Order("A", "")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"C", "B", "A"}; !reflect.DeepEqual(got.Names(), want) {
		t.Errorf("order = %v, want %v", got.Names(), want)
	}
	if got.HasCycles() {
		t.Errorf("unexpected cycles %v", got.Cycles)
	}
	if e := got.Find("B"); e == nil || e.Kind != KindClass || !reflect.DeepEqual(e.Deps, []string{"C"}) {
		t.Errorf("entry B = %+v", e)
	}
}

func TestOrder_Diamond(t *testing.T) {
	o := newOrderer(map[string]string{
		"x.h": `
struct Top { Left l; Right r; };
struct Left { Base b; };
struct Right { Base b; Mode m; };
struct Base { int id; };
enum class Mode { On, Off };
`,
	})
	got, err := o.Order("Top", "")
	if err != nil {
		t.Fatal(err)
	}
	names := got.Names()
	if len(names) != 5 {
		t.Fatalf("order = %v", names)
	}
	pos := map[string]int{}
	for i, n := range names {
		pos[n] = i
	}
	edges := [][2]string{{"Top", "Left"}, {"Top", "Right"}, {"Left", "Base"}, {"Right", "Base"}, {"Right", "Mode"}}
	for _, e := range edges {
		if pos[e[1]] > pos[e[0]] {
			t.Errorf("%s must come before %s in %v", e[1], e[0], names)
		}
	}
	if e := got.Find("Mode"); e == nil || e.Kind != KindEnum || e.Enum == nil {
		t.Errorf("Mode entry = %+v", e)
	}
}

func TestOrder_Cycle(t *testing.T) {
	o := newOrderer(map[string]string{
		"a.h": "struct A { B* b; };",
		"b.h": "struct B { A* a; };",
	})
	got, err := o.Order("A", "")
	if err != nil {
		t.Fatal(err)
	}
	names := append([]string(nil), got.Names()...)
	sort.Strings(names)
	if !reflect.DeepEqual(names, []string{"A", "B"}) {
		t.Errorf("order = %v, want a permutation of [A B]", got.Names())
	}
	if !reflect.DeepEqual(got.Cycles, [][]string{{"A", "B"}}) {
		t.Errorf("cycles = %v", got.Cycles)
	}
}

func TestOrder_CycleWithTail(t *testing.T) {
	o := newOrderer(map[string]string{
		"g.h": `
struct Root { Ping p; };
struct Ping { Pong* other; Leaf l; };
struct Pong { Ping* other; };
struct Leaf { int v; };
`,
	})
	got, err := o.Order("Root", "")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"Leaf", "Ping", "Pong", "Root"}; !reflect.DeepEqual(got.Names(), want) {
		t.Errorf("order = %v, want %v", got.Names(), want)
	}
	if len(got.Cycles) != 1 {
		t.Errorf("cycles = %v", got.Cycles)
	}
}

func TestOrder_External(t *testing.T) {
	o := newOrderer(map[string]string{
		"a.h": "struct A { ThirdParty tp; Local l; };\nstruct Local { int v; };",
	})
	got, err := o.Order("A", "")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"ThirdParty"}; !reflect.DeepEqual(got.Externals, want) {
		t.Errorf("externals = %v, want %v", got.Externals, want)
	}
	if want := []string{"Local", "A"}; !reflect.DeepEqual(got.Names(), want) {
		t.Errorf("order = %v, want %v", got.Names(), want)
	}
	if got.Names()[len(got.Names())-1] != "A" {
		t.Errorf("root must be last: %v", got.Names())
	}
}

func TestOrder_ExternalsHaveNoPosition(t *testing.T) {
	o := newOrderer(map[string]string{
		"a.h": "struct A { B b; Vec3 pos; };",
		"b.h": "struct B { C c; };",
		"c.h": "struct C { int v; };",
	})
	got, err := o.Order("A", "")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"C", "B", "A"}; !reflect.DeepEqual(got.Names(), want) {
		t.Errorf("order = %v, want %v", got.Names(), want)
	}
	if want := []string{"Vec3"}; !reflect.DeepEqual(got.Externals, want) {
		t.Errorf("externals = %v, want %v", got.Externals, want)
	}
	for _, e := range got.Entries {
		if e.Decl == nil && e.Enum == nil {
			t.Errorf("entry %s (%s) has no declaration or enum", e.Name, e.Kind)
		}
	}
	if a := got.Find("A"); a == nil || !reflect.DeepEqual(a.Deps, []string{"B", "Vec3"}) {
		t.Errorf("A deps = %+v", a)
	}
}

func TestOrder_RootNotFound(t *testing.T) {
	o := newOrderer(map[string]string{"a.h": "struct A { int v; };"})
	got, err := o.Order("Nope", "")
	if got != nil || !extract.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v, %v", got, err)
	}
}

func TestOrder_EnumRoot(t *testing.T) {
	o := newOrderer(map[string]string{"a.h": "enum Level { Low, High };"})
	got, err := o.Order("Level", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Entries) != 1 || got.Entries[0].Kind != KindEnum {
		t.Errorf("entries = %+v", got.Entries)
	}
}

func TestOrder_MalformedDependencyIsExternal(t *testing.T) {
	o := newOrderer(map[string]string{
		"a.h": "struct A { Broken b; };",
		"b.h": "struct Broken { int x;",
	})
	got, err := o.Order("A", "")
	if err != nil {
		t.Fatal(err)
	}
	if e := got.Find("Broken"); e != nil {
		t.Errorf("Broken must not be an entry: %+v", e)
	}
	if want := []string{"Broken"}; !reflect.DeepEqual(got.Externals, want) {
		t.Errorf("externals = %v, want %v", got.Externals, want)
	}

	if _, err := o.Order("Broken", ""); !extract.IsMalformed(err) {
		t.Errorf("malformed root: expected Malformed, got %v", err)
	}
}

func TestOrder_Namespace(t *testing.T) {
	o := newOrderer(map[string]string{
		"a.h": "namespace other {\nstruct Item { int legacy; };\n}\n",
		"b.h": "namespace game {\nstruct Inventory { std::vector<Item> items; };\nstruct Item { float weight; };\n}\n",
	})
	got, err := o.Order("Inventory", "game")
	if err != nil {
		t.Fatal(err)
	}
	item := got.Find("Item")
	if item == nil || item.Decl == nil || item.Decl.File != "b.h" {
		t.Errorf("Item resolved from the wrong namespace: %+v", item)
	}
}

func TestOrder_Concurrent(t *testing.T) {
	o := newOrderer(map[string]string{
		"a.h": "struct A { B b; };\nstruct B { C c; };\nstruct C { int v; };",
	})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := o.Order("A", "")
			if err != nil || !reflect.DeepEqual(got.Names(), []string{"C", "B", "A"}) {
				t.Errorf("concurrent order = %v, %v", got, err)
			}
		}()
	}
	wg.Wait()
}

func TestStronglyConnected(t *testing.T) {
	graph := map[string][]string{
		"a": {"b"},
		"b": {"c", "d"},
		"c": {"b"},
		"d": nil,
	}
	got := stronglyConnected(graph, []string{"a"})
	if len(got) != 3 {
		t.Fatalf("components = %v", got)
	}
	if !reflect.DeepEqual(got[0], []string{"d"}) || len(got[1]) != 2 || !reflect.DeepEqual(got[2], []string{"a"}) {
		t.Errorf("components = %v", got)
	}
}
