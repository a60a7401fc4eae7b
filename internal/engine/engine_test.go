package engine

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/dejo1307/hdrgraph/internal/config"
	"github.com/dejo1307/hdrgraph/internal/corpus"
	"github.com/dejo1307/hdrgraph/internal/extract"
	"github.com/dejo1307/hdrgraph/internal/order"
)

var gameFiles = map[string]string{
	"include/game/entity.h": `#pragma once
#include <memory>
#include <vector>

namespace game {

enum class Team : uint8_t { Red, Blue };

struct Stats {
    int hp = 100;
    float speed{1.5f};
};

class Entity {
public:
    virtual ~Entity() = default;
    const Stats& stats() const { return stats_; }
    void attach(std::shared_ptr<Component> c);
private:
    Stats stats_;
    Team team_ = Team::Red;
    std::vector<std::shared_ptr<Component>> components_;
};

} // namespace game
`,
	"include/game/component.h": `#pragma once
namespace game {
class Entity;
class Component {
public:
    Entity* owner() const;
protected:
    Scheduler* scheduler_ = nullptr;
};
}
`,
}

func newTestEngine(t *testing.T, cfg *config.Config) *Engine {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	return NewWithCorpus(cfg, corpus.FromFiles(gameFiles), false)
}

func TestLocate(t *testing.T) {
	e := newTestEngine(t, nil)

	d, err := e.LocateDeclaration("Entity", "game")
	if err != nil {
		t.Fatal(err)
	}
	if d.File != "include/game/entity.h" || len(d.Methods) != 2 || len(d.Fields) != 3 {
		t.Errorf("Entity = %+v", d)
	}

	en, err := e.LocateEnum("Team", "game")
	if err != nil {
		t.Fatal(err)
	}
	if !en.Scoped || len(en.Values) != 2 {
		t.Errorf("Team = %+v", en)
	}

	if _, err := e.LocateDeclaration("Missing", "game"); !extract.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestDependencies(t *testing.T) {
	e := newTestEngine(t, nil)
	_, got, err := e.Dependencies("Entity", "game")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"Component", "Stats", "Team"}; !reflect.DeepEqual(got, want) {
		t.Errorf("deps = %v, want %v", got, want)
	}

	cfg := config.Default()
	cfg.Dependencies.PublicOnly = true
	_, got, err = newTestEngine(t, cfg).Dependencies("Entity", "game")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"Component", "Stats"}; !reflect.DeepEqual(got, want) {
		t.Errorf("public-only deps = %v, want %v", got, want)
	}
}

func TestComputeGenerationOrder(t *testing.T) {
	e := newTestEngine(t, nil)
	o, err := e.ComputeGenerationOrder("Entity", "game")
	if err != nil {
		t.Fatal(err)
	}

	pos := map[string]int{}
	for i, n := range o.Names() {
		pos[n] = i
	}
	for _, dep := range []string{"Stats", "Team"} {
		if pos[dep] > pos["Entity"] {
			t.Errorf("%s must precede Entity in %v", dep, o.Names())
		}
	}
	// Entity <-> Component through owner() and components_.
	if !reflect.DeepEqual(o.Cycles, [][]string{{"Component", "Entity"}}) {
		t.Errorf("cycles = %v", o.Cycles)
	}
	if !reflect.DeepEqual(o.Externals, []string{"Scheduler"}) {
		t.Errorf("externals = %v", o.Externals)
	}
	if o.Find("Scheduler") != nil {
		t.Errorf("Scheduler must not be an entry: %v", o.Names())
	}
	if team := o.Find("Team"); team == nil || team.Kind != order.KindEnum {
		t.Errorf("Team entry = %+v", team)
	}
}

func TestBuiltinsExtra(t *testing.T) {
	cfg := config.Default()
	cfg.Builtins.Extra = []string{"Scheduler"}
	o, err := newTestEngine(t, cfg).ComputeGenerationOrder("Component", "game")
	if err != nil {
		t.Fatal(err)
	}
	if o.Find("Scheduler") != nil {
		t.Errorf("allow-listed type in order: %v", o.Names())
	}
}

func TestNamespaceDefault(t *testing.T) {
	cfg := config.Default()
	cfg.Namespace = "game"
	e := newTestEngine(t, cfg)
	if got := e.Namespace(""); got != "game" {
		t.Errorf("Namespace(\"\") = %q", got)
	}
	if got := e.Namespace("other"); got != "other" {
		t.Errorf("Namespace(other) = %q", got)
	}
}

func TestCatalog(t *testing.T) {
	e := newTestEngine(t, nil)
	entries, err := e.Catalog(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, en := range entries {
		names = append(names, en.QualifiedName())
	}
	want := []string{"game::Component", "game::Entity", "game::Stats", "game::Team"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("catalog = %v, want %v", names, want)
	}

	again, err := e.Catalog(context.Background())
	if err != nil || len(again) != len(entries) {
		t.Errorf("second catalog call = %d entries, %v", len(again), err)
	}
}

func TestConcurrentQueries(t *testing.T) {
	e := newTestEngine(t, nil)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.ComputeGenerationOrder("Entity", "game"); err != nil {
				t.Errorf("order: %v", err)
			}
			if _, _, err := e.Dependencies("Component", "game"); err != nil {
				t.Errorf("deps: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestNew_LoadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	for rel, content := range gameFiles {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := config.Default()
	cfg.Root = dir

	e, err := New(context.Background(), cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	if e.Corpus().Len() != 2 {
		t.Errorf("corpus = %v", e.Corpus().Paths())
	}
	if _, err := e.LocateDeclaration("Stats", "game"); err != nil {
		t.Error(err)
	}
}
