// Package order expands a root type into the dependency-first sequence of
// every declaration it transitively references.
package order

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/dejo1307/hdrgraph/internal/decl"
	"github.com/dejo1307/hdrgraph/internal/extract"
)

// Kind classifies an Entry.
type Kind string

// Entry kinds.
const (
	KindClass Kind = "class"
	KindEnum  Kind = "enum"

	// kindExternal marks a name found neither as a declaration nor as an
	// enum. Such names never become entries; they are listed in
	// Order.Externals.
	kindExternal Kind = "external"
)

// Entry is one position of a generation order.
type Entry struct {
	Kind Kind                  `json:"kind"`
	Name string                `json:"name"`
	Decl *decl.TypeDeclaration `json:"declaration,omitempty"`
	Enum *decl.EnumDeclaration `json:"enum,omitempty"`
	Deps []string              `json:"deps,omitempty"`
}

// Order is a duplicate-free sequence in which every entry follows the
// entries it depends on. Every entry carries its declaration or enum.
// Members of a dependency cycle are placed next to each other in name order,
// and each cycle is listed in Cycles. Referenced names that were not found
// are listed in Externals, sorted, and take no position in the sequence.
type Order struct {
	Root      string     `json:"root"`
	Namespace string     `json:"namespace,omitempty"`
	Entries   []Entry    `json:"entries"`
	Externals []string   `json:"externals,omitempty"`
	Cycles    [][]string `json:"cycles,omitempty"`
}

// Names returns the entry names in order.
func (o *Order) Names() []string {
	names := make([]string, len(o.Entries))
	for i, e := range o.Entries {
		names[i] = e.Name
	}
	return names
}

// Find returns the entry named name, or nil.
func (o *Order) Find(name string) *Entry {
	for i := range o.Entries {
		if o.Entries[i].Name == name {
			return &o.Entries[i]
		}
	}
	return nil
}

// HasCycles reports whether the traversal met a dependency cycle.
func (o *Order) HasCycles() bool {
	return len(o.Cycles) > 0
}

// Resolver looks up declarations and enums by name.
type Resolver interface {
	LocateDeclaration(name, namespace string) (*decl.TypeDeclaration, error)
	LocateEnum(name, namespace string) (*decl.EnumDeclaration, error)
}

// DepsFunc returns the dependency set of a declaration.
type DepsFunc func(d *decl.TypeDeclaration) []string

// Orderer computes generation orders. All traversal state is local to each
// Order call, so one Orderer serves concurrent callers.
type Orderer struct {
	res     Resolver
	deps    DepsFunc
	verbose bool
}

// New creates an Orderer. When verbose is set each discovered name is
// logged.
func New(res Resolver, deps DepsFunc, verbose bool) *Orderer {
	return &Orderer{res: res, deps: deps, verbose: verbose}
}

// Order discovers every type reachable from root and returns them
// dependencies first. Dependencies are looked up in the root's namespace.
// It fails only when root itself cannot be resolved. A dependency whose
// lookup fails is recorded in Externals.
func (o *Orderer) Order(root, namespace string) (*Order, error) {
	found, edges, discovered, err := o.discover(root, namespace)
	if err != nil {
		return nil, err
	}
	if found[root].Kind == kindExternal {
		return nil, &extract.LookupError{Kind: "declaration", Name: root, Namespace: namespace, Err: extract.ErrNotFound}
	}

	out := &Order{Root: root, Namespace: namespace, Entries: []Entry{}}
	for _, scc := range stronglyConnected(edges, []string{root}) {
		if len(scc) > 1 {
			sort.Strings(scc)
			out.Cycles = append(out.Cycles, scc)
			if o.verbose {
				log.Printf("[order] cycle: %s", strings.Join(scc, " <-> "))
			}
		}
		for _, name := range scc {
			if e := found[name]; e.Kind == kindExternal {
				out.Externals = append(out.Externals, name)
			} else {
				out.Entries = append(out.Entries, *e)
			}
		}
	}
	sort.Strings(out.Externals)
	if placed := len(out.Entries) + len(out.Externals); placed != len(discovered) {
		// Every discovered name is reachable from root; anything else is a bug.
		return nil, fmt.Errorf("ordering %s: placed %d of %d discovered types", root, placed, len(discovered))
	}
	return out, nil
}

// discover runs the work-list traversal: a pending list seeded with root,
// from which the first name is taken each step and whose unseen
// dependencies are pushed to the front. Each name is expanded at most once.
func (o *Orderer) discover(root, namespace string) (map[string]*Entry, map[string][]string, []string, error) {
	found := make(map[string]*Entry)
	edges := make(map[string][]string)
	pending := []string{root}
	queued := map[string]bool{root: true}
	var discovered []string

	for len(pending) > 0 {
		current := pending[0]
		pending = pending[1:]
		delete(queued, current)
		if _, done := found[current]; done {
			continue
		}

		entry, err := o.resolve(current, namespace)
		if err != nil {
			if current == root {
				return nil, nil, nil, err
			}
			log.Printf("[order] warning: %v; treating %s as external", err, current)
			entry = &Entry{Kind: kindExternal, Name: current}
		}
		found[current] = entry
		discovered = append(discovered, current)
		edges[current] = entry.Deps

		var front []string
		for _, dep := range entry.Deps {
			if _, done := found[dep]; done || queued[dep] {
				continue
			}
			queued[dep] = true
			front = append(front, dep)
		}
		pending = append(front, pending...)

		if o.verbose {
			log.Printf("[order] %s %s (deps: %s)", entry.Kind, current, strings.Join(entry.Deps, ", "))
		}
	}
	return found, edges, discovered, nil
}

func (o *Orderer) resolve(name, namespace string) (*Entry, error) {
	d, err := o.res.LocateDeclaration(name, namespace)
	switch {
	case err == nil:
		return &Entry{Kind: KindClass, Name: name, Decl: d, Deps: o.deps(d)}, nil
	case !extract.IsNotFound(err):
		return nil, fmt.Errorf("resolving %s: %w", name, err)
	}

	en, err := o.res.LocateEnum(name, namespace)
	switch {
	case err == nil:
		return &Entry{Kind: KindEnum, Name: name, Enum: en}, nil
	case !extract.IsNotFound(err):
		return nil, fmt.Errorf("resolving %s: %w", name, err)
	}
	if o.verbose {
		log.Printf("[order] %s not found, treating as external", name)
	}
	return &Entry{Kind: kindExternal, Name: name}, nil
}
