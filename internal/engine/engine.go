package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dejo1307/hdrgraph/internal/catalog"
	"github.com/dejo1307/hdrgraph/internal/config"
	"github.com/dejo1307/hdrgraph/internal/corpus"
	"github.com/dejo1307/hdrgraph/internal/decl"
	"github.com/dejo1307/hdrgraph/internal/deps"
	"github.com/dejo1307/hdrgraph/internal/extract"
	"github.com/dejo1307/hdrgraph/internal/order"
)

// Engine answers declaration, dependency and ordering queries over one
// loaded corpus. All query methods are safe for concurrent use.
type Engine struct {
	cfg       *config.Config
	corpus    *corpus.Corpus
	extractor *extract.Extractor
	analyzer  *deps.Analyzer
	orderer   *order.Orderer
	verbose   bool

	catalogMu sync.Mutex
	catalog   []catalog.Entry
}

// New loads the corpus described by cfg and creates an Engine over it.
func New(ctx context.Context, cfg *config.Config, verbose bool) (*Engine, error) {
	c, err := corpus.Load(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}
	return NewWithCorpus(cfg, c, verbose), nil
}

// NewWithCorpus creates an Engine over an already loaded corpus.
func NewWithCorpus(cfg *config.Config, c *corpus.Corpus, verbose bool) *Engine {
	e := &Engine{
		cfg:       cfg,
		corpus:    c,
		extractor: extract.New(c),
		analyzer: deps.NewAnalyzer(deps.Options{
			PublicOnly: cfg.Dependencies.PublicOnly,
			Extra:      cfg.Builtins.Extra,
		}),
		verbose: verbose,
	}
	e.orderer = order.New(e.extractor, e.analyzer.Compute, verbose)
	return e
}

// Config returns the engine config.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Corpus returns the loaded corpus.
func (e *Engine) Corpus() *corpus.Corpus {
	return e.corpus
}

// Namespace returns ns, or the configured default namespace when ns is
// empty.
func (e *Engine) Namespace(ns string) string {
	if ns == "" {
		return e.cfg.Namespace
	}
	return ns
}

// LocateDeclaration finds a struct or class definition.
func (e *Engine) LocateDeclaration(name, namespace string) (*decl.TypeDeclaration, error) {
	d, err := e.extractor.LocateDeclaration(name, namespace)
	if err != nil {
		return nil, err
	}
	if e.verbose && len(d.Skipped) > 0 {
		log.Printf("[engine] %s: %d body lines not understood", d.QualifiedName(), len(d.Skipped))
	}
	return d, nil
}

// LocateEnum finds an enum or enum class definition.
func (e *Engine) LocateEnum(name, namespace string) (*decl.EnumDeclaration, error) {
	return e.extractor.LocateEnum(name, namespace)
}

// ComputeDependencies returns the custom types d references.
func (e *Engine) ComputeDependencies(d *decl.TypeDeclaration) []string {
	return e.analyzer.Compute(d)
}

// Dependencies locates a declaration and computes its dependency set.
func (e *Engine) Dependencies(name, namespace string) (*decl.TypeDeclaration, []string, error) {
	d, err := e.LocateDeclaration(name, namespace)
	if err != nil {
		return nil, nil, err
	}
	return d, e.ComputeDependencies(d), nil
}

// ComputeGenerationOrder expands root into a dependency-first order.
func (e *Engine) ComputeGenerationOrder(root, namespace string) (*order.Order, error) {
	start := time.Now()
	o, err := e.orderer.Order(root, namespace)
	if err != nil {
		return nil, err
	}
	log.Printf("[engine] generation order for %s: %d types, %d external, %d cycles in %s",
		root, len(o.Entries), len(o.Externals), len(o.Cycles), time.Since(start).Round(time.Microsecond))
	return o, nil
}

// Catalog returns every type definition in the corpus. The result is
// computed once and reused; a failed or cancelled build is retried on the
// next call.
func (e *Engine) Catalog(ctx context.Context) ([]catalog.Entry, error) {
	e.catalogMu.Lock()
	defer e.catalogMu.Unlock()
	if e.catalog != nil {
		return e.catalog, nil
	}

	start := time.Now()
	entries, err := catalog.Build(ctx, e.corpus)
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}
	log.Printf("[engine] catalog: %d types in %d files in %s",
		len(entries), e.corpus.Len(), time.Since(start).Round(time.Millisecond))
	e.catalog = entries
	return entries, nil
}
