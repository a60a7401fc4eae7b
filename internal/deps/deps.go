// Package deps finds the custom types referenced by C++ type expressions and
// computes the dependency set of a declaration.
package deps

import (
	"sort"
	"strings"

	"github.com/dejo1307/hdrgraph/internal/decl"
	"github.com/dejo1307/hdrgraph/internal/scan"
)

// Options configure an Analyzer.
type Options struct {
	// PublicOnly ignores protected and private members.
	PublicOnly bool
	// Extra names are added to the allow-list.
	Extra []string
}

// Analyzer resolves type expressions against an allow-list. It holds no
// per-call state and is safe for concurrent use.
type Analyzer struct {
	allow      AllowList
	publicOnly bool
}

// NewAnalyzer creates an Analyzer with the default allow-list extended by
// opts.Extra.
func NewAnalyzer(opts Options) *Analyzer {
	return &Analyzer{
		allow:      DefaultAllowList(opts.Extra...),
		publicOnly: opts.PublicOnly,
	}
}

var defaultAnalyzer = NewAnalyzer(Options{})

// References returns the sorted leaf names of the custom types referenced by
// raw, using the default allow-list.
func References(raw string) []string {
	return defaultAnalyzer.References(raw)
}

// Compute returns the dependency set of d.
func Compute(d *decl.TypeDeclaration, opts Options) []string {
	return NewAnalyzer(opts).Compute(d)
}

// References returns the sorted leaf names of the custom types referenced by
// raw. Template arguments are resolved recursively; text after a closing
// '>' such as "::iterator" is ignored.
func (a *Analyzer) References(raw string) []string {
	set := map[string]bool{}
	a.collect(raw, set)
	return sortedKeys(set)
}

// Compute returns the sorted, duplicate-free leaf names referenced by d's
// field types, method signatures and base type, without d's own name.
func (a *Analyzer) Compute(d *decl.TypeDeclaration) []string {
	set := map[string]bool{}
	for _, f := range d.Fields {
		if a.publicOnly && f.Access != decl.Public {
			continue
		}
		a.collect(f.Type.Raw, set)
		if f.Inner != "" {
			a.collect(f.Inner, set)
		}
	}
	for _, m := range d.Methods {
		if a.publicOnly && m.Access != decl.Public {
			continue
		}
		a.collect(m.Return.Raw, set)
		for _, p := range m.Params {
			a.collect(p.Type.Raw, set)
		}
	}
	if d.Base != "" {
		a.collect(d.Base, set)
	}
	delete(set, d.Name)
	return sortedKeys(set)
}

// typeKeywords are dropped before a type expression is inspected.
var typeKeywords = map[string]bool{
	"const":    true,
	"volatile": true,
	"struct":   true,
	"class":    true,
	"enum":     true,
	"typename": true,
	"mutable":  true,
}

func (a *Analyzer) collect(raw string, set map[string]bool) {
	s := cleanType(raw)
	if s == "" {
		return
	}

	if lt := strings.IndexByte(s, '<'); lt >= 0 {
		if gt, ok := scan.MatchPair(s, lt, '<', '>'); ok {
			for _, arg := range scan.SplitTopLevel(s[lt+1:gt], ',') {
				a.collectArg(arg, set)
			}
		}
		a.add(strings.TrimSpace(s[:lt]), set)
		return
	}
	a.add(s, set)
}

// collectArg handles one template argument, which may be a function
// signature such as "void(const Event&)".
func (a *Analyzer) collectArg(arg string, set map[string]bool) {
	open := scan.IndexOutsideAngles(arg, '(')
	if open < 0 {
		a.collect(arg, set)
		return
	}
	a.collect(arg[:open], set)
	if end, ok := scan.MatchPair(arg, open, '(', ')'); ok {
		for _, p := range scan.SplitTopLevel(arg[open+1:end], ',') {
			a.collect(p, set)
		}
	}
}

// add records name's leaf unless it is allow-listed, lives in std:: or is
// not an identifier.
func (a *Analyzer) add(name string, set map[string]bool) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "::")
	if name == "" {
		return
	}
	leaf := scan.Leaf(name)
	if a.allow.Contains(name, leaf) || strings.HasPrefix(name, "std::") {
		return
	}
	if !scan.IsIdentifier(leaf) {
		return
	}
	set[leaf] = true
}

// cleanType removes qualifier keywords, pointer and reference sigils and
// array suffixes, and collapses whitespace.
func cleanType(raw string) string {
	raw = strings.NewReplacer("*", " ", "&", " ").Replace(raw)
	if i := strings.IndexByte(raw, '['); i >= 0 && scan.IndexOutsideAngles(raw, '[') == i {
		raw = raw[:i]
	}
	var words []string
	for _, w := range strings.Fields(raw) {
		if typeKeywords[w] {
			continue
		}
		words = append(words, w)
	}
	return strings.Join(words, " ")
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
