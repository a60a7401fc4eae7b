// Package extract locates struct, class and enum definitions in a corpus of
// C++ source text and parses their bodies with line-oriented heuristics.
package extract

import (
	"regexp"
	"strings"

	"github.com/dejo1307/hdrgraph/internal/decl"
	"github.com/dejo1307/hdrgraph/internal/scan"
)

// Source is the read-only view of a corpus that the extractor searches.
// Paths must be returned in a stable order; the first file containing a
// match wins.
type Source interface {
	Paths() []string
	// Stripped returns the file text with comments removed.
	Stripped(path string) (string, bool)
}

// Extractor answers declaration and enum lookups against a Source. It keeps
// no state between calls and is safe for concurrent use.
type Extractor struct {
	src Source
}

// New creates an Extractor over src.
func New(src Source) *Extractor {
	return &Extractor{src: src}
}

// LocateDeclaration finds the first struct or class definition named name.
// When namespace is non-empty only text after the first "namespace NS {"
// anchor of each file is searched. A fresh declaration is built on every
// call.
func (e *Extractor) LocateDeclaration(name, namespace string) (*decl.TypeDeclaration, error) {
	notFound := &LookupError{Kind: "declaration", Name: name, Namespace: namespace, Err: ErrNotFound}
	if !scan.IsIdentifier(name) {
		return nil, notFound
	}
	headerRe := typeHeaderRe(name)

	var malformed error
	for _, path := range e.src.Paths() {
		text, ok := e.src.Stripped(path)
		if !ok {
			continue
		}
		region, ok := namespaceRegion(text, namespace)
		if !ok {
			continue
		}
		h, ok := findTypeHeader(region, headerRe)
		if !ok {
			continue
		}
		body, _, ok := scan.MatchBrace(region, h.brace)
		if !ok {
			if malformed == nil {
				malformed = &LookupError{Kind: "declaration", Name: name, Namespace: namespace, File: path, Err: ErrMalformed}
			}
			continue
		}

		d := &decl.TypeDeclaration{
			Name:      name,
			Namespace: namespace,
			Kind:      h.kind,
			Base:      h.base,
			File:      path,
			Fields:    []decl.Field{},
			Methods:   []decl.Method{},
		}
		parseMembers(body, d)
		return d, nil
	}
	if malformed != nil {
		return nil, malformed
	}
	return nil, notFound
}

// LocateEnum finds the first enum or enum class definition named name,
// using the same namespace anchoring as LocateDeclaration.
func (e *Extractor) LocateEnum(name, namespace string) (*decl.EnumDeclaration, error) {
	notFound := &LookupError{Kind: "enum", Name: name, Namespace: namespace, Err: ErrNotFound}
	if !scan.IsIdentifier(name) {
		return nil, notFound
	}
	re := enumHeaderRe(name)

	var malformed error
	for _, path := range e.src.Paths() {
		text, ok := e.src.Stripped(path)
		if !ok {
			continue
		}
		region, ok := namespaceRegion(text, namespace)
		if !ok {
			continue
		}
		m := re.FindStringSubmatchIndex(region)
		if m == nil {
			continue
		}
		brace := m[1] - 1
		body, _, ok := scan.MatchBrace(region, brace)
		if !ok {
			if malformed == nil {
				malformed = &LookupError{Kind: "enum", Name: name, Namespace: namespace, File: path, Err: ErrMalformed}
			}
			continue
		}

		en := &decl.EnumDeclaration{
			Name:      name,
			Namespace: namespace,
			Scoped:    m[2] >= 0,
			File:      path,
			Values:    parseEnumBody(body),
		}
		if m[4] >= 0 {
			if u := strings.TrimSpace(region[m[4]:m[5]]); u != "" {
				td := decl.ParseType(u)
				en.Underlying = &td
			}
		}
		return en, nil
	}
	if malformed != nil {
		return nil, malformed
	}
	return nil, notFound
}

// namespaceRegion returns the text following the first "namespace NS {"
// anchor. Nested or reopened namespace blocks are not tracked.
func namespaceRegion(text, namespace string) (string, bool) {
	if namespace == "" {
		return text, true
	}
	re := regexp.MustCompile(`\bnamespace\s+` + regexp.QuoteMeta(namespace) + `\s*\{`)
	loc := re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return text[loc[1]:], true
}

// typeHeaderRe matches "struct NAME" or "class NAME", allowing an attribute
// or alignas between the keyword and the name.
func typeHeaderRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b(struct|class)\s+(?:\[\[[^\]]*\]\]\s*)?(?:alignas\s*\([^)]*\)\s*)?` +
		regexp.QuoteMeta(name) + `\b`)
}

var enumKeywordTailRe = regexp.MustCompile(`\benum\s*$`)

func enumHeaderRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`\benum\s+(class\s+|struct\s+)?(?:\[\[[^\]]*\]\]\s*)?` +
		regexp.QuoteMeta(name) + `\s*(?::\s*([A-Za-z_][\w:\s]*?))?\s*\{`)
}

type typeHeader struct {
	kind  decl.Kind
	base  string
	brace int // index of the opening brace in the searched region
}

// findTypeHeader returns the earliest struct/class header followed by an
// optional "final", an optional single inheritance clause and a body.
// Forward declarations, elaborated type uses and "enum class" headers are
// passed over.
func findTypeHeader(region string, re *regexp.Regexp) (typeHeader, bool) {
	for _, m := range re.FindAllStringSubmatchIndex(region, -1) {
		if enumKeywordTailRe.MatchString(region[:m[0]]) {
			continue
		}
		h := typeHeader{kind: decl.Kind(region[m[2]:m[3]])}

		i := skipSpace(region, m[1])
		if strings.HasPrefix(region[i:], "final") && (i+5 >= len(region) || !scan.IsIdentByte(region[i+5])) {
			i = skipSpace(region, i+5)
		}
		if i >= len(region) {
			continue
		}
		switch {
		case region[i] == '{':
			h.brace = i
			return h, true
		case region[i] == ':' && !strings.HasPrefix(region[i:], "::"):
			end := strings.IndexAny(region[i:], "{;")
			if end < 0 || region[i+end] != '{' {
				continue
			}
			h.base = parseBaseClause(region[i+1 : i+end])
			h.brace = i + end
			return h, true
		}
	}
	return typeHeader{}, false
}

var baseQualifiers = map[string]bool{
	"public":    true,
	"protected": true,
	"private":   true,
	"virtual":   true,
}

// parseBaseClause returns the first base type named in an inheritance
// clause, without access and virtual keywords. Only single inheritance is
// represented; further bases are ignored.
func parseBaseClause(clause string) string {
	parts := scan.SplitTopLevel(clause, ',')
	if len(parts) == 0 {
		return ""
	}
	var kept []string
	for _, w := range strings.Fields(parts[0]) {
		if baseQualifiers[w] {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

var attributeRe = regexp.MustCompile(`\[\[[^\]]*\]\]`)

// parseEnumBody splits an enum body into enumerators. Commas inside
// parentheses or braces do not split, so "A = (1 << 2)" stays whole.
func parseEnumBody(body string) []decl.EnumValue {
	var lines []string
	for _, l := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(l), "#") {
			continue
		}
		lines = append(lines, l)
	}
	body = attributeRe.ReplaceAllString(strings.Join(lines, "\n"), "")

	values := []decl.EnumValue{}
	for _, seg := range scan.SplitOutside(body, ',', "([{", ")]}") {
		name, value, hasValue := strings.Cut(seg, "=")
		name = strings.TrimSpace(name)
		if !scan.IsIdentifier(name) {
			continue
		}
		v := decl.EnumValue{Name: name}
		if hasValue {
			v.Value = strings.Join(strings.Fields(value), " ")
		}
		values = append(values, v)
	}
	return values
}
