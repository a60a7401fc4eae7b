package extract

import (
	"strings"

	"github.com/dejo1307/hdrgraph/internal/decl"
	"github.com/dejo1307/hdrgraph/internal/scan"
)

// memberKeywords are never a field name or a whole field type.
var memberKeywords = map[string]bool{
	"const": true, "static": true, "virtual": true, "inline": true,
	"explicit": true, "override": true, "final": true, "public": true,
	"private": true, "protected": true, "mutable": true, "volatile": true,
	"extern": true, "constexpr": true, "thread_local": true,
}

// storageWords are removed from a field's type text.
var storageWords = map[string]bool{
	"static":       true,
	"constexpr":    true,
	"mutable":      true,
	"inline":       true,
	"thread_local": true,
	"extern":       true,
}

// tryField parses stmt as one or more data members of the type named owner.
// "int a, *b = nullptr;" yields two fields sharing the base type. It returns
// nil when stmt is not a field declaration.
func tryField(stmt string, access decl.Access, owner string) []decl.Field {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(stmt), ";"))
	if s == "" || memberKeywords[s] {
		return nil
	}

	parts := scan.SplitTopLevel(s, ',')
	if len(parts) == 0 {
		return nil
	}

	first, firstDefault := splitDefault(parts[0])
	if first == "" || scan.IndexOutsideAngles(first, '(') >= 0 {
		return nil
	}
	static := hasWord(first, "static")
	constant := hasWord(first, "const") || hasWord(first, "constexpr")
	first = removeWords(stripArraySuffix(first), storageWords)

	typ, name := splitTrailingIdent(first)
	if !validFieldName(name) || !validFieldType(typ) {
		return nil
	}

	fields := []decl.Field{newField(name, typ, firstDefault, constant, static, access, owner)}

	// Further declarators share the type without its pointer/reference sigils.
	base := strings.TrimRight(typ, "*& ")
	for _, p := range parts[1:] {
		d, def := splitDefault(p)
		if d == "" || scan.IndexOutsideAngles(d, '(') >= 0 {
			return nil
		}
		d = stripArraySuffix(d)
		sigils, name := splitTrailingIdent(d)
		if !validFieldName(name) || strings.Trim(sigils, "*& ") != "" {
			return nil
		}
		fields = append(fields, newField(name, base+sigils, def, constant, static, access, owner))
	}
	return fields
}

func newField(name, typ, def string, constant, static bool, access decl.Access, owner string) decl.Field {
	f := decl.Field{
		Name:    name,
		Type:    decl.ParseType(typ),
		Default: def,
		Const:   constant,
		Static:  static,
		Access:  access,
		Owner:   owner,
	}
	if lt := strings.IndexByte(typ, '<'); lt >= 0 {
		if gt, ok := scan.MatchPair(typ, lt, '<', '>'); ok {
			f.Inner = strings.TrimSpace(typ[lt+1 : gt])
		}
	}
	return f
}

// splitDefault separates a declarator from its initializer, introduced by a
// top-level '=' or a brace initializer. Brace initializers keep their braces.
func splitDefault(s string) (declarator, def string) {
	s = strings.TrimSpace(s)
	if eq := scan.IndexTopLevel(s, '='); eq >= 0 {
		return strings.TrimSpace(s[:eq]), strings.TrimSpace(s[eq+1:])
	}
	if br := scan.IndexTopLevel(s, '{'); br >= 0 {
		return strings.TrimSpace(s[:br]), strings.TrimSpace(s[br:])
	}
	return s, ""
}

func validFieldName(name string) bool {
	return scan.IsIdentifier(name) && !memberKeywords[name]
}

func validFieldType(typ string) bool {
	t := strings.TrimSpace(typ)
	if t == "" || memberKeywords[t] || strings.HasSuffix(t, "::") || strings.HasSuffix(t, "~") {
		return false
	}
	return len(topLevelWords(removeWords(t, cvWords))) > 0
}

// cvWords qualify a type without naming one.
var cvWords = map[string]bool{
	"const":    true,
	"volatile": true,
	"typename": true,
	"struct":   true,
	"class":    true,
	"enum":     true,
}
