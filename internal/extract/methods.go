package extract

import (
	"regexp"
	"strings"

	"github.com/dejo1307/hdrgraph/internal/decl"
	"github.com/dejo1307/hdrgraph/internal/scan"
)

type methodResult int

const (
	methodNone         methodResult = iota // not a method; try the field shape
	methodParsed                           // a Method was produced
	methodSpecial                          // constructor, destructor or similar; consumed without a record
	methodUnterminated                     // parameter list never closed
)

// specifierWords are dropped from the text before the parameter list.
var specifierWords = map[string]bool{
	"virtual":   true,
	"static":    true,
	"inline":    true,
	"explicit":  true,
	"constexpr": true,
	"consteval": true,
	"extern":    true,
}

var (
	operatorRe   = regexp.MustCompile(`\boperator\b`)
	noexceptRe   = regexp.MustCompile(`^noexcept\s*(?:\(|$|\s)`)
	pureSuffixRe = regexp.MustCompile(`=\s*(?:0|default|delete)$`)
)

// tryMethod parses stmt, a single statement ending in ';', as a member
// function declaration of the type named owner.
func tryMethod(stmt string, access decl.Access, owner string) (decl.Method, methodResult) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(stmt), ";"))

	open, opName, ok := findParamList(s)
	if !ok {
		return decl.Method{}, methodNone
	}
	before := s[:open]
	if opName == "" && scan.IndexTopLevel(before, '=') >= 0 {
		// "T x = make(...)" is a field with an initializer.
		return decl.Method{}, methodNone
	}
	end, ok := scan.MatchPair(s, open, '(', ')')
	if !ok {
		return decl.Method{}, methodUnterminated
	}

	m := decl.Method{Access: access}
	tail, ok := parseMethodTail(s[end+1:], &m)
	if !ok {
		return decl.Method{}, methodNone
	}

	m.Virtual = hasWord(before, "virtual")
	m.Static = hasWord(before, "static")
	m.Inline = hasWord(before, "inline")
	before = removeWords(before, specifierWords)

	var retText string
	if opName != "" {
		idx := operatorRe.FindStringIndex(before)
		retText = strings.TrimSpace(before[:idx[0]])
		m.Name = opName
		if retText == "" && strings.HasPrefix(opName, "operator ") {
			// Conversion operator: the target type is the result.
			retText = strings.TrimSpace(strings.TrimPrefix(opName, "operator "))
		}
	} else {
		var name string
		retText, name = splitTrailingIdent(before)
		if !scan.IsIdentifier(name) {
			return decl.Method{}, methodNone
		}
		if strings.HasSuffix(retText, "~") || name == owner {
			return decl.Method{}, methodSpecial
		}
		if strings.HasSuffix(retText, "::") {
			return decl.Method{}, methodNone
		}
		m.Name = name
	}

	if tail != "" && (retText == "auto" || retText == "") {
		retText = tail
	}
	if retText == "" {
		return decl.Method{}, methodNone
	}
	m.Return = decl.ParseType(retText)
	if m.Return.Name == "" {
		return decl.Method{}, methodNone
	}
	m.Params = parseParams(s[open+1 : end])
	return m, methodParsed
}

// findParamList returns the index of the '(' opening the parameter list. For
// operator declarations it also returns the operator's name, such as
// "operator==", "operator()" or "operator bool".
func findParamList(s string) (open int, opName string, ok bool) {
	if loc := operatorRe.FindStringIndex(s); loc != nil && scan.IndexOutsideAngles(s[:loc[0]], '(') < 0 {
		rest := s[loc[1]:]
		trimmed := strings.TrimLeft(rest, " \t")
		offset := loc[1] + len(rest) - len(trimmed)
		if strings.HasPrefix(trimmed, "()") {
			p := strings.IndexByte(trimmed[2:], '(')
			if p < 0 {
				return 0, "", false
			}
			return offset + 2 + p, "operator()", true
		}
		p := strings.IndexByte(trimmed, '(')
		if p <= 0 {
			return 0, "", false
		}
		sym := strings.TrimSpace(trimmed[:p])
		if sym == "" {
			return 0, "", false
		}
		if scan.IsIdentByte(sym[0]) {
			// conversion operators and operator new/delete
			return offset + p, "operator " + strings.Join(strings.Fields(sym), " "), true
		}
		return offset + p, "operator" + strings.ReplaceAll(sym, " ", ""), true
	}
	p := scan.IndexOutsideAngles(s, '(')
	if p < 0 {
		return 0, "", false
	}
	return p, "", true
}

// parseMethodTail reads the qualifiers after a parameter list and records
// them on m. It returns a trailing return type ("-> T") when present. ok is
// false when the tail holds something no method declaration can end with.
func parseMethodTail(tail string, m *decl.Method) (trailing string, ok bool) {
	tail = strings.TrimSpace(tail)
	tail = strings.TrimSpace(pureSuffixRe.ReplaceAllString(tail, ""))
	if i := strings.Index(tail, "->"); i >= 0 {
		trailing = strings.TrimSpace(tail[i+2:])
		tail = strings.TrimSpace(tail[:i])
		for _, w := range []string{" override", " final"} {
			trailing = strings.TrimSpace(strings.TrimSuffix(trailing, w))
		}
		if trailing == "" {
			return "", false
		}
	}
	for tail != "" {
		switch {
		case strings.HasPrefix(tail, "const"):
			m.Const = true
			tail = tail[len("const"):]
		case strings.HasPrefix(tail, "override"):
			m.Override = true
			tail = tail[len("override"):]
		case strings.HasPrefix(tail, "final"):
			tail = tail[len("final"):]
		case strings.HasPrefix(tail, "volatile"):
			tail = tail[len("volatile"):]
		case strings.HasPrefix(tail, "&&"):
			tail = tail[2:]
		case strings.HasPrefix(tail, "&"):
			tail = tail[1:]
		case strings.HasPrefix(tail, ":") && !strings.HasPrefix(tail, "::"):
			// constructor initializer list
			return trailing, true
		case noexceptRe.MatchString(tail):
			tail = tail[len("noexcept"):]
			if t := strings.TrimSpace(tail); strings.HasPrefix(t, "(") {
				end, ok := scan.MatchPair(t, 0, '(', ')')
				if !ok {
					return "", false
				}
				tail = t[end+1:]
			}
		default:
			return "", false
		}
		if tail != "" && scan.IsIdentByte(tail[0]) {
			return "", false
		}
		tail = strings.TrimSpace(tail)
	}
	return trailing, true
}

// paramQualifiers never name a parameter.
var paramQualifiers = map[string]bool{
	"const": true, "volatile": true, "unsigned": true, "signed": true,
	"short": true, "long": true, "int": true, "char": true, "bool": true,
	"float": true, "double": true, "void": true, "auto": true,
	"struct": true, "class": true, "enum": true, "typename": true,
}

// parseParams splits a parameter list on commas outside (), <>, [] and {}.
// A lone "void" yields no parameters.
func parseParams(list string) []decl.Parameter {
	list = strings.TrimSpace(list)
	if list == "" || list == "void" {
		return nil
	}
	var params []decl.Parameter
	for _, part := range scan.SplitOutside(list, ',', "(<[{", ")>]}") {
		var p decl.Parameter
		if eq := scan.IndexTopLevel(part, '='); eq >= 0 {
			p.Default = strings.TrimSpace(part[eq+1:])
			part = strings.TrimSpace(part[:eq])
		}
		part = stripArraySuffix(part)
		typ, name := splitTrailingIdent(part)
		if name == "" || paramQualifiers[name] || !validFieldType(typ) {
			// unnamed parameter such as "int" or "const Foo&"
			typ, name = part, ""
		}
		p.Type = decl.ParseType(typ)
		p.Name = name
		params = append(params, p)
	}
	return params
}

// stripArraySuffix removes trailing "[N]" groups from a declarator.
func stripArraySuffix(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasSuffix(s, "]") {
		i := strings.LastIndexByte(s, '[')
		if i < 0 {
			break
		}
		s = strings.TrimSpace(s[:i])
	}
	return s
}
