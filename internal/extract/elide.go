package extract

import (
	"regexp"
	"strings"

	"github.com/dejo1307/hdrgraph/internal/scan"
)

var (
	// trailing qualifiers allowed between a parameter list and a body
	bodyQualifierRe = regexp.MustCompile(`\)\s*(?:(?:const|noexcept|override|final|volatile|&&|&)\s*)*$`)
	// constructor with a member initializer list: "Foo(int a) : a_(a), b_{1}"
	ctorInitRe = regexp.MustCompile(`\)\s*(?:noexcept\s*)?:[^:]`)
	// nested type definition header; group 1 is the type name if any
	nestedTypeRe = regexp.MustCompile(`^(?:template\s*<[^{]*>\s*)?(?:struct|class|union|enum)(?:\s+(?:class|struct))?` +
		`(?:\s+(?:\[\[[^\]]*\]\]\s*)?([A-Za-z_]\w*))?(?:\s+final)?\s*(?::[^;]*)?$`)
	accessPrefixRe = regexp.MustCompile(`^(?:(?:public|protected|private)(?:\s+\w+)?\s*:(?:\s+|$))+`)
)

// elideBodies replaces executable bodies inside a declaration body with a
// single ';' so braces of inline code are never read as initializers.
//
// A '{' counts as a body when the current statement ends with a parameter
// list close, optionally followed by const/noexcept/override/final, or when
// the statement is a constructor with a member initializer list. Nested
// struct/class/union/enum definitions are removed as a unit; a named nested
// type with trailing declarators ("struct P {...} p;") is reduced to "P p;".
// Every other brace (initializers such as "int x{0};" or a lambda after
// '=') is kept. Line breaks inside removed text are preserved.
func elideBodies(body string) string {
	out := make([]byte, 0, len(body))
	stmtStart := 0

	for i := 0; i < len(body); {
		if end := scan.LiteralEnd(body, i); end > i {
			out = append(out, body[i:end]...)
			i = end
			continue
		}
		c := body[i]
		if c == ';' {
			out = append(out, c)
			i++
			stmtStart = len(out)
			continue
		}
		if c != '{' {
			out = append(out, c)
			i++
			continue
		}

		header := string(out[stmtStart:])
		prefix := accessPrefixRe.FindString(strings.TrimSpace(header))
		stmt := strings.TrimSpace(strings.TrimSpace(header)[len(prefix):])

		switch {
		case isInitializer(stmt):
			// "cb = []() {...}" is a lambda initializer; it is copied whole.
			_, end, ok := scan.MatchBrace(body, i)
			if !ok {
				return string(append(out, body[i:]...))
			}
			out = append(out, body[i:end+1]...)
			i = end + 1

		case bodyQualifierRe.MatchString(stmt) || (ctorInitRe.MatchString(stmt) && endsWithCloser(stmt)):
			_, end, ok := scan.MatchBrace(body, i)
			out = append(out, ';')
			if !ok {
				return string(out)
			}
			out = append(out, newlines(body[i:end+1])...)
			stmtStart = len(out)
			i = end + 1

		case nestedTypeRe.MatchString(stmt):
			name := nestedTypeRe.FindStringSubmatch(stmt)[1]
			_, end, ok := scan.MatchBrace(body, i)
			// Keep any access specifier that preceded the nested type.
			out = out[:stmtStart]
			if prefix != "" {
				out = append(out, ' ')
				out = append(out, strings.TrimSpace(prefix)...)
			}
			out = append(out, newlines(header)...)
			if !ok {
				return string(out)
			}
			next := end + 1
			if semi := strings.IndexByte(body[next:], ';'); semi >= 0 {
				declarators := strings.TrimSpace(body[next : next+semi])
				if name != "" && declarators != "" {
					out = append(out, name+" "+declarators+";"...)
				}
				next += semi + 1
			}
			out = append(out, newlines(body[i:next])...)
			stmtStart = len(out)
			i = next

		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

// isInitializer reports whether stmt already has a top-level '=' that is
// not part of an operator name, so a following '{' opens initializer text.
func isInitializer(stmt string) bool {
	eq := scan.IndexTopLevel(stmt, '=')
	return eq >= 0 && !operatorRe.MatchString(stmt[:eq])
}

func endsWithCloser(s string) bool {
	return strings.HasSuffix(s, ")") || strings.HasSuffix(s, "}")
}

// newlines returns one '\n' per line break in s.
func newlines(s string) string {
	return strings.Repeat("\n", strings.Count(s, "\n"))
}
