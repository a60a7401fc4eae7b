// Package scan holds the lexical primitives shared by the extractors:
// comment stripping, balanced bracket matching and depth-aware splitting.
package scan

import (
	"strings"
)

// StripComments removes // line comments and /* */ block comments from src.
//
// String, character and raw string literals are copied through untouched, so
// a "//" inside a literal survives. Block comments are replaced by a single
// space; any newlines they spanned are kept so line numbers stay stable.
// Block comments do not nest. Applying StripComments twice yields the same
// text as applying it once.
func StripComments(src string) string {
	var sb strings.Builder
	sb.Grow(len(src))

	n := len(src)
	for i := 0; i < n; {
		c := src[i]
		switch {
		case c == '/' && i+1 < n && src[i+1] == '/':
			for i < n && src[i] != '\n' {
				i++
			}

		case c == '/' && i+1 < n && src[i+1] == '*':
			i += 2
			sb.WriteByte(' ')
			for i < n && !(src[i] == '*' && i+1 < n && src[i+1] == '/') {
				if src[i] == '\n' {
					sb.WriteByte('\n')
				}
				i++
			}
			i += 2
			if i > n {
				i = n
			}

		default:
			if end := LiteralEnd(src, i); end > i {
				sb.WriteString(src[i:end])
				i = end
				continue
			}
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// LiteralEnd returns the index just past the string, character or raw string
// literal opening at s[i], or -1 when s[i] does not open one. A quote after
// an identifier character is a digit separator ("1'000"), not a literal.
func LiteralEnd(s string, i int) int {
	if i < 0 || i >= len(s) {
		return -1
	}
	switch {
	case s[i] == '"' && isRawPrefix(s, i):
		return skipRawString(s, i)
	case s[i] == '"':
		return skipQuoted(s, i, '"')
	case s[i] == '\'' && (i == 0 || !isIdentByte(s[i-1]) || isCharPrefix(s, i)):
		return skipQuoted(s, i, '\'')
	}
	return -1
}

// skipQuoted returns the index just past the literal starting at src[start].
// An unterminated literal runs to the end of the line.
func skipQuoted(src string, start int, quote byte) int {
	i := start + 1
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return i + 1
		case '\n':
			return i
		}
		i++
	}
	return len(src)
}

// isRawPrefix reports whether the quote at src[i] opens a raw string literal
// (R"...", u8R"...", LR"...", uR"...", UR"...").
func isRawPrefix(src string, i int) bool {
	if i == 0 || src[i-1] != 'R' {
		return false
	}
	j := i - 1
	// Optional encoding prefix before R.
	switch {
	case j >= 2 && src[j-2:j] == "u8":
		j -= 2
	case j >= 1 && (src[j-1] == 'u' || src[j-1] == 'U' || src[j-1] == 'L'):
		j--
	}
	return j == 0 || !isIdentByte(src[j-1])
}

func skipRawString(src string, start int) int {
	open := strings.IndexByte(src[start+1:], '(')
	if open < 0 {
		return skipQuoted(src, start, '"')
	}
	delim := src[start+1 : start+1+open]
	if len(delim) > 16 || strings.ContainsAny(delim, " \\)\n\t") {
		return skipQuoted(src, start, '"')
	}
	closing := ")" + delim + "\""
	body := start + 1 + open + 1
	end := strings.Index(src[body:], closing)
	if end < 0 {
		return len(src)
	}
	return body + end + len(closing)
}

// isCharPrefix accepts the L'x', u'x', U'x' and u8'x' literal forms.
func isCharPrefix(src string, i int) bool {
	j := i - 1
	switch {
	case j >= 1 && src[j-1:j+1] == "u8":
		j -= 2
	case src[j] == 'L' || src[j] == 'u' || src[j] == 'U':
		j--
	default:
		return false
	}
	return j < 0 || !isIdentByte(src[j])
}

// MatchBrace returns the text strictly between the '{' at text[open] and its
// depth-matching '}', along with the index of that closing brace.
// ok is false when text[open] is not '{' or the text ends before the depth
// returns to zero.
func MatchBrace(text string, open int) (body string, end int, ok bool) {
	end, ok = MatchPair(text, open, '{', '}')
	if !ok {
		return "", -1, false
	}
	return text[open+1 : end], end, true
}

// MatchPair finds the closer matching the opener at text[open] by counting
// depth in a single forward scan. Brackets inside literals do not count. It returns -1, false when text[open] is not
// the opener or the text ends first.
func MatchPair(text string, open int, opener, closer byte) (int, bool) {
	if open < 0 || open >= len(text) || text[open] != opener {
		return -1, false
	}
	depth := 0
	for i := open; i < len(text); i++ {
		if end := LiteralEnd(text, i); end > i {
			i = end - 1
			continue
		}
		switch text[i] {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return -1, false
}

// Bracket pairs tracked by SplitTopLevel and IndexTopLevel. Template angle
// brackets count, so "map<K, V>" stays whole.
const (
	openers = "(<[{"
	closers = ")>]}"
)

// SplitTopLevel splits s on sep wherever the bracket depth over (), <>, []
// and {} is zero and sep is not inside a string or character literal. Parts
// are trimmed and empty parts dropped.
func SplitTopLevel(s string, sep byte) []string {
	return SplitOutside(s, sep, openers, closers)
}

// SplitOutside is SplitTopLevel with a caller-chosen bracket set. Enum
// bodies use it without '<' so shift expressions like "1 << 3" stay intact.
func SplitOutside(s string, sep byte, opening, closing string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		if end := LiteralEnd(s, i); end > i {
			i = end - 1
			continue
		}
		c := s[i]
		switch {
		case strings.IndexByte(opening, c) >= 0:
			depth++
		case strings.IndexByte(closing, c) >= 0:
			if c == '>' && i > 0 && s[i-1] == '-' {
				continue // "->" in a trailing return type
			}
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			if p := strings.TrimSpace(s[start:i]); p != "" {
				parts = append(parts, p)
			}
			start = i + 1
		}
	}
	if p := strings.TrimSpace(s[start:]); p != "" {
		parts = append(parts, p)
	}
	return parts
}

// IndexTopLevel returns the index of the first c in s that is not enclosed
// in (), <>, [] or {} and not part of a literal. It returns -1 when there is
// none.
func IndexTopLevel(s string, c byte) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		if end := LiteralEnd(s, i); end > i {
			i = end - 1
			continue
		}
		ch := s[i]
		if ch == c && depth == 0 {
			return i
		}
		switch {
		case strings.IndexByte(openers, ch) >= 0:
			depth++
		case strings.IndexByte(closers, ch) >= 0:
			if depth > 0 {
				depth--
			}
		}
	}
	return -1
}

// IndexOutsideAngles returns the index of the first c in s that is not
// inside a template argument list or a literal, or -1.
func IndexOutsideAngles(s string, c byte) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		if end := LiteralEnd(s, i); end > i {
			i = end - 1
			continue
		}
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case c:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// IsIdentifier reports whether s is a C++ identifier: a letter or
// underscore followed by letters, digits or underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			continue
		}
		if i > 0 && c >= '0' && c <= '9' {
			continue
		}
		return false
	}
	return true
}

// IsQualifiedIdentifier accepts identifiers joined by "::", with an optional
// leading "::" for the global namespace.
func IsQualifiedIdentifier(s string) bool {
	s = strings.TrimPrefix(s, "::")
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, "::") {
		if !IsIdentifier(part) {
			return false
		}
	}
	return true
}

// Leaf returns the unqualified trailing component of a "::"-qualified name.
func Leaf(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	return name
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// IsIdentByte reports whether c may appear inside an identifier.
func IsIdentByte(c byte) bool {
	return isIdentByte(c)
}
