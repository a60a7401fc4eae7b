package extract

import (
	"regexp"
	"strings"

	"github.com/dejo1307/hdrgraph/internal/decl"
	"github.com/dejo1307/hdrgraph/internal/scan"
)

var (
	templatePrefixRe = regexp.MustCompile(`^template\s*<`)
	macroLineRe      = regexp.MustCompile(`^[A-Z][A-Z0-9_]*(?:\s*\(.*\))?$`)
	forwardDeclRe    = regexp.MustCompile(`^(?:class|struct|union|enum(?:\s+class)?)\s+[A-Za-z_]\w*(?:\s*:\s*[\w:]+)?\s*;$`)
)

// parseMembers fills d.Fields and d.Methods from a declaration body.
//
// Inline bodies are elided first. The remaining text is read line by line;
// statements spanning several lines are joined until a ';' outside
// brackets. Access starts at the kind default and follows the nearest
// preceding access specifier. Statements matching neither the method nor the
// field shape are recorded in d.Skipped.
func parseMembers(body string, d *decl.TypeDeclaration) {
	access := d.Kind.DefaultAccess()
	clean := elideBodies(body)

	var pending strings.Builder
	pendingLine := 0

	for idx, raw := range strings.Split(clean, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if pending.Len() == 0 {
			pendingLine = idx + 1
			if macroLineRe.MatchString(line) && !strings.HasSuffix(line, ";") {
				d.Skipped = append(d.Skipped, decl.SkippedLine{Line: idx + 1, Text: line, Reason: "macro invocation"})
				continue
			}
		} else {
			pending.WriteByte(' ')
		}
		pending.WriteString(line)

		for {
			text := pending.String()
			text, access = consumeAccess(text, access)
			semi := terminatorIndex(text)
			if semi < 0 {
				pending.Reset()
				pending.WriteString(text)
				break
			}
			stmt := strings.TrimSpace(text[:semi+1])
			rest := strings.TrimSpace(text[semi+1:])
			parseStatement(stmt, access, d, pendingLine)
			pending.Reset()
			pending.WriteString(rest)
			pendingLine = idx + 1
			if rest == "" {
				break
			}
		}
	}

	if rest := strings.TrimSpace(pending.String()); rest != "" {
		rest, _ = consumeAccess(rest, access)
		if rest != "" {
			d.Skipped = append(d.Skipped, decl.SkippedLine{Line: pendingLine, Text: rest, Reason: "unterminated statement"})
		}
	}
}

// consumeAccess strips leading access specifiers from text and returns the
// access level the last one selects.
func consumeAccess(text string, access decl.Access) (string, decl.Access) {
	for {
		text = strings.TrimSpace(text)
		prefix := accessPrefixRe.FindString(text)
		if prefix == "" {
			return text, access
		}
		switch {
		case strings.HasPrefix(prefix, "public"):
			access = decl.Public
		case strings.HasPrefix(prefix, "protected"):
			access = decl.Protected
		default:
			access = decl.Private
		}
		text = text[len(prefix):]
	}
}

// terminatorIndex returns the index of the first ';' outside (), [] and {}
// and outside literals, or -1.
func terminatorIndex(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		if end := scan.LiteralEnd(s, i); end > i {
			i = end - 1
			continue
		}
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ignoredPrefixes start statements that are understood but carry no member.
var ignoredPrefixes = []string{"using ", "typedef ", "friend ", "static_assert", "namespace "}

// flowPrefixes start statements that only appear inside function bodies; if
// one survives elision it is reported.
var flowPrefixes = []string{"return ", "return;", "if ", "if(", "for ", "for(", "while ", "while(", "switch ", "switch("}

func parseStatement(stmt string, access decl.Access, d *decl.TypeDeclaration, line int) {
	stmt = stripTemplatePrefix(attributeRe.ReplaceAllString(stmt, ""))
	stmt = strings.TrimSpace(stmt)
	if stmt == "" || stmt == ";" {
		return
	}
	for _, p := range ignoredPrefixes {
		if strings.HasPrefix(stmt, p) {
			return
		}
	}
	if forwardDeclRe.MatchString(stmt) {
		return
	}
	for _, p := range flowPrefixes {
		if strings.HasPrefix(stmt, p) {
			d.Skipped = append(d.Skipped, decl.SkippedLine{Line: line, Text: stmt, Reason: "statement outside a function body"})
			return
		}
	}

	m, res := tryMethod(stmt, access, d.Name)
	switch res {
	case methodParsed:
		d.Methods = append(d.Methods, m)
		return
	case methodSpecial:
		return
	case methodUnterminated:
		d.Skipped = append(d.Skipped, decl.SkippedLine{Line: line, Text: stmt, Reason: "unterminated parameter list"})
		return
	}

	if ff := tryField(stmt, access, d.Name); len(ff) > 0 {
		d.Fields = append(d.Fields, ff...)
		return
	}
	d.Skipped = append(d.Skipped, decl.SkippedLine{Line: line, Text: stmt, Reason: "matches neither field nor method"})
}

// stripTemplatePrefix removes a leading "template<...>" clause.
func stripTemplatePrefix(s string) string {
	s = strings.TrimSpace(s)
	if !templatePrefixRe.MatchString(s) {
		return s
	}
	lt := strings.IndexByte(s, '<')
	gt, ok := scan.MatchPair(s, lt, '<', '>')
	if !ok {
		return s
	}
	return strings.TrimSpace(s[gt+1:])
}

// splitTrailingIdent splits s into the text before its trailing identifier
// and the identifier itself. The identifier is empty when s does not end in
// one.
func splitTrailingIdent(s string) (before, ident string) {
	s = strings.TrimSpace(s)
	j := len(s)
	for j > 0 && scan.IsIdentByte(s[j-1]) {
		j--
	}
	return strings.TrimSpace(s[:j]), s[j:]
}

// hasWord reports whether w occurs in s as a whole word outside template
// argument lists.
func hasWord(s, w string) bool {
	for _, tok := range topLevelWords(s) {
		if tok == w {
			return true
		}
	}
	return false
}

// topLevelWords splits s into identifier-like words that are not inside a
// template argument list.
func topLevelWords(s string) []string {
	var words []string
	depth := 0
	start := -1
	flush := func(i int) {
		if start >= 0 {
			words = append(words, s[start:i])
			start = -1
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '<':
			flush(i)
			depth++
		case c == '>':
			flush(i)
			if depth > 0 {
				depth--
			}
		case scan.IsIdentByte(c) && depth == 0:
			if start < 0 {
				start = i
			}
		default:
			flush(i)
		}
	}
	flush(len(s))
	return words
}

// removeWords deletes whole-word occurrences of the given keywords that are
// outside template argument lists and normalises spacing.
func removeWords(s string, words map[string]bool) string {
	var sb strings.Builder
	depth := 0
	for i := 0; i < len(s); {
		c := s[i]
		if depth == 0 && scan.IsIdentByte(c) && (i == 0 || !scan.IsIdentByte(s[i-1])) {
			j := i
			for j < len(s) && scan.IsIdentByte(s[j]) {
				j++
			}
			if words[s[i:j]] && (i < 2 || s[i-2:i] != "::") {
				i = j
				continue
			}
			sb.WriteString(s[i:j])
			i = j
			continue
		}
		switch c {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		}
		sb.WriteByte(c)
		i++
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
