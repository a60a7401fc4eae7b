package decl

import (
	"strings"

	"github.com/dejo1307/hdrgraph/internal/scan"
)

// TypeDescriptor is a structured view of a raw C++ type expression.
type TypeDescriptor struct {
	Raw       string           `json:"raw"`
	Name      string           `json:"name"`                // base identifier, possibly qualified
	Namespace string           `json:"namespace,omitempty"` // qualifier prefix of Name
	Args      []TypeDescriptor `json:"args,omitempty"`
	Const     bool             `json:"const,omitempty"`
	Pointer   bool             `json:"pointer,omitempty"`
	Reference bool             `json:"reference,omitempty"`
}

// qualifierWords are dropped from the base name; const is recorded as a flag.
var qualifierWords = map[string]bool{
	"const":    true,
	"volatile": true,
	"struct":   true,
	"class":    true,
	"enum":     true,
	"typename": true,
	"mutable":  true,
}

// ParseType decomposes a raw type expression. Template arguments are
// recovered by matching each '<' with its '>' at the same depth and are
// parsed recursively. Text following the closing '>' (such as "::iterator")
// is kept in Raw only.
func ParseType(raw string) TypeDescriptor {
	raw = strings.TrimSpace(raw)
	td := TypeDescriptor{Raw: raw}
	if raw == "" {
		return td
	}

	head := raw
	var argText string
	hasArgs := false
	if lt := strings.IndexByte(raw, '<'); lt >= 0 {
		if gt, ok := scan.MatchPair(raw, lt, '<', '>'); ok {
			head = raw[:lt]
			argText = raw[lt+1 : gt]
			hasArgs = true
			td.applySigils(raw[gt+1:])
		} else {
			head = raw[:lt]
		}
	}
	td.applySigils(head)

	var words []string
	for _, w := range strings.Fields(strings.NewReplacer("*", " ", "&", " ").Replace(head)) {
		if w == "const" {
			td.Const = true
		}
		if qualifierWords[w] {
			continue
		}
		words = append(words, w)
	}
	td.Name = strings.Join(words, " ")
	if i := strings.LastIndex(td.Name, "::"); i > 0 {
		td.Namespace = td.Name[:i]
	}

	if hasArgs {
		for _, a := range scan.SplitTopLevel(argText, ',') {
			td.Args = append(td.Args, ParseType(a))
		}
	}
	return td
}

// applySigils sets pointer/reference flags from '*' and '&' in s, which must
// lie outside any template argument list.
func (td *TypeDescriptor) applySigils(s string) {
	if strings.Contains(s, "*") {
		td.Pointer = true
	}
	if strings.Contains(s, "&") && !strings.Contains(s, "&&") {
		td.Reference = true
	}
	if strings.Contains(s, "const") {
		for _, w := range strings.Fields(strings.NewReplacer("*", " ", "&", " ").Replace(s)) {
			if w == "const" {
				td.Const = true
			}
		}
	}
}

// Leaf returns the unqualified trailing identifier of Name.
func (td TypeDescriptor) Leaf() string {
	return scan.Leaf(td.Name)
}

// IsTemplate reports whether the descriptor carries template arguments.
func (td TypeDescriptor) IsTemplate() bool {
	return len(td.Args) > 0
}

// Equal reports structural equality: same base identifier and pairwise equal
// template arguments. Qualifier flags are ignored.
func (td TypeDescriptor) Equal(other TypeDescriptor) bool {
	if td.Name != other.Name || len(td.Args) != len(other.Args) {
		return false
	}
	for i := range td.Args {
		if !td.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	return true
}

// Contains reports whether name appears as the base identifier (qualified or
// leaf) of the descriptor or of any nested argument.
func (td TypeDescriptor) Contains(name string) bool {
	if td.Name == name || td.Leaf() == name {
		return true
	}
	for _, a := range td.Args {
		if a.Contains(name) {
			return true
		}
	}
	return false
}

// String renders the descriptor in canonical form, e.g.
// "const std::map<std::string, Foo>&".
func (td TypeDescriptor) String() string {
	var sb strings.Builder
	if td.Const {
		sb.WriteString("const ")
	}
	sb.WriteString(td.Name)
	if len(td.Args) > 0 {
		sb.WriteByte('<')
		for i, a := range td.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.String())
		}
		sb.WriteByte('>')
	}
	if td.Pointer {
		sb.WriteByte('*')
	}
	if td.Reference {
		sb.WriteByte('&')
	}
	return sb.String()
}
