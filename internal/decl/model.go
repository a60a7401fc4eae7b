// Package decl defines the records produced by the extractors: type
// descriptors, fields, methods, enums and struct/class declarations.
package decl

// Access is a C++ member access level.
type Access string

// Access level values.
const (
	Public    Access = "public"
	Protected Access = "protected"
	Private   Access = "private"
)

// Kind distinguishes struct from class declarations.
type Kind string

// Declaration kinds.
const (
	KindStruct Kind = "struct"
	KindClass  Kind = "class"
)

// DefaultAccess returns the access level members get before any specifier:
// public for structs, private for classes.
func (k Kind) DefaultAccess() Access {
	if k == KindStruct {
		return Public
	}
	return Private
}

// Field is a data member of a struct or class.
type Field struct {
	Name    string         `json:"name"`
	Type    TypeDescriptor `json:"type"`
	Default string         `json:"default,omitempty"` // raw initializer text
	Const   bool           `json:"const,omitempty"`
	Static  bool           `json:"static,omitempty"`
	Access  Access         `json:"access"`
	Owner   string         `json:"owner"`           // declaring type name
	Inner   string         `json:"inner,omitempty"` // text between the outermost <> of the type
}

// SharedPtr reports whether the field's type involves std::shared_ptr.
func (f Field) SharedPtr() bool {
	return f.Type.Contains("shared_ptr")
}

// Parameter is one entry of a method parameter list.
type Parameter struct {
	Type    TypeDescriptor `json:"type"`
	Name    string         `json:"name,omitempty"`
	Default string         `json:"default,omitempty"`
}

// Method is a member function. Constructors and destructors are never
// represented.
type Method struct {
	Name     string         `json:"name"`
	Return   TypeDescriptor `json:"return"`
	Params   []Parameter    `json:"params,omitempty"`
	Const    bool           `json:"const,omitempty"`
	Static   bool           `json:"static,omitempty"`
	Virtual  bool           `json:"virtual,omitempty"`
	Override bool           `json:"override,omitempty"`
	Inline   bool           `json:"inline,omitempty"`
	Access   Access         `json:"access"`
}

// EnumValue is one enumerator. Value holds the raw expression after '=' and
// is empty for implicit values.
type EnumValue struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// EnumDeclaration is an enum or enum class definition.
type EnumDeclaration struct {
	Name       string          `json:"name"`
	Namespace  string          `json:"namespace,omitempty"`
	Values     []EnumValue     `json:"values"`
	Scoped     bool            `json:"scoped,omitempty"`
	Underlying *TypeDescriptor `json:"underlying,omitempty"`
	File       string          `json:"file"`
}

// QualifiedName returns Namespace::Name, or Name without a namespace.
func (e *EnumDeclaration) QualifiedName() string {
	return qualify(e.Namespace, e.Name)
}

// SkippedLine records a body statement that matched neither the field nor
// the method shape.
type SkippedLine struct {
	Line   int    `json:"line"` // 1-based, relative to the declaration body
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// TypeDeclaration is a struct or class definition.
type TypeDeclaration struct {
	Name      string        `json:"name"`
	Namespace string        `json:"namespace,omitempty"`
	Kind      Kind          `json:"kind"`
	Fields    []Field       `json:"fields"`
	Methods   []Method      `json:"methods"`
	Base      string        `json:"base,omitempty"` // single inheritance only
	File      string        `json:"file"`
	Skipped   []SkippedLine `json:"skipped,omitempty"`
}

// QualifiedName returns Namespace::Name, or Name without a namespace.
func (d *TypeDeclaration) QualifiedName() string {
	return qualify(d.Namespace, d.Name)
}

// Field returns the field with the given name, or nil.
func (d *TypeDeclaration) Field(name string) *Field {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i]
		}
	}
	return nil
}

// Method returns the first method with the given name, or nil.
func (d *TypeDeclaration) Method(name string) *Method {
	for i := range d.Methods {
		if d.Methods[i].Name == name {
			return &d.Methods[i]
		}
	}
	return nil
}

func qualify(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "::" + name
}
