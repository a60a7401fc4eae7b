package deps

// builtinTypes are scalar and string types that never need a generated
// declaration of their own.
var builtinTypes = []string{
	"int", "int8_t", "int16_t", "int32_t", "int64_t",
	"uint8_t", "uint16_t", "uint32_t", "uint64_t",
	"intptr_t", "uintptr_t", "ptrdiff_t",
	"float", "double", "bool", "char", "void", "auto",
	"wchar_t", "char8_t", "char16_t", "char32_t",
	"short", "long", "signed", "unsigned",
	"size_t", "ssize_t", "nullptr_t",
	"std::string", "string",
	"std::string_view", "string_view",
	"std::wstring", "wstring",
}

// stdContainers are standard library templates and utility types. Their
// template arguments are still inspected.
var stdContainers = []string{
	"vector", "list", "deque", "forward_list",
	"map", "multimap", "unordered_map", "unordered_multimap",
	"set", "multiset", "unordered_set", "unordered_multiset",
	"stack", "queue", "priority_queue",
	"shared_ptr", "unique_ptr", "weak_ptr",
	"optional", "variant", "any", "pair", "tuple", "function", "array", "span",
	"mutex", "shared_mutex", "recursive_mutex", "atomic", "thread",
	"condition_variable", "lock_guard", "unique_lock", "scoped_lock",
	"chrono", "duration", "time_point", "system_clock", "steady_clock",
	"basic_string", "initializer_list", "reference_wrapper", "bitset",
}

// AllowList is a set of type names excluded from dependency sets. Names
// are matched in qualified and leaf form.
type AllowList map[string]bool

// DefaultAllowList returns the builtin scalars and standard containers, each
// with and without the std:: prefix, plus extra.
func DefaultAllowList(extra ...string) AllowList {
	al := AllowList{}
	for _, n := range builtinTypes {
		al[n] = true
	}
	for _, n := range stdContainers {
		al[n] = true
		al["std::"+n] = true
	}
	for _, n := range extra {
		if n != "" {
			al[n] = true
		}
	}
	return al
}

// Contains reports whether name, or its leaf, is allow-listed.
func (al AllowList) Contains(name, leaf string) bool {
	return al[name] || al[leaf]
}
