package common

import "strings"

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// Qualify prefixes an unqualified name (one without a '.') with pkg.
// Empty names and empty packages are returned unchanged.
func Qualify(name, pkg string) string {
	if name == "" || pkg == "" || strings.Contains(name, ".") {
		return name
	}

	return pkg + "." + name
}

// Unqualify returns the part of a dotted name after the last '.'.
func Unqualify(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}

	return name
}

// Root returns the part of a dotted name before the first '.', and the rest.
// ok is false when name has no '.'.
func Root(name string) (root, rest string, ok bool) {
	root, rest, ok = strings.Cut(name, ".")
	return root, rest, ok
}

// SplitTrim splits s by sep, trims whitespace, and drops empty parts.
func SplitTrim(s, sep string) []string {
	var out []string

	for part := range strings.SplitSeq(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}

	return out
}

// FirstNonEmpty returns the first non-empty string.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
