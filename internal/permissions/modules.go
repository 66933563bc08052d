package permissions

import "strings"

// Kind distinguishes principal types for default module sets.
type Kind int

const (
	// KindAdmin is an administrative principal.
	KindAdmin Kind = iota
	// KindEmployee is a regular user principal.
	KindEmployee
)

// DefaultModules returns the fallback module set applied when a principal's
// roles specify no modules at all.
func DefaultModules(kind Kind) []string {
	if kind == KindAdmin {
		return []string{"assets", "licenses", "monitoring", "reports", "roles"}
	}
	return []string{"assets"}
}

// NormalizeModules trims and lower-cases module names, dropping empties and
// duplicates while preserving first-seen order.
func NormalizeModules(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, name := range in {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// ResolveModules derives the concrete module list for a principal from its
// merged permission document. The result is never nil: when the document is
// absent or lists no modules the kind-specific default set applies.
func ResolveModules(doc Document, kind Kind) []string {
	modules := NormalizeModules(doc.Modules())
	if len(modules) == 0 {
		return DefaultModules(kind)
	}
	return modules
}

// ContainsModule reports whether the normalized module list includes name.
func ContainsModule(modules []string, name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, m := range modules {
		if m == name {
			return true
		}
	}
	return false
}
