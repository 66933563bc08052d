// Package permissions implements merging of role permission documents and
// derivation of module visibility for authenticated principals.
package permissions

import (
	"encoding/json"
	"reflect"
)

// Document is a decoded role permissions payload. The only contractually
// special key is "modules", which holds a list of module names.
type Document map[string]any

// ModulesKey is the document key carrying module names.
const ModulesKey = "modules"

// Decode parses a stored permissions payload. Malformed JSON and non-object
// payloads are reported as absent rather than errors; callers degrade to
// default permissions for the role.
func Decode(raw []byte) (Document, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false
	}
	if doc == nil {
		return nil, false
	}
	return doc, true
}

// Merge combines an ordered sequence of permission documents into one.
// Array values accumulate as a deduplicated union preserving first-seen
// order, boolean values are OR-ed, and any other value is overwritten by the
// last document that supplies the key. Nil documents are skipped. Merge
// returns nil when no valid document was provided so that callers can fall
// back to defaults.
func Merge(docs []Document) Document {
	var merged Document
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if merged == nil {
			merged = make(Document)
		}
		for key, value := range doc {
			switch v := value.(type) {
			case []any:
				existing, _ := merged[key].([]any)
				merged[key] = unionValues(existing, v)
			case bool:
				prior, _ := merged[key].(bool)
				merged[key] = prior || v
			default:
				merged[key] = value
			}
		}
	}
	return merged
}

// unionValues appends values not already present, keeping first-seen order.
// Non-comparable values (nested arrays or objects) are kept as-is.
func unionValues(existing, incoming []any) []any {
	out := make([]any, 0, len(existing)+len(incoming))
	seen := make(map[any]struct{}, len(existing)+len(incoming))
	add := func(v any) {
		if v != nil && reflect.TypeOf(v).Comparable() {
			if _, ok := seen[v]; ok {
				return
			}
			seen[v] = struct{}{}
		}
		out = append(out, v)
	}
	for _, v := range existing {
		add(v)
	}
	for _, v := range incoming {
		add(v)
	}
	return out
}

// Modules returns the raw string entries of the document's modules key.
// Non-string entries are dropped.
func (d Document) Modules() []string {
	if d == nil {
		return nil
	}
	raw, ok := d[ModulesKey].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// WithModules returns a copy of the document with the modules key replaced.
// A nil document stays nil: principals without stored permissions do not
// acquire a synthetic document just because defaults were applied.
func (d Document) WithModules(modules []string) Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d)+1)
	for k, v := range d {
		out[k] = v
	}
	entries := make([]any, len(modules))
	for i, m := range modules {
		entries[i] = m
	}
	out[ModulesKey] = entries
	return out
}
