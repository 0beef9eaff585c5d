// Package naming allocates stable symbolic names for node, variable and list
// ids.
package naming

import (
	"fmt"
	"regexp"
)

// DefaultPrefix is the prefix used when a registry is created without one.
const DefaultPrefix = "b"

var illegalIdentifierCharRe = regexp.MustCompile(`[^A-Za-z0-9_]`)

// SanitizeIdentifier replaces every character outside [A-Za-z0-9_] with `_`.
func SanitizeIdentifier(name string) string {
	return illegalIdentifierCharRe.ReplaceAllString(name, "_")
}

// Registry memoizes one name per id. Names have the form
// `<prefix>_<index>_<hint>`, where index is the allocation order, so two ids
// never share a name.
type Registry struct {
	prefix string
	names  map[string]string
	next   int
}

// NewRegistry creates a registry. An empty prefix selects DefaultPrefix.
func NewRegistry(prefix string) *Registry {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Registry{
		prefix: prefix,
		names:  make(map[string]string),
	}
}

// Resolve returns the name for id, allocating one on first use. The hint only
// matters on that first call; it defaults to the id itself.
func (r *Registry) Resolve(id string, hint string) string {
	if name, ok := r.names[id]; ok {
		return name
	}
	if hint == "" {
		hint = id
	}
	name := fmt.Sprintf("%s_%d_%s", r.prefix, r.next, SanitizeIdentifier(hint))
	r.next++
	r.names[id] = name
	return name
}

// Lookup returns the name already allocated for id, if any.
func (r *Registry) Lookup(id string) (string, bool) {
	name, ok := r.names[id]
	return name, ok
}

// Len returns the number of allocated names.
func (r *Registry) Len() int {
	return r.next
}

// Prefix returns the prefix of every allocated name.
func (r *Registry) Prefix() string {
	return r.prefix
}
