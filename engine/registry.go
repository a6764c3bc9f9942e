package engine

import (
	"maps"
	"slices"

	"github.com/ardnew/mkcmd/lang"
)

// Registry maps top-level node names to nodes. When several nodes share a
// name the one declared last wins.
type Registry struct {
	nodes map[string]*lang.Node
}

// NewRegistry indexes nodes by name.
func NewRegistry(nodes []*lang.Node) *Registry {
	r := &Registry{nodes: make(map[string]*lang.Node, len(nodes))}
	for _, n := range nodes {
		if n != nil {
			r.nodes[n.Name] = n
		}
	}

	return r
}

// Lookup returns the node registered under name.
func (r *Registry) Lookup(name string) (*lang.Node, bool) {
	n, ok := r.nodes[name]

	return n, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.nodes))
}

// Len returns the number of registered names.
func (r *Registry) Len() int { return len(r.nodes) }
