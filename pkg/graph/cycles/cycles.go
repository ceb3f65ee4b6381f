// Package cycles finds circular dependencies in a graph keyed by node id.
package cycles

import (
	"maps"
	"slices"
	"strings"
)

// Chain is an ordered sequence of node ids. A circular chain starts and
// ends with the same node.
type Chain struct {
	Nodes    []string `json:"nodes" yaml:"nodes"`
	Circular bool     `json:"circular" yaml:"circular"`
}

// Canonical rotates a circular chain so its smallest node id comes first.
// Rotations of the same cycle share one canonical form. Non-circular chains
// are returned unchanged.
func (c Chain) Canonical() Chain {
	if !c.Circular || len(c.Nodes) < 2 {
		return c
	}
	ring := c.Nodes[:len(c.Nodes)-1]
	start := 0
	for i, n := range ring {
		if n < ring[start] {
			start = i
		}
	}
	nodes := make([]string, 0, len(c.Nodes))
	nodes = append(nodes, ring[start:]...)
	nodes = append(nodes, ring[:start]...)
	nodes = append(nodes, ring[start])
	return Chain{Nodes: nodes, Circular: true}
}

// Key returns the rendering of the canonical form.
func (c Chain) Key() string { return c.Canonical().String() }

// String renders the chain as "a > b > a".
func (c Chain) String() string { return strings.Join(c.Nodes, " > ") }

// Detector runs a three-colour depth-first search over an adjacency map.
// A Detector is single use.
type Detector struct {
	adj  map[string][]string
	used bool
}

// New returns a detector owning adj. Callers must not modify adj afterwards.
func New(adj map[string][]string) *Detector {
	return &Detector{adj: adj}
}

// Find returns one canonical chain per cycle found, sorted by key.
// An acyclic graph yields no chains. Calling Find twice returns nil the
// second time.
//
// A node is:
//   - white: not yet visited
//   - gray: on the current DFS path
//   - black: fully explored
//
// An edge to a gray node closes a cycle: the path suffix from that node
// through the current node, plus the node again.
func (d *Detector) Find() []Chain {
	if d.used {
		return nil
	}
	d.used = true

	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.adj))
	found := make(map[string]Chain)
	var path []string

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		path = append(path, node)
		for _, next := range d.adj[node] {
			switch color[next] {
			case white:
				dfs(next)
			case gray:
				at := slices.Index(path, next)
				nodes := append(slices.Clone(path[at:]), next)
				c := Chain{Nodes: nodes, Circular: true}.Canonical()
				found[c.String()] = c
			}
		}
		path = path[:len(path)-1]
		color[node] = black
	}

	for _, n := range slices.Sorted(maps.Keys(d.adj)) {
		if color[n] == white {
			dfs(n)
		}
	}
	d.adj = nil

	out := make([]Chain, 0, len(found))
	for _, k := range slices.Sorted(maps.Keys(found)) {
		out = append(out, found[k])
	}
	return out
}

// Find is shorthand for New(adj).Find().
func Find(adj map[string][]string) []Chain {
	return New(adj).Find()
}
