package domain

import (
	"iter"
	"slices"
	"strings"
)

// DependencyGraph is a directed graph keyed by package name. Unlike a build
// graph, cycles are legal here (a may depend on b may depend on a); the graph
// exists to give resolution a bounded, deterministic traversal, not to reject
// cyclic inputs.
type DependencyGraph struct {
	nodes map[string]struct{}
	edges map[string]map[string]struct{}
}

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[string]struct{}),
		edges: make(map[string]map[string]struct{}),
	}
}

// AddNode records a package name.
func (g *DependencyGraph) AddNode(name string) {
	g.nodes[name] = struct{}{}
}

// AddEdge records that from depends on to. Both endpoints are added as nodes.
func (g *DependencyGraph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	deps, ok := g.edges[from]
	if !ok {
		deps = make(map[string]struct{})
		g.edges[from] = deps
	}
	deps[to] = struct{}{}
}

// Contains reports whether the package is in the graph.
func (g *DependencyGraph) Contains(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Len returns the number of nodes.
func (g *DependencyGraph) Len() int {
	return len(g.nodes)
}

// Dependencies returns the direct dependencies of a package, sorted.
func (g *DependencyGraph) Dependencies(name string) []string {
	deps := make([]string, 0, len(g.edges[name]))
	for dep := range g.edges[name] {
		deps = append(deps, dep)
	}
	slices.SortFunc(deps, strings.Compare)
	return deps
}

// Walk yields every node in sorted-name DFS preorder from the sorted roots.
// The order is deterministic for a given graph regardless of insertion order.
func (g *DependencyGraph) Walk() iter.Seq[string] {
	return func(yield func(string) bool) {
		names := make([]string, 0, len(g.nodes))
		for name := range g.nodes {
			names = append(names, name)
		}
		slices.SortFunc(names, strings.Compare)

		visited := make(map[string]bool, len(names))
		var visit func(name string) bool
		visit = func(name string) bool {
			if visited[name] {
				return true
			}
			visited[name] = true
			if !yield(name) {
				return false
			}
			for _, dep := range g.Dependencies(name) {
				if !visit(dep) {
					return false
				}
			}
			return true
		}

		for _, name := range names {
			if !visit(name) {
				return
			}
		}
	}
}

// Cycles returns each strongly connected component with more than one member
// (or a self-edge), sorted. Informational only; cyclic dependency sets are
// resolvable as long as their constraints are.
func (g *DependencyGraph) Cycles() [][]string {
	// Tarjan, iterative bookkeeping kept simple via recursion; package
	// counts are small enough that stack depth is not a concern.
	index := 0
	indices := make(map[string]int)
	lowlink := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	var components [][]string

	var strongconnect func(v string)
	strongconnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.Dependencies(v) {
			if _, seen := indices[w]; !seen {
				strongconnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var component []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				component = append(component, w)
				if w == v {
					break
				}
			}
			selfEdge := len(component) == 1 && g.hasEdge(v, v)
			if len(component) > 1 || selfEdge {
				slices.SortFunc(component, strings.Compare)
				components = append(components, component)
			}
		}
	}

	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	slices.SortFunc(names, strings.Compare)
	for _, name := range names {
		if _, seen := indices[name]; !seen {
			strongconnect(name)
		}
	}

	slices.SortFunc(components, func(a, b []string) int {
		return strings.Compare(a[0], b[0])
	})
	return components
}

func (g *DependencyGraph) hasEdge(from, to string) bool {
	_, ok := g.edges[from][to]
	return ok
}
