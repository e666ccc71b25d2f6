package domain_test

import (
	"slices"
	"testing"

	"go.trai.ch/pakt/internal/core/domain"
)

func TestDependencyGraph_WalkDeterministic(t *testing.T) {
	build := func(order []string) []string {
		g := domain.NewDependencyGraph()
		for _, n := range order {
			g.AddNode(n)
		}
		g.AddEdge("a", "c")
		g.AddEdge("b", "c")

		var walked []string
		for name := range g.Walk() {
			walked = append(walked, name)
		}
		return walked
	}

	first := build([]string{"c", "a", "b"})
	second := build([]string{"b", "c", "a"})

	if !slices.Equal(first, second) {
		t.Fatalf("walk order depends on insertion order: %v vs %v", first, second)
	}
	if first[0] != "a" {
		t.Fatalf("expected sorted roots, got %v", first)
	}
}

func TestDependencyGraph_CyclesArePermitted(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")
	g.AddEdge("b", "c")

	// Walk must terminate and cover every node despite the cycle.
	seen := make(map[string]bool)
	for name := range g.Walk() {
		if seen[name] {
			t.Fatalf("node %s yielded twice", name)
		}
		seen[name] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(seen))
	}

	cycles := g.Cycles()
	if len(cycles) != 1 {
		t.Fatalf("expected one cycle, got %v", cycles)
	}
	if !slices.Equal(cycles[0], []string{"a", "b"}) {
		t.Fatalf("unexpected cycle members: %v", cycles[0])
	}
}

func TestDependencyGraph_NoFalseCycles(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.AddEdge("a", "b")
	g.AddEdge("a", "c")
	g.AddEdge("b", "c")

	if cycles := g.Cycles(); len(cycles) != 0 {
		t.Fatalf("diamond reported as cycle: %v", cycles)
	}
}
