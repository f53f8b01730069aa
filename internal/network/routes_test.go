package network

import (
	"errors"
	"testing"
)

func testNetwork(t *testing.T) *Network {
	t.Helper()
	n, err := Build(Config{Rows: 3, Cols: 3, SpacingM: 100, Seed: 1})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return n
}

func TestBuildGrid(t *testing.T) {
	n := testNetwork(t)
	if got := len(n.Nodes()); got != 9 {
		t.Fatalf("nodes: got %d, want 9", got)
	}
	if _, ok := n.Position("n1_1"); !ok {
		t.Fatalf("missing position for n1_1")
	}
	// deterministic: same seed, same weights
	n2, err := Build(Config{Rows: 3, Cols: 3, SpacingM: 100, Seed: 1})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p := []string{"n0_0", "n0_1", "n0_2"}
	if n.PathLength(p) != n2.PathLength(p) {
		t.Fatalf("weights differ between identical seeds")
	}
}

func TestCandidateRoutesDistinctAscending(t *testing.T) {
	n := testNetwork(t)
	routes, err := n.CandidateRoutes("n0_0", "n2_2", 3)
	if err != nil {
		t.Fatalf("CandidateRoutes: %v", err)
	}
	if len(routes) != 3 {
		t.Fatalf("expected 3 routes, got %d", len(routes))
	}
	seen := map[string]bool{}
	for i, r := range routes {
		if r.Nodes[0] != "n0_0" || r.Nodes[len(r.Nodes)-1] != "n2_2" {
			t.Fatalf("route %d has wrong endpoints: %v", i, r.Nodes)
		}
		if r.LengthM != n.PathLength(r.Nodes) {
			t.Fatalf("route %d length mismatch: %v vs %v", i, r.LengthM, n.PathLength(r.Nodes))
		}
		key := ""
		for _, node := range r.Nodes {
			key += node + ">"
		}
		if seen[key] {
			t.Fatalf("duplicate route: %v", r.Nodes)
		}
		seen[key] = true
		if i > 0 && r.LengthM < routes[i-1].LengthM {
			t.Fatalf("routes not sorted by length: %v", routes)
		}
	}
}

func TestCandidateRoutesUnknownEndpoint(t *testing.T) {
	n := testNetwork(t)
	if _, err := n.CandidateRoutes("nope", "n2_2", 3); !errors.Is(err, ErrUnknownNode) {
		t.Fatalf("expected ErrUnknownNode, got %v", err)
	}
	if _, err := n.CandidateRoutes("n0_0", "nope", 3); !errors.Is(err, ErrUnknownNode) {
		t.Fatalf("expected ErrUnknownNode, got %v", err)
	}
}

func TestCandidateRoutesNoPath(t *testing.T) {
	n := testNetwork(t)
	// isolate the corner by removing both of its neighbors
	if err := n.Graph.RemoveVertex("n0_1"); err != nil {
		t.Fatalf("RemoveVertex: %v", err)
	}
	if err := n.Graph.RemoveVertex("n1_0"); err != nil {
		t.Fatalf("RemoveVertex: %v", err)
	}
	routes, err := n.CandidateRoutes("n0_0", "n2_2", 3)
	if err != nil {
		t.Fatalf("CandidateRoutes: %v", err)
	}
	if len(routes) != 0 {
		t.Fatalf("expected no routes, got %v", routes)
	}
}

func TestNearestNode(t *testing.T) {
	n := testNetwork(t)
	p, ok := n.Position("n1_2")
	if !ok {
		t.Fatalf("missing position")
	}
	if got := n.NearestNode(p.Lat, p.Lon); got != "n1_2" {
		t.Fatalf("NearestNode: got %s, want n1_2", got)
	}
}
