package network

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dijkstra"

	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/model"
)

// ErrUnknownNode marks an origin or destination that is not in the network.
var ErrUnknownNode = fmt.Errorf("network: unknown node")

// CandidateRoutes returns up to k distinct routes from origin to destination,
// ordered by ascending length. Yen's algorithm over Dijkstra: the shortest
// path first, then spur paths that detour around already-accepted prefixes.
// No path at all yields an empty slice without an error; an unknown endpoint
// is the caller's mistake and errors out.
func (n *Network) CandidateRoutes(origin, dest string, k int) ([]model.CandidateRoute, error) {
	if !n.Graph.HasVertex(origin) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, origin)
	}
	if !n.Graph.HasVertex(dest) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, dest)
	}
	if k <= 0 {
		k = 1
	}

	first, _, ok, err := shortestPath(n.Graph, origin, dest)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	accepted := [][]string{first}
	pool := map[string][]string{}
	// every path ever considered, so nothing re-enters the pool
	seen := map[string]struct{}{strings.Join(first, ">"): {}}

	for len(accepted) < k {
		prev := accepted[len(accepted)-1]
		for i := 0; i+1 < len(prev); i++ {
			spurNode := prev[i]
			rootPath := prev[:i+1]

			g2 := n.Graph.Clone()
			banned := map[string]struct{}{}
			for _, p := range accepted {
				if len(p) > i+1 && samePath(p[:i+1], rootPath) {
					banned[edgeKey(p[i], p[i+1])] = struct{}{}
				}
			}
			g2.FilterEdges(func(e *core.Edge) bool {
				_, hit := banned[edgeKey(e.From, e.To)]
				return !hit
			})
			for _, node := range rootPath[:i] {
				_ = g2.RemoveVertex(node)
			}

			spur, _, ok, err := shortestPath(g2, spurNode, dest)
			if err != nil || !ok {
				continue
			}
			full := append(append([]string(nil), rootPath...), spur[1:]...)
			key := strings.Join(full, ">")
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				pool[key] = full
			}
		}
		if len(pool) == 0 {
			break
		}

		// pop the shortest candidate; length then node-sequence order keeps
		// the pick deterministic
		keys := make([]string, 0, len(pool))
		for key := range pool {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(a, b int) bool {
			la, lb := n.PathLength(pool[keys[a]]), n.PathLength(pool[keys[b]])
			if la != lb {
				return la < lb
			}
			return keys[a] < keys[b]
		})
		next := pool[keys[0]]
		delete(pool, keys[0])
		accepted = append(accepted, next)
	}

	sort.SliceStable(accepted, func(a, b int) bool {
		return n.PathLength(accepted[a]) < n.PathLength(accepted[b])
	})
	routes := make([]model.CandidateRoute, 0, len(accepted))
	for _, p := range accepted {
		routes = append(routes, model.CandidateRoute{Nodes: p, LengthM: n.PathLength(p)})
	}
	return routes, nil
}

// shortestPath runs Dijkstra and reconstructs the path. ok is false when the
// destination is unreachable.
func shortestPath(g *core.Graph, src, dst string) ([]string, int64, bool, error) {
	dist, prev, err := dijkstra.Dijkstra(g, dijkstra.Source(src), dijkstra.WithReturnPath())
	if err != nil {
		return nil, 0, false, fmt.Errorf("network: dijkstra from %s: %w", src, err)
	}
	d, found := dist[dst]
	if !found || d == math.MaxInt64 {
		return nil, 0, false, nil
	}
	path := []string{dst}
	for cur := dst; cur != src; {
		p := prev[cur]
		if p == "" {
			return nil, 0, false, nil
		}
		path = append(path, p)
		cur = p
	}
	for a, b := 0, len(path)-1; a < b; a, b = a+1, b-1 {
		path[a], path[b] = path[b], path[a]
	}
	return path, d, true, nil
}

func samePath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
