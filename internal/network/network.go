// Package network builds the road graph and provides the candidate-route
// contract consumed by the optimizer: up to k distinct node-sequence routes
// per (origin, destination) pair, ordered by ascending length.
package network

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/katalvlaran/lvlath/core"
)

// metersPerDegree approximates one degree of latitude.
const metersPerDegree = 111_111.0

// LatLon is a node position.
type LatLon struct {
	Lat float64
	Lon float64
}

// Network is a weighted, undirected road graph with node positions. Edge
// weights are physical lengths in meters.
type Network struct {
	Graph *core.Graph

	pos     map[string]LatLon
	weights map[string]int64
	nodes   []string
}

// Config controls synthetic network generation: a jittered city grid.
type Config struct {
	Rows      int
	Cols      int
	SpacingM  int64
	Seed      int64
	OriginLat float64
	OriginLon float64
}

func (c Config) withDefaults() Config {
	if c.Rows <= 1 {
		c.Rows = 8
	}
	if c.Cols <= 1 {
		c.Cols = 8
	}
	if c.SpacingM <= 0 {
		c.SpacingM = 250
	}
	if c.OriginLat == 0 && c.OriginLon == 0 {
		// Fort Kochi, the original demo area
		c.OriginLat, c.OriginLon = 9.9658, 76.2421
	}
	return c
}

func nodeID(r, c int) string {
	return fmt.Sprintf("n%d_%d", r, c)
}

// Build generates a Rows x Cols grid network. Edge lengths are the grid
// spacing plus deterministic jitter from Seed, so alternate routes between
// two nodes rarely tie exactly.
func Build(cfg Config) (*Network, error) {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed + 1))

	g := core.NewGraph(core.WithWeighted())
	n := &Network{
		Graph:   g,
		pos:     map[string]LatLon{},
		weights: map[string]int64{},
	}

	degPerRow := float64(cfg.SpacingM) / metersPerDegree
	degPerCol := float64(cfg.SpacingM) / (metersPerDegree * math.Cos(cfg.OriginLat*math.Pi/180))
	for r := 0; r < cfg.Rows; r++ {
		for c := 0; c < cfg.Cols; c++ {
			id := nodeID(r, c)
			if err := g.AddVertex(id); err != nil {
				return nil, fmt.Errorf("network: add vertex %s: %w", id, err)
			}
			n.pos[id] = LatLon{
				Lat: cfg.OriginLat + float64(r)*degPerRow,
				Lon: cfg.OriginLon + float64(c)*degPerCol,
			}
			n.nodes = append(n.nodes, id)
		}
	}
	jitter := cfg.SpacingM / 5
	if jitter < 1 {
		jitter = 1
	}
	addEdge := func(a, b string) error {
		w := cfg.SpacingM + rng.Int63n(jitter)
		if _, err := g.AddEdge(a, b, w); err != nil {
			return fmt.Errorf("network: add edge %s-%s: %w", a, b, err)
		}
		n.weights[edgeKey(a, b)] = w
		return nil
	}
	for r := 0; r < cfg.Rows; r++ {
		for c := 0; c < cfg.Cols; c++ {
			if c+1 < cfg.Cols {
				if err := addEdge(nodeID(r, c), nodeID(r, c+1)); err != nil {
					return nil, err
				}
			}
			if r+1 < cfg.Rows {
				if err := addEdge(nodeID(r, c), nodeID(r+1, c)); err != nil {
					return nil, err
				}
			}
		}
	}
	sort.Strings(n.nodes)
	return n, nil
}

func edgeKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// Nodes returns all node ids, sorted.
func (n *Network) Nodes() []string {
	return n.nodes
}

// Position returns the node's coordinates.
func (n *Network) Position(id string) (LatLon, bool) {
	p, ok := n.pos[id]
	return p, ok
}

// PathLength sums the edge weights along a node sequence. Unknown segments
// contribute nothing; callers pass paths that came from this network.
func (n *Network) PathLength(nodes []string) float64 {
	var total int64
	for i := 0; i+1 < len(nodes); i++ {
		total += n.weights[edgeKey(nodes[i], nodes[i+1])]
	}
	return float64(total)
}

// NearestNode snaps a coordinate to the closest network node. Ties break
// toward the lexicographically smallest id.
func (n *Network) NearestNode(lat, lon float64) string {
	best := ""
	bestDist := math.MaxFloat64
	for _, id := range n.nodes {
		p := n.pos[id]
		d := haversine(lat, lon, p.Lat, p.Lon)
		if d < bestDist {
			best = id
			bestDist = d
		}
	}
	return best
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371000.0
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}
