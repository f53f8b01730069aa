package qubo

import "sort"

// Pair is an unordered variable pair, stored normalized (U < V).
type Pair struct {
	U, V string
}

func makePair(a, b string) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{U: a, V: b}
}

// Model is a binary quadratic model: an energy function over 0/1 variables
// with linear and pairwise-quadratic biases plus a constant offset. Biases
// accumulate additively; nothing ever overwrites a prior contribution.
type Model struct {
	Linear    map[string]float64
	Quadratic map[Pair]float64
	Offset    float64
}

func NewModel() *Model {
	return &Model{
		Linear:    map[string]float64{},
		Quadratic: map[Pair]float64{},
	}
}

// AddLinear accumulates bias onto variable v.
func (m *Model) AddLinear(v string, bias float64) {
	m.Linear[v] += bias
}

// AddQuadratic accumulates bias onto the unordered pair (a, b).
func (m *Model) AddQuadratic(a, b string, bias float64) {
	m.Quadratic[makePair(a, b)] += bias
}

// Variables returns every variable touched by the model, sorted.
func (m *Model) Variables() []string {
	seen := make(map[string]struct{}, len(m.Linear))
	for v := range m.Linear {
		seen[v] = struct{}{}
	}
	for p := range m.Quadratic {
		seen[p.U] = struct{}{}
		seen[p.V] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Energy evaluates the model at the given 0/1 assignment. Variables absent
// from the assignment are treated as 0.
func (m *Model) Energy(assign map[string]int) float64 {
	e := m.Offset
	for v, bias := range m.Linear {
		if assign[v] == 1 {
			e += bias
		}
	}
	for p, bias := range m.Quadratic {
		if assign[p.U] == 1 && assign[p.V] == 1 {
			e += bias
		}
	}
	return e
}
