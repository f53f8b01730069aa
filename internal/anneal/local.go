package anneal

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/qubo"
)

// Local runs simulated annealing in-process. Reads are independent restarts
// executed concurrently; each owns its bit vector and random stream, and only
// the final energy comparison synchronizes. With a fixed Seed the result is
// identical across runs; Seed 0 draws a fresh seed per call.
type Local struct {
	Reads     int
	Sweeps    int
	TempStart float64
	TempEnd   float64
	Seed      int64

	// Progress, when set, is invoked once per finished read with the read
	// index and the best energy that read observed. Callers use it to stream
	// solver progress; it may be invoked from multiple goroutines.
	Progress func(read int, energy float64)
}

// NewLocal returns an annealer with the default schedule.
func NewLocal(seed int64) *Local {
	return &Local{Reads: 16, Sweeps: 600, Seed: seed}
}

func (l *Local) reads() int {
	if l.Reads > 0 {
		return l.Reads
	}
	return 16
}

func (l *Local) sweeps() int {
	if l.Sweeps > 0 {
		return l.Sweeps
	}
	return 600
}

type coupling struct {
	other int
	bias  float64
}

type readResult struct {
	assign map[string]int
	energy float64
}

// Sample anneals the model and returns the lowest-energy assignment observed
// across all reads. Ties between reads break toward the lower read index so
// the outcome stays deterministic for a fixed seed.
func (l *Local) Sample(ctx context.Context, m *qubo.Model, vm *qubo.VarMap) (Sample, error) {
	if err := validateModel(m, vm); err != nil {
		return Sample{}, err
	}

	vars := vm.Order()
	n := len(vars)
	if n == 0 {
		return Sample{Assignment: map[string]int{}, Energy: m.Offset}, nil
	}

	// dense views for the inner loop
	index := make(map[string]int, n)
	for i, v := range vars {
		index[v] = i
	}
	linear := make([]float64, n)
	for v, bias := range m.Linear {
		linear[index[v]] += bias
	}
	adj := make([][]coupling, n)
	for p, bias := range m.Quadratic {
		i, j := index[p.U], index[p.V]
		adj[i] = append(adj[i], coupling{other: j, bias: bias})
		adj[j] = append(adj[j], coupling{other: i, bias: bias})
	}

	// temperature schedule: default spans the largest single-flip move so
	// early sweeps roam and late sweeps settle
	t0, tEnd := l.TempStart, l.TempEnd
	if t0 <= 0 {
		maxAbs := 0.0
		for i := range linear {
			a := math.Abs(linear[i])
			for _, c := range adj[i] {
				a += math.Abs(c.bias)
			}
			if a > maxAbs {
				maxAbs = a
			}
		}
		if maxAbs == 0 {
			maxAbs = 1
		}
		t0 = maxAbs
	}
	if tEnd <= 0 || tEnd >= t0 {
		tEnd = t0 / 1e4
	}

	seed := l.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	reads := l.reads()
	sweeps := l.sweeps()
	results := make([]readResult, reads)
	var wg sync.WaitGroup
	for r := 0; r < reads; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed + int64(r)*7919))
			results[r] = annealRead(ctx, rng, vars, linear, adj, m.Offset, t0, tEnd, sweeps)
			if l.Progress != nil {
				l.Progress(r, results[r].energy)
			}
		}(r)
	}
	wg.Wait()

	best := 0
	for r := 1; r < reads; r++ {
		if results[r].energy < results[best].energy {
			best = r
		}
	}
	return Sample{Assignment: results[best].assign, Energy: results[best].energy}, nil
}

// annealRead runs one read: random start, geometric cooling, Metropolis
// acceptance. Cancellation via ctx stops early and keeps the best state seen.
func annealRead(ctx context.Context, rng *rand.Rand, vars []string, linear []float64, adj [][]coupling, offset, t0, tEnd float64, sweeps int) readResult {
	n := len(vars)
	state := make([]int, n)
	for i := range state {
		state[i] = rng.Intn(2)
	}
	energy := energyOf(state, linear, adj, offset)

	bestState := append([]int(nil), state...)
	bestEnergy := energy

	steps := sweeps - 1
	if steps < 1 {
		steps = 1
	}
	cool := math.Pow(tEnd/t0, 1/float64(steps))
	temp := t0
	for s := 0; s < sweeps; s++ {
		if ctx.Err() != nil {
			break
		}
		for i := 0; i < n; i++ {
			field := linear[i]
			for _, c := range adj[i] {
				field += c.bias * float64(state[c.other])
			}
			delta := float64(1-2*state[i]) * field
			if delta <= 0 || rng.Float64() < math.Exp(-delta/(temp+1e-12)) {
				state[i] = 1 - state[i]
				energy += delta
				if energy < bestEnergy {
					bestEnergy = energy
					copy(bestState, state)
				}
			}
		}
		temp *= cool
	}

	assign := make(map[string]int, n)
	for i, v := range vars {
		assign[v] = bestState[i]
	}
	return readResult{assign: assign, energy: bestEnergy}
}

func energyOf(state []int, linear []float64, adj [][]coupling, offset float64) float64 {
	e := offset
	for i, x := range state {
		if x == 0 {
			continue
		}
		e += linear[i]
		for _, c := range adj[i] {
			// each pair counted once
			if c.other > i && state[c.other] == 1 {
				e += c.bias
			}
		}
	}
	return e
}
