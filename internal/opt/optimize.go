// Package opt wires the QUBO builder, the annealing strategies, and the
// decoder into one synchronous optimization call.
package opt

import (
	"context"
	"fmt"
	"time"

	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/anneal"
	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/metrics"
	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/model"
	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/qubo"
)

// Options selects the strategy and its tuning for one call.
type Options struct {
	Strategy  anneal.Strategy
	Penalties qubo.Penalties

	// Local is used by StrategyLocal; nil gets a default annealer. Seed is
	// taken from the annealer itself.
	Local *anneal.Local

	// Remote is used by StrategyRemote; leaving it nil makes the remote
	// strategy fail with anneal.ErrUnavailable.
	Remote *anneal.Remote
}

// Diagnostics reports what one optimization call did, for callers that log
// or persist run history.
type Diagnostics struct {
	Strategy   string
	Variables  int
	BestEnergy float64
	Repaired   []string
	Infeasible []string
	BuildMs    int64
	SolveMs    int64
}

// Optimize builds the model from the vehicle set, solves it, and decodes the
// winning assignment into one route per vehicle. It is a pure function of
// its inputs: nothing survives the call.
func Optimize(ctx context.Context, vehicles []model.Vehicle, o Options) (map[string][]string, Diagnostics, error) {
	start := time.Now()
	m, vm, err := qubo.Build(vehicles, o.Penalties)
	if err != nil {
		return nil, Diagnostics{}, err
	}
	metrics.QuboBuildSeconds.Observe(time.Since(start).Seconds())

	routes, diag, err := Solve(ctx, m, vm, vehicles, o)
	if err != nil {
		return nil, diag, err
	}
	diag.BuildMs = time.Since(start).Milliseconds() - diag.SolveMs
	return routes, diag, nil
}

// Solve runs the selected strategy against an already-built model and
// decodes the result. The model and variable map are only read.
func Solve(ctx context.Context, m *qubo.Model, vm *qubo.VarMap, vehicles []model.Vehicle, o Options) (map[string][]string, Diagnostics, error) {
	sampler, err := samplerFor(o)
	if err != nil {
		return nil, Diagnostics{Strategy: o.Strategy.String()}, err
	}

	solveStart := time.Now()
	sample, err := sampler.Sample(ctx, m, vm)
	elapsed := time.Since(solveStart)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.SolveSeconds.WithLabelValues(o.Strategy.String(), status).Observe(elapsed.Seconds())
	if err != nil {
		return nil, Diagnostics{Strategy: o.Strategy.String(), SolveMs: elapsed.Milliseconds()}, err
	}

	res := qubo.Decode(sample.Assignment, vm, vehicles, o.Penalties)
	metrics.RepairsTotal.Add(float64(len(res.Repaired)))
	metrics.InfeasibleTotal.Add(float64(len(res.Infeasible)))
	metrics.LastEnergy.WithLabelValues(o.Strategy.String()).Set(sample.Energy)

	diag := Diagnostics{
		Strategy:   o.Strategy.String(),
		Variables:  vm.Len(),
		BestEnergy: sample.Energy,
		Repaired:   res.Repaired,
		Infeasible: res.Infeasible,
		SolveMs:    elapsed.Milliseconds(),
	}
	return res.Routes, diag, nil
}

func samplerFor(o Options) (anneal.Sampler, error) {
	switch o.Strategy {
	case anneal.StrategyLocal:
		if o.Local != nil {
			return o.Local, nil
		}
		return anneal.NewLocal(0), nil
	case anneal.StrategyRemote:
		if o.Remote == nil {
			return nil, fmt.Errorf("%w: remote strategy not configured", anneal.ErrUnavailable)
		}
		return o.Remote, nil
	}
	return nil, fmt.Errorf("%w: %d", anneal.ErrUnknownStrategy, o.Strategy)
}
