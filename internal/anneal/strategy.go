// Package anneal provides the two interchangeable solving strategies for a
// binary quadratic model: an in-process simulated annealer and an adapter to
// a remote hybrid annealing service. Both return a normalized Sample (a full
// 0/1 assignment plus its energy); decoding variables back into routes is the
// caller's concern.
package anneal

import (
	"context"
	"errors"
	"fmt"

	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/qubo"
)

// Strategy selects the solving backend.
type Strategy int

const (
	StrategyLocal Strategy = iota
	StrategyRemote
)

func (s Strategy) String() string {
	switch s {
	case StrategyLocal:
		return "local"
	case StrategyRemote:
		return "remote"
	}
	return "unknown"
}

var (
	// ErrInvalidModel means the model references variables the variable map
	// does not know. Programming-error class: fatal to the call, not retried.
	ErrInvalidModel = errors.New("anneal: model references unknown variables")

	// ErrUnavailable means the remote strategy failed (network, timeout, or
	// malformed response). Recoverable: callers may retry with StrategyLocal.
	ErrUnavailable = errors.New("anneal: remote solver unavailable")

	// ErrUnknownStrategy is returned for strategy selectors outside the enum.
	ErrUnknownStrategy = errors.New("anneal: unknown strategy")
)

// ParseStrategy maps the wire selector onto the enum.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "local", "sa":
		return StrategyLocal, nil
	case "remote", "hybrid":
		return StrategyRemote, nil
	}
	return StrategyLocal, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Sample is the normalized result of one solve: a complete variable
// assignment and the energy of that assignment (offset included).
type Sample struct {
	Assignment map[string]int
	Energy     float64
}

// Sampler is the capability interface both strategies implement.
type Sampler interface {
	Sample(ctx context.Context, m *qubo.Model, vm *qubo.VarMap) (Sample, error)
}

// validateModel rejects models referencing variables outside the map.
func validateModel(m *qubo.Model, vm *qubo.VarMap) error {
	for _, v := range m.Variables() {
		if !vm.Contains(v) {
			return fmt.Errorf("%w: %s", ErrInvalidModel, v)
		}
	}
	return nil
}
