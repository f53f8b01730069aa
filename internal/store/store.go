package store

import (
	"context"
	"errors"

	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/model"
)

// Store is the persistence interface used by the API server.
type Store interface {
	// Scenarios
	CreateScenario(ctx context.Context, sc model.Scenario) (model.Scenario, error)
	GetScenario(ctx context.Context, id string) (model.Scenario, error)

	// Runs
	SaveRun(ctx context.Context, run model.Run) (model.Run, error)
	GetRun(ctx context.Context, id string) (model.Run, error)
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)
}

var ErrNotFound = errors.New("not found")
