package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/model"
)

// Memory is the in-process store used for tests and when DATABASE_URL is not
// set.
type Memory struct {
	mu        sync.RWMutex
	scenarios map[string]model.Scenario
	runs      map[string]model.Run
}

func NewMemory() *Memory {
	return &Memory{
		scenarios: map[string]model.Scenario{},
		runs:      map[string]model.Run{},
	}
}

func (m *Memory) CreateScenario(ctx context.Context, sc model.Scenario) (model.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sc.ID == "" {
		sc.ID = "scn_" + uuid.NewString()
	}
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = time.Now().UTC()
	}
	m.scenarios[sc.ID] = sc
	return sc, nil
}

func (m *Memory) GetScenario(ctx context.Context, id string) (model.Scenario, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sc, ok := m.scenarios[id]
	if !ok {
		return model.Scenario{}, ErrNotFound
	}
	return sc, nil
}

func (m *Memory) SaveRun(ctx context.Context, run model.Run) (model.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run.ID == "" {
		run.ID = "run_" + uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	m.runs[run.ID] = run
	return run, nil
}

func (m *Memory) GetRun(ctx context.Context, id string) (model.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[id]
	if !ok {
		return model.Run{}, ErrNotFound
	}
	return run, nil
}

// ListRuns returns the most recent runs first.
func (m *Memory) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Run, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.After(out[b].CreatedAt)
		}
		return out[a].ID < out[b].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
