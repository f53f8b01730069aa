package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/model"
)

func TestMemoryScenarioRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	sc, err := m.CreateScenario(ctx, model.Scenario{Params: model.ScenarioParams{Preset: "noon"}})
	if err != nil {
		t.Fatalf("CreateScenario: %v", err)
	}
	if sc.ID == "" || sc.CreatedAt.IsZero() {
		t.Fatalf("id/createdAt not filled: %+v", sc)
	}
	got, err := m.GetScenario(ctx, sc.ID)
	if err != nil {
		t.Fatalf("GetScenario: %v", err)
	}
	if got.Params.Preset != "noon" {
		t.Fatalf("roundtrip: %+v", got)
	}
	if _, err := m.GetScenario(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRuns(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		_, err := m.SaveRun(ctx, model.Run{
			ID:        string(rune('a' + i)),
			Strategy:  "local",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	runs, err := m.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("limit not applied: %d", len(runs))
	}
	// newest first
	if runs[0].ID != "c" || runs[1].ID != "b" {
		t.Fatalf("ordering: %s, %s", runs[0].ID, runs[1].ID)
	}

	got, err := m.GetRun(ctx, "a")
	if err != nil || got.Strategy != "local" {
		t.Fatalf("GetRun: %+v, %v", got, err)
	}
	if _, err := m.GetRun(ctx, "zz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRunIDAssigned(t *testing.T) {
	m := NewMemory()
	run, err := m.SaveRun(context.Background(), model.Run{Strategy: "local"})
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if run.ID == "" {
		t.Fatalf("expected generated id")
	}
}
