package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/model"
)

// Postgres persists scenarios and runs as JSONB documents keyed by id.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	p := &Postgres{db: db}
	if err := p.migrate(context.Background()); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Postgres) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scenarios (
			id TEXT PRIMARY KEY,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			scenario_id TEXT,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS runs_created_at_idx ON runs (created_at DESC)`,
	}
	for _, s := range stmts {
		if _, err := p.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

func (p *Postgres) CreateScenario(ctx context.Context, sc model.Scenario) (model.Scenario, error) {
	if sc.ID == "" {
		sc.ID = "scn_" + uuid.NewString()
	}
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(sc)
	if err != nil {
		return model.Scenario{}, err
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO scenarios (id, payload, created_at) VALUES ($1, $2, $3)`,
		sc.ID, payload, sc.CreatedAt)
	if err != nil {
		return model.Scenario{}, err
	}
	return sc, nil
}

func (p *Postgres) GetScenario(ctx context.Context, id string) (model.Scenario, error) {
	var payload []byte
	err := p.db.QueryRowContext(ctx, `SELECT payload FROM scenarios WHERE id=$1`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Scenario{}, ErrNotFound
	}
	if err != nil {
		return model.Scenario{}, err
	}
	var sc model.Scenario
	if err := json.Unmarshal(payload, &sc); err != nil {
		return model.Scenario{}, err
	}
	return sc, nil
}

func (p *Postgres) SaveRun(ctx context.Context, run model.Run) (model.Run, error) {
	if run.ID == "" {
		run.ID = "run_" + uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(run)
	if err != nil {
		return model.Run{}, err
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO runs (id, scenario_id, payload, created_at) VALUES ($1, $2, $3, $4)`,
		run.ID, run.ScenarioID, payload, run.CreatedAt)
	if err != nil {
		return model.Run{}, err
	}
	return run, nil
}

func (p *Postgres) GetRun(ctx context.Context, id string) (model.Run, error) {
	var payload []byte
	err := p.db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE id=$1`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Run{}, ErrNotFound
	}
	if err != nil {
		return model.Run{}, err
	}
	var run model.Run
	if err := json.Unmarshal(payload, &run); err != nil {
		return model.Run{}, err
	}
	return run, nil
}

func (p *Postgres) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT payload FROM runs ORDER BY created_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Run{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var run model.Run
		if err := json.Unmarshal(payload, &run); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
