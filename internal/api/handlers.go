package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/anneal"
	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/model"
	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/opt"
	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/qubo"
	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/store"
	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/traffic"
)

// ScenarioHandler handles POST /v1/scenario: generate a vehicle population on
// the network and persist it.
func (s *Server) ScenarioHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.ScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	params := model.ScenarioParams{}
	if req.Params != nil {
		params = *req.Params
	}
	if params.Preset == "" {
		params.Preset = req.Preset
	}
	params = traffic.Preset(params)

	vehicles, err := traffic.BuildScenario(s.Net, params)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Scenario generation failed", err.Error(), r.URL.Path)
		return
	}
	sc, err := s.Store.CreateScenario(r.Context(), model.Scenario{Params: params, Vehicles: vehicles})
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Save scenario failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusCreated, sc)
}

// OptimizeHandler handles POST /v1/optimize: assign one route per vehicle,
// optionally including a user leg, and persist the run.
func (s *Server) OptimizeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	strategy, err := anneal.ParseStrategy(req.Strategy)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid strategy", err.Error(), r.URL.Path)
		return
	}

	vehicles := req.Vehicles
	if req.ScenarioID != "" {
		sc, err := s.Store.GetScenario(r.Context(), req.ScenarioID)
		if errors.Is(err, store.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Scenario not found", req.ScenarioID, r.URL.Path)
			return
		}
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Load scenario failed", err.Error(), r.URL.Path)
			return
		}
		vehicles = append(append([]model.Vehicle{}, sc.Vehicles...), vehicles...)
	}
	// scenario, inline, and user vehicles share one id space
	ids := make(map[string]struct{}, len(vehicles)+1)
	for i := range vehicles {
		if err := vehicles[i].Validate(); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid vehicle", err.Error(), r.URL.Path)
			return
		}
		if _, dup := ids[vehicles[i].ID]; dup {
			writeProblem(w, http.StatusBadRequest, "Duplicate vehicle id", vehicles[i].ID, r.URL.Path)
			return
		}
		ids[vehicles[i].ID] = struct{}{}
	}

	var userBaseline []string
	if req.User != nil {
		uv, err := traffic.UserVehicle(s.Net, *req.User)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid user leg", err.Error(), r.URL.Path)
			return
		}
		if _, dup := ids[uv.ID]; dup {
			writeProblem(w, http.StatusBadRequest, "Duplicate vehicle id", uv.ID, r.URL.Path)
			return
		}
		userBaseline = uv.Baseline()
		vehicles = append(vehicles, uv)
	}

	// clients may pick the run id up front so they can open the event
	// stream before submitting the run
	runID := req.RunID
	if runID == "" {
		runID = "run_" + uuid.NewString()
	}
	seed := req.Seed
	if seed == 0 {
		seed = s.Cfg.Anneal.Seed
	}
	local := &anneal.Local{
		Reads:  s.Cfg.Anneal.Reads,
		Sweeps: s.Cfg.Anneal.Sweeps,
		Seed:   seed,
		Progress: func(read int, energy float64) {
			s.Broker.Publish(runID, Event{Type: "anneal.progress", Data: map[string]any{
				"runId": runID, "read": read, "energy": energy,
			}})
		},
	}
	options := opt.Options{
		Strategy:  strategy,
		Penalties: s.penalties(),
		Local:     local,
		Remote:    s.Remote,
	}

	start := time.Now()
	routes, diag, err := opt.Optimize(r.Context(), vehicles, options)
	fallback := false
	if err != nil && strategy == anneal.StrategyRemote && errors.Is(err, anneal.ErrUnavailable) && !req.NoFallback {
		fallback = true
		options.Strategy = anneal.StrategyLocal
		routes, diag, err = opt.Optimize(r.Context(), vehicles, options)
	}
	if err != nil {
		switch {
		case errors.Is(err, qubo.ErrEmptyProblem):
			writeProblem(w, http.StatusBadRequest, "Empty problem", err.Error(), r.URL.Path)
		case errors.Is(err, qubo.ErrDuplicateVehicle):
			writeProblem(w, http.StatusBadRequest, "Duplicate vehicle id", err.Error(), r.URL.Path)
		case errors.Is(err, anneal.ErrUnavailable):
			writeProblem(w, http.StatusServiceUnavailable, "Solver unavailable", err.Error(), r.URL.Path)
		default:
			writeProblem(w, http.StatusInternalServerError, "Optimization failed", err.Error(), r.URL.Path)
		}
		return
	}
	elapsed := time.Since(start).Milliseconds()

	run := model.Run{
		ID:         runID,
		ScenarioID: req.ScenarioID,
		Strategy:   diag.Strategy,
		Seed:       seed,
		Routes:     routes,
		Infeasible: diag.Infeasible,
		Repaired:   diag.Repaired,
		BestEnergy: diag.BestEnergy,
		Fallback:   fallback,
		DurationMs: elapsed,
	}
	run, err = s.Store.SaveRun(r.Context(), run)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Save run failed", err.Error(), r.URL.Path)
		return
	}
	s.Broker.Publish(runID, Event{Type: "run.completed", Data: map[string]any{
		"runId": runID, "strategy": run.Strategy, "bestEnergy": run.BestEnergy, "fallback": fallback,
	}})

	writeJSON(w, http.StatusOK, model.OptimizeResponse{
		RunID:      run.ID,
		Routes:     run.Routes,
		Infeasible: run.Infeasible,
		Repaired:   run.Repaired,
		BestEnergy: run.BestEnergy,
		Strategy:   run.Strategy,
		Fallback:   fallback,
		UserRoute:  run.Routes["veh_user"],
		UserBase:   userBaseline,
		DurationMs: run.DurationMs,
	})
}

// RunsHandler handles GET /v1/runs
func (s *Server) RunsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}
	runs, err := s.Store.ListRuns(r.Context(), limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List runs failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": runs})
}

// RunByIDHandler handles GET /v1/runs/{id} and the websocket event stream at
// /v1/runs/{id}/events/ws.
func (s *Server) RunByIDHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/runs/")
	if id, ok := strings.CutSuffix(rest, "/events/ws"); ok {
		s.runEventsWS(w, r, id)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	run, err := s.Store.GetRun(r.Context(), rest)
	if errors.Is(err, store.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Run not found", rest, r.URL.Path)
		return
	}
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Load run failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// HealthzHandler reports liveness.
func (s *Server) HealthzHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyzHandler reports readiness; the network is built at startup so a
// responding server is a ready server.
func (s *Server) ReadyzHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
