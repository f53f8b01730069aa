package model

import (
	"errors"
	"fmt"
	"time"
)

// VehicleKind is the closed set of vehicle categories.
type VehicleKind string

const (
	KindRegular   VehicleKind = "regular"
	KindEmergency VehicleKind = "emergency"
	KindUser      VehicleKind = "user"
)

var ErrInvalidVehicle = errors.New("invalid vehicle")

// CandidateRoute is one precomputed alternative path between a vehicle's
// origin and destination. Nodes is an ordered node-id sequence; LengthM is
// the physical length (sum of edge weights) in meters.
type CandidateRoute struct {
	Nodes   []string `json:"nodes"`
	LengthM float64  `json:"lengthM"`
}

// Vehicle is a participant in one optimization call. Candidates may be empty:
// such a vehicle is excluded from the optimization and reported infeasible by
// the decoder, never rejected up front.
type Vehicle struct {
	ID             string           `json:"id"`
	Origin         string           `json:"origin"`
	Destination    string           `json:"destination"`
	Kind           VehicleKind      `json:"kind"`
	PriorityWeight float64          `json:"priorityWeight"`
	Candidates     []CandidateRoute `json:"candidateRoutes"`
}

// Validate checks the construction-time invariants: non-empty id, closed kind
// set, strictly positive priority weight.
func (v *Vehicle) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidVehicle)
	}
	switch v.Kind {
	case KindRegular, KindEmergency, KindUser:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidVehicle, v.Kind)
	}
	if v.PriorityWeight <= 0 {
		return fmt.Errorf("%w: priority weight must be positive, got %v", ErrInvalidVehicle, v.PriorityWeight)
	}
	return nil
}

// Baseline returns the provider-preferred route (candidate 0), or nil when
// the vehicle has no candidates.
func (v *Vehicle) Baseline() []string {
	if len(v.Candidates) == 0 {
		return nil
	}
	return v.Candidates[0].Nodes
}

// Scenario is a generated traffic situation: the network parameters plus the
// vehicle population riding on it.
type Scenario struct {
	ID        string         `json:"id"`
	Params    ScenarioParams `json:"params"`
	Vehicles  []Vehicle      `json:"vehicles"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ScenarioParams controls network and traffic generation.
type ScenarioParams struct {
	Preset            string  `json:"preset,omitempty"`
	Rows              int     `json:"rows,omitempty"`
	Cols              int     `json:"cols,omitempty"`
	SpacingM          int64   `json:"spacingM,omitempty"`
	Vehicles          int     `json:"vehicles,omitempty"`
	EmergencyRatio    float64 `json:"emergencyRatio,omitempty"`
	Candidates        int     `json:"candidates,omitempty"`
	EmergencyPriority float64 `json:"emergencyPriority,omitempty"`
	Seed              int64   `json:"seed,omitempty"`
}

// Run records one completed optimization call.
type Run struct {
	ID         string              `json:"id"`
	ScenarioID string              `json:"scenarioId,omitempty"`
	Strategy   string              `json:"strategy"`
	Seed       int64               `json:"seed,omitempty"`
	Routes     map[string][]string `json:"routes"`
	Infeasible []string            `json:"infeasible,omitempty"`
	Repaired   []string            `json:"repaired,omitempty"`
	BestEnergy float64             `json:"bestEnergy"`
	Fallback   bool                `json:"fallback,omitempty"`
	DurationMs int64               `json:"durationMs"`
	CreatedAt  time.Time           `json:"createdAt"`
}

// API request/response types.

type ScenarioRequest struct {
	Preset string          `json:"preset,omitempty"`
	Params *ScenarioParams `json:"params,omitempty"`
}

// UserLeg is the optional user-entered start/destination, snapped to the
// nearest network nodes before optimization.
type UserLeg struct {
	StartLat float64 `json:"startLat"`
	StartLon float64 `json:"startLon"`
	EndLat   float64 `json:"endLat"`
	EndLon   float64 `json:"endLon"`
}

type OptimizeRequest struct {
	ScenarioID string    `json:"scenarioId,omitempty"`
	Vehicles   []Vehicle `json:"vehicles,omitempty"`
	Strategy   string    `json:"strategy,omitempty"`
	Seed       int64     `json:"seed,omitempty"`
	User       *UserLeg  `json:"user,omitempty"`
	NoFallback bool      `json:"noFallback,omitempty"`

	// RunID, when set, names the run before it executes so clients can
	// subscribe to its event stream first. Empty gets a generated id.
	RunID string `json:"runId,omitempty"`
}

type OptimizeResponse struct {
	RunID      string              `json:"runId"`
	Routes     map[string][]string `json:"routes"`
	Infeasible []string            `json:"infeasible,omitempty"`
	Repaired   []string            `json:"repaired,omitempty"`
	BestEnergy float64             `json:"bestEnergy"`
	Strategy   string              `json:"strategy"`
	Fallback   bool                `json:"fallback,omitempty"`
	UserRoute  []string            `json:"userRoute,omitempty"`
	UserBase   []string            `json:"userBaseline,omitempty"`
	DurationMs int64               `json:"durationMs"`
}
