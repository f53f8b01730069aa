package qubo

import (
	"errors"
	"math"
	"testing"

	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/model"
)

func testPenalties() Penalties {
	return Penalties{CostWeight: 1, ConflictWeight: 4, OneHotScale: 2}
}

// corridorVehicles is a two-vehicle fixture: an ambulance whose short route
// shares the segment m1-m2 with a regular car's short route. The ambulance's
// only alternative is a long detour; the car's alternative is barely longer.
func corridorVehicles() []model.Vehicle {
	return []model.Vehicle{
		{ID: "amb", Kind: model.KindEmergency, PriorityWeight: 10, Candidates: []model.CandidateRoute{
			{Nodes: []string{"a", "m1", "m2", "b"}, LengthM: 100},
			{Nodes: []string{"a", "x", "b"}, LengthM: 400},
		}},
		{ID: "car", Kind: model.KindRegular, PriorityWeight: 1, Candidates: []model.CandidateRoute{
			{Nodes: []string{"c", "m1", "m2", "d"}, LengthM: 100},
			{Nodes: []string{"c", "y", "d"}, LengthM: 120},
		}},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildEmpty(t *testing.T) {
	_, _, err := Build(nil, testPenalties())
	if !errors.Is(err, ErrEmptyProblem) {
		t.Fatalf("expected ErrEmptyProblem, got %v", err)
	}
}

func TestBuildDuplicateVehicleID(t *testing.T) {
	vehicles := []model.Vehicle{
		{ID: "veh_1", Kind: model.KindRegular, PriorityWeight: 1, Candidates: []model.CandidateRoute{
			{Nodes: []string{"a", "b"}, LengthM: 10},
			{Nodes: []string{"a", "c", "b"}, LengthM: 20},
		}},
		{ID: "veh_1", Kind: model.KindEmergency, PriorityWeight: 10, Candidates: []model.CandidateRoute{
			{Nodes: []string{"d", "e"}, LengthM: 30},
			{Nodes: []string{"d", "f", "e"}, LengthM: 40},
		}},
	}
	_, _, err := Build(vehicles, testPenalties())
	if !errors.Is(err, ErrDuplicateVehicle) {
		t.Fatalf("expected ErrDuplicateVehicle, got %v", err)
	}
}

func TestBuildSingleVehicleBiases(t *testing.T) {
	vehicles := []model.Vehicle{
		{ID: "v1", Kind: model.KindRegular, PriorityWeight: 2, Candidates: []model.CandidateRoute{
			{Nodes: []string{"a", "b"}, LengthM: 100},
			{Nodes: []string{"a", "c", "b"}, LengthM: 200},
		}},
	}
	m, vm, err := Build(vehicles, testPenalties())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if vm.Len() != 2 {
		t.Fatalf("expected 2 variables, got %d", vm.Len())
	}
	// cost biases are length/weight: 50 and 100; no conflicts, so
	// P = OneHotScale * maxCost = 2*100 = 200
	if got := m.Linear["x_v1_0"]; !almostEqual(got, 50-200) {
		t.Fatalf("linear x_v1_0: got %v, want -150", got)
	}
	if got := m.Linear["x_v1_1"]; !almostEqual(got, 100-200) {
		t.Fatalf("linear x_v1_1: got %v, want -100", got)
	}
	if got := m.Quadratic[makePair("x_v1_0", "x_v1_1")]; !almostEqual(got, 400) {
		t.Fatalf("one-hot pair bias: got %v, want 400", got)
	}
	if !almostEqual(m.Offset, 200) {
		t.Fatalf("offset: got %v, want 200", m.Offset)
	}
}

func TestBuildConflictCrossVehicleOnly(t *testing.T) {
	m, _, err := Build(corridorVehicles(), testPenalties())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// the shared segment m1-m2 couples amb candidate 0 with car candidate 0
	// at Q * w_amb * w_car = 4*10*1 = 40
	if got := m.Quadratic[makePair("x_amb_0", "x_car_0")]; !almostEqual(got, 40) {
		t.Fatalf("conflict bias: got %v, want 40", got)
	}
	// no cross-vehicle coupling between routes that share nothing
	if got := m.Quadratic[makePair("x_amb_1", "x_car_1")]; got != 0 {
		t.Fatalf("unexpected coupling between disjoint routes: %v", got)
	}
}

func TestBuildOneHotDominates(t *testing.T) {
	m, _, err := Build(corridorVehicles(), testPenalties())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// selecting both of a vehicle's candidates must always cost more than
	// any valid assignment
	both := map[string]int{"x_amb_0": 1, "x_amb_1": 1, "x_car_0": 0, "x_car_1": 1}
	valid := map[string]int{"x_amb_1": 1, "x_car_0": 1}
	if m.Energy(both) <= m.Energy(valid) {
		t.Fatalf("one-hot violation not penalized: both=%v valid=%v", m.Energy(both), m.Energy(valid))
	}
	none := map[string]int{"x_car_0": 1}
	if m.Energy(none) <= m.Energy(valid) {
		t.Fatalf("empty selection not penalized: none=%v valid=%v", m.Energy(none), m.Energy(valid))
	}
}

func TestBuildZeroCandidateVehicle(t *testing.T) {
	vehicles := []model.Vehicle{
		{ID: "stuck", Kind: model.KindRegular, PriorityWeight: 1},
		{ID: "v1", Kind: model.KindRegular, PriorityWeight: 1, Candidates: []model.CandidateRoute{
			{Nodes: []string{"a", "b"}, LengthM: 10},
		}},
	}
	m, vm, err := Build(vehicles, testPenalties())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := vm.VehicleVars("stuck"); len(got) != 0 {
		t.Fatalf("zero-candidate vehicle should have no variables, got %v", got)
	}
	if vm.Len() != 1 {
		t.Fatalf("expected 1 variable, got %d", vm.Len())
	}
	for _, v := range m.Variables() {
		if ref, _ := vm.Resolve(v); ref.VehicleID == "stuck" {
			t.Fatalf("model references zero-candidate vehicle via %s", v)
		}
	}
}

// TestCorridorGroundState checks the green-corridor property on the fixture:
// the lowest-energy valid assignment keeps the ambulance on its short route
// and moves the car to its slightly longer alternative.
func TestCorridorGroundState(t *testing.T) {
	m, _, err := Build(corridorVehicles(), testPenalties())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	energies := map[string]float64{
		"a0b0": m.Energy(map[string]int{"x_amb_0": 1, "x_car_0": 1}),
		"a0b1": m.Energy(map[string]int{"x_amb_0": 1, "x_car_1": 1}),
		"a1b0": m.Energy(map[string]int{"x_amb_1": 1, "x_car_0": 1}),
		"a1b1": m.Energy(map[string]int{"x_amb_1": 1, "x_car_1": 1}),
	}
	want := map[string]float64{"a0b0": 150, "a0b1": 130, "a1b0": 140, "a1b1": 160}
	for k, w := range want {
		if !almostEqual(energies[k], w) {
			t.Fatalf("energy %s: got %v, want %v", k, energies[k], w)
		}
	}
	for k, e := range energies {
		if k != "a0b1" && e <= energies["a0b1"] {
			t.Fatalf("ground state should be a0b1, but %s has energy %v", k, e)
		}
	}
}

func TestRouteSegmentsDedup(t *testing.T) {
	segs := routeSegments([]string{"a", "b", "a", "b"})
	if len(segs) != 1 || segs[0] != "a|b" {
		t.Fatalf("expected deduplicated [a|b], got %v", segs)
	}
	if got := routeSegments([]string{"only"}); got != nil {
		t.Fatalf("single node route has no segments, got %v", got)
	}
}
