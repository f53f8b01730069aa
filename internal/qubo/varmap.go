package qubo

import "fmt"

// VarRef identifies the (vehicle, candidate index) pair behind a variable.
type VarRef struct {
	VehicleID string
	Candidate int
}

// VarMap is the bidirectional mapping between opaque variable identifiers and
// (vehicle id, candidate index) pairs. It is built once per optimization run
// and treated as immutable afterwards; the allocation order (vehicle id
// ascending, candidate index ascending) is the deterministic tie-break used
// by decoding.
type VarMap struct {
	byVar     map[string]VarRef
	byVehicle map[string][]string
	order     []string
}

func newVarMap() *VarMap {
	return &VarMap{
		byVar:     map[string]VarRef{},
		byVehicle: map[string][]string{},
	}
}

func varName(vehicleID string, candidate int) string {
	return fmt.Sprintf("x_%s_%d", vehicleID, candidate)
}

// add registers one vehicle, allocating one variable per candidate. Vehicles
// with zero candidates get an entry with no variables so the decoder can
// report them infeasible.
func (vm *VarMap) add(vehicleID string, candidates int) {
	vars := make([]string, 0, candidates)
	for c := 0; c < candidates; c++ {
		id := varName(vehicleID, c)
		vm.byVar[id] = VarRef{VehicleID: vehicleID, Candidate: c}
		vars = append(vars, id)
		vm.order = append(vm.order, id)
	}
	vm.byVehicle[vehicleID] = vars
}

// Resolve maps a variable identifier back to its (vehicle, candidate) pair.
func (vm *VarMap) Resolve(id string) (VarRef, bool) {
	ref, ok := vm.byVar[id]
	return ref, ok
}

// Contains reports whether the variable identifier belongs to this map.
func (vm *VarMap) Contains(id string) bool {
	_, ok := vm.byVar[id]
	return ok
}

// VehicleVars returns the variable identifiers for one vehicle, ordered by
// candidate index. Empty for zero-candidate vehicles, nil for unknown ids.
func (vm *VarMap) VehicleVars(vehicleID string) []string {
	return vm.byVehicle[vehicleID]
}

// Order returns all variable identifiers in allocation order.
func (vm *VarMap) Order() []string {
	return vm.order
}

// Len returns the number of allocated variables.
func (vm *VarMap) Len() int {
	return len(vm.order)
}
