package qubo

import (
	"errors"
	"fmt"
	"sort"

	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/model"
)

// ErrEmptyProblem is returned when Build receives no vehicles at all.
var ErrEmptyProblem = errors.New("qubo: no vehicles supplied")

// ErrDuplicateVehicle is returned when two vehicles share an id. Allowing the
// duplicate would alias both vehicles' variables onto the same names and
// silently merge their cost and one-hot terms.
var ErrDuplicateVehicle = errors.New("qubo: duplicate vehicle id")

// Penalties holds the tunable constants of the encoding.
//
// The required ordering is P >> Q >> per-unit cost: the one-hot penalty P is
// derived per vehicle from OneHotScale so that violating exactly-one is
// always costlier than any cost saving or conflict the vehicle could realize;
// ConflictWeight (Q, applied per shared segment and scaled by the priority
// product) must in turn dominate typical per-route cost differences for the
// conflict term to reroute anyone.
type Penalties struct {
	// CostWeight scales the linear route-cost bias (per meter).
	CostWeight float64
	// ConflictWeight is Q: quadratic bias per shared road segment, multiplied
	// by both vehicles' priority weights.
	ConflictWeight float64
	// OneHotScale multiplies the per-vehicle bound on achievable cost and
	// conflict bias to obtain that vehicle's one-hot penalty P. Must be > 1.
	OneHotScale float64
}

// DefaultPenalties returns the tuning used by the service when the config
// does not override it. ConflictWeight is sized for route lengths in the
// hundreds-to-thousands of meters range.
func DefaultPenalties() Penalties {
	return Penalties{CostWeight: 1.0, ConflictWeight: 500, OneHotScale: 2.0}
}

func (p Penalties) withDefaults() Penalties {
	d := DefaultPenalties()
	if p.CostWeight <= 0 {
		p.CostWeight = d.CostWeight
	}
	if p.ConflictWeight <= 0 {
		p.ConflictWeight = d.ConflictWeight
	}
	if p.OneHotScale <= 1 {
		p.OneHotScale = d.OneHotScale
	}
	return p
}

// costBias is the linear bias for selecting candidate c of vehicle v:
// physical length scaled by CostWeight and divided by the priority weight, so
// high-priority vehicles see uniformly cheaper routes and the optimizer
// prefers rerouting low-priority traffic instead.
func costBias(pen Penalties, v *model.Vehicle, c *model.CandidateRoute) float64 {
	length := c.LengthM
	if length <= 0 {
		// fall back to hop count when the provider gave no length
		if n := len(c.Nodes); n > 1 {
			length = float64(n - 1)
		}
	}
	w := v.PriorityWeight
	if w <= 0 {
		w = 1
	}
	return pen.CostWeight * length / w
}

// segmentKey builds the unordered key for one road segment (adjacent node
// pair). Direction is ignored: opposing flows on the same segment conflict.
func segmentKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// routeSegments returns the distinct segment keys traversed by a route.
func routeSegments(nodes []string) []string {
	if len(nodes) < 2 {
		return nil
	}
	seen := make(map[string]struct{}, len(nodes)-1)
	out := make([]string, 0, len(nodes)-1)
	for i := 0; i+1 < len(nodes); i++ {
		k := segmentKey(nodes[i], nodes[i+1])
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

type segmentUser struct {
	varID     string
	vehicleID string
	weight    float64
}

// Build converts the vehicle set into a binary quadratic model plus the
// variable map. It fails when vehicles is empty or when two vehicles share an
// id; vehicles with zero candidates are kept in the variable map with no
// variables.
//
// Terms, in order: cost (linear), conflict (quadratic, cross-vehicle only),
// then the one-hot penalty expanded from P*(sum x - 1)^2 with a per-vehicle
// P strictly larger than everything that vehicle's variables can otherwise
// accumulate.
func Build(vehicles []model.Vehicle, pen Penalties) (*Model, *VarMap, error) {
	if len(vehicles) == 0 {
		return nil, nil, ErrEmptyProblem
	}
	pen = pen.withDefaults()

	ordered := make([]*model.Vehicle, len(vehicles))
	for i := range vehicles {
		ordered[i] = &vehicles[i]
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })
	for i := 1; i < len(ordered); i++ {
		if ordered[i].ID == ordered[i-1].ID {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateVehicle, ordered[i].ID)
		}
	}

	m := NewModel()
	vm := newVarMap()

	// 1. allocate variables in the stable (vehicle id, candidate index) order
	for _, v := range ordered {
		vm.add(v.ID, len(v.Candidates))
	}

	// 2. cost term; remember each vehicle's worst-case cost bias for P
	maxCost := make(map[string]float64, len(ordered))
	segments := map[string][]segmentUser{}
	for _, v := range ordered {
		for c := range v.Candidates {
			cand := &v.Candidates[c]
			id := varName(v.ID, c)
			bias := costBias(pen, v, cand)
			m.AddLinear(id, bias)
			if bias > maxCost[v.ID] {
				maxCost[v.ID] = bias
			}
			for _, seg := range routeSegments(cand.Nodes) {
				segments[seg] = append(segments[seg], segmentUser{varID: id, vehicleID: v.ID, weight: v.PriorityWeight})
			}
		}
	}

	// 3. conflict term: every cross-vehicle pair sharing a segment gets
	// Q * w1 * w2. A vehicle's own candidates never conflict with each other;
	// the one-hot term already covers that case.
	conflictBound := make(map[string]float64, len(ordered))
	for _, users := range segments {
		for i := 0; i < len(users); i++ {
			for j := i + 1; j < len(users); j++ {
				a, b := users[i], users[j]
				if a.vehicleID == b.vehicleID {
					continue
				}
				bias := pen.ConflictWeight * a.weight * b.weight
				m.AddQuadratic(a.varID, b.varID, bias)
				conflictBound[a.vehicleID] += bias
				conflictBound[b.vehicleID] += bias
			}
		}
	}

	// 4. one-hot term: P_v*(sum x - 1)^2 expands to -P_v on each variable,
	// +2*P_v on each pair, +P_v constant offset.
	for _, v := range ordered {
		vars := vm.VehicleVars(v.ID)
		if len(vars) == 0 {
			continue
		}
		p := pen.OneHotScale * (maxCost[v.ID] + conflictBound[v.ID])
		if p <= 0 {
			p = pen.OneHotScale
		}
		for _, id := range vars {
			m.AddLinear(id, -p)
		}
		for i := 0; i < len(vars); i++ {
			for j := i + 1; j < len(vars); j++ {
				m.AddQuadratic(vars[i], vars[j], 2*p)
			}
		}
		m.Offset += p
	}

	return m, vm, nil
}
