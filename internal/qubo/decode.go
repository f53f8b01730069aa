package qubo

import (
	"sort"

	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/model"
)

// Result maps each decodable vehicle to exactly one of its own candidate
// routes. Vehicles without candidates are listed in Infeasible and omitted
// from Routes; vehicles whose bit group violated one-hot and were greedily
// fixed are listed in Repaired.
type Result struct {
	Routes     map[string][]string
	Selected   map[string]int
	Infeasible []string
	Repaired   []string
}

// Decode maps a winning bit assignment back to one route per vehicle,
// repairing one-hot violations greedily.
//
// Vehicles are processed in ascending id order. A vehicle with exactly one
// set variable takes that candidate. A vehicle with zero or several set
// variables is repaired: among its candidates, pick the one minimizing the
// vehicle's own cost bias plus the conflict biases realized against vehicles
// already decided in this pass (ties break toward the lower candidate index).
// Earlier decisions are never revisited, which trades global optimality for
// determinism and guaranteed termination.
func Decode(assign map[string]int, vm *VarMap, vehicles []model.Vehicle, pen Penalties) Result {
	pen = pen.withDefaults()

	ordered := make([]*model.Vehicle, len(vehicles))
	for i := range vehicles {
		ordered[i] = &vehicles[i]
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	res := Result{
		Routes:   make(map[string][]string, len(ordered)),
		Selected: make(map[string]int, len(ordered)),
	}
	// segment sets of routes settled so far, with owning vehicle weight
	type settled struct {
		segments map[string]struct{}
		weight   float64
	}
	done := make([]settled, 0, len(ordered))

	for _, v := range ordered {
		vars := vm.VehicleVars(v.ID)
		if len(vars) == 0 {
			res.Infeasible = append(res.Infeasible, v.ID)
			continue
		}
		ones := make([]int, 0, 1)
		for c, id := range vars {
			if assign[id] == 1 {
				ones = append(ones, c)
			}
		}

		choice := -1
		if len(ones) == 1 {
			choice = ones[0]
		} else {
			// one-hot violated: greedy repair against already-settled routes
			best := 0.0
			for c := range v.Candidates {
				cand := &v.Candidates[c]
				score := costBias(pen, v, cand)
				for _, seg := range routeSegments(cand.Nodes) {
					for _, d := range done {
						if _, hit := d.segments[seg]; hit {
							score += pen.ConflictWeight * v.PriorityWeight * d.weight
						}
					}
				}
				if choice == -1 || score < best {
					choice = c
					best = score
				}
			}
			res.Repaired = append(res.Repaired, v.ID)
		}

		route := v.Candidates[choice].Nodes
		res.Routes[v.ID] = route
		res.Selected[v.ID] = choice
		segs := make(map[string]struct{})
		for _, seg := range routeSegments(route) {
			segs[seg] = struct{}{}
		}
		done = append(done, settled{segments: segs, weight: v.PriorityWeight})
	}
	return res
}
