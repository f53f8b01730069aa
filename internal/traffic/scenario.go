// Package traffic generates vehicle populations over a road network,
// including the time-of-day presets used by the demo UI.
package traffic

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/model"
	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/network"
)

const (
	// DefaultCandidates is how many alternative routes each vehicle carries.
	DefaultCandidates = 3
	// DefaultEmergencyPriority is the priority weight of emergency vehicles.
	DefaultEmergencyPriority = 10
)

// Preset fills vehicle count and emergency ratio for a named time of day.
// Unknown names fall back to "noon". Explicit values in p win over the preset.
func Preset(p model.ScenarioParams) model.ScenarioParams {
	var count int
	var ratio float64
	switch p.Preset {
	case "early_morning":
		count, ratio = 4, 0.10
	case "morning":
		count, ratio = 12, 0.30
	case "evening":
		count, ratio = 15, 0.35
	case "night":
		count, ratio = 5, 0.15
	default:
		count, ratio = 8, 0.20
	}
	if p.Vehicles <= 0 {
		p.Vehicles = count
	}
	if p.EmergencyRatio <= 0 {
		p.EmergencyRatio = ratio
	}
	if p.Candidates <= 0 {
		p.Candidates = DefaultCandidates
	}
	if p.EmergencyPriority <= 0 {
		p.EmergencyPriority = DefaultEmergencyPriority
	}
	return p
}

// BuildScenario populates p.Vehicles vehicles with random origin/destination
// pairs on n and precomputed candidate routes. Generation is deterministic for
// a fixed p.Seed. The first ceil(Vehicles*EmergencyRatio) vehicles are
// emergency; ids are sequential so results stay reproducible.
func BuildScenario(n *network.Network, p model.ScenarioParams) ([]model.Vehicle, error) {
	p = Preset(p)
	nodes := n.Nodes()
	if len(nodes) < 2 {
		return nil, fmt.Errorf("traffic: network has %d nodes, need at least 2", len(nodes))
	}
	rng := rand.New(rand.NewSource(p.Seed + 42))
	emergencies := int(math.Ceil(float64(p.Vehicles) * p.EmergencyRatio))

	vehicles := make([]model.Vehicle, 0, p.Vehicles)
	for i := 0; i < p.Vehicles; i++ {
		origin := nodes[rng.Intn(len(nodes))]
		dest := nodes[rng.Intn(len(nodes))]
		for dest == origin {
			dest = nodes[rng.Intn(len(nodes))]
		}
		candidates, err := n.CandidateRoutes(origin, dest, p.Candidates)
		if err != nil {
			return nil, fmt.Errorf("traffic: routes for %s->%s: %w", origin, dest, err)
		}

		kind, weight := model.KindRegular, 1.0
		if i < emergencies {
			kind, weight = model.KindEmergency, p.EmergencyPriority
		}
		v := model.Vehicle{
			ID:             fmt.Sprintf("veh_%03d", i),
			Origin:         origin,
			Destination:    dest,
			Kind:           kind,
			PriorityWeight: weight,
			Candidates:     candidates,
		}
		if err := v.Validate(); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}

// UserVehicle snaps the leg's coordinates to network nodes and builds the
// user's vehicle with DefaultCandidates alternatives at priority 1.
func UserVehicle(n *network.Network, leg model.UserLeg) (model.Vehicle, error) {
	origin := n.NearestNode(leg.StartLat, leg.StartLon)
	dest := n.NearestNode(leg.EndLat, leg.EndLon)
	if origin == dest {
		return model.Vehicle{}, fmt.Errorf("%w: user start and destination snap to the same node %s", model.ErrInvalidVehicle, origin)
	}
	candidates, err := n.CandidateRoutes(origin, dest, DefaultCandidates)
	if err != nil {
		return model.Vehicle{}, err
	}
	return model.Vehicle{
		ID:             "veh_user",
		Origin:         origin,
		Destination:    dest,
		Kind:           model.KindUser,
		PriorityWeight: 1,
		Candidates:     candidates,
	}, nil
}
