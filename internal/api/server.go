package api

import (
	"os"
	"strings"
	"time"

	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/anneal"
	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/config"
	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/network"
	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/qubo"
	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/store"
)

type Server struct {
	Store  store.Store
	Broker EventBroker
	Net    *network.Network
	Cfg    config.Config
	Remote *anneal.Remote
}

// NewServer creates a Server. If DATABASE_URL is unset, uses in-memory store;
// if REDIS_URL is unset, uses the in-memory broker.
func NewServer(cfg config.Config) (*Server, error) {
	var s store.Store
	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn == "" {
		s = store.NewMemory()
	} else {
		sp, err := store.NewPostgres(dsn)
		if err != nil {
			return nil, err
		}
		s = sp
	}

	var broker EventBroker
	if os.Getenv("REDIS_URL") != "" {
		if rb, err := NewRedisBroker(); err == nil {
			broker = rb
		} else {
			broker = NewBroker()
		}
	} else {
		broker = NewBroker()
	}

	net, err := network.Build(network.Config{
		Rows:     cfg.Network.Rows,
		Cols:     cfg.Network.Cols,
		SpacingM: cfg.Network.SpacingM,
		Seed:     cfg.Network.Seed,
	})
	if err != nil {
		return nil, err
	}

	var remote *anneal.Remote
	if cfg.Remote.Endpoint != "" {
		remote = anneal.NewRemote(cfg.Remote.Endpoint, cfg.Remote.Token, time.Duration(cfg.Remote.Timeout), cfg.Remote.PerSec)
	}

	return &Server{Store: s, Broker: broker, Net: net, Cfg: cfg, Remote: remote}, nil
}

func (s *Server) penalties() qubo.Penalties {
	p := qubo.Penalties{
		CostWeight:     s.Cfg.Penalties.CostWeight,
		ConflictWeight: s.Cfg.Penalties.ConflictWeight,
		OneHotScale:    s.Cfg.Penalties.OneHotScale,
	}
	return p
}
