// Package config loads service settings from an optional YAML file with
// environment overrides for deploy-time wiring.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    Server    `yaml:"server"`
	Penalties Penalties `yaml:"penalties"`
	Anneal    Anneal    `yaml:"anneal"`
	Remote    Remote    `yaml:"remote"`
	Network   Network   `yaml:"network"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Penalties struct {
	CostWeight     float64 `yaml:"costWeight"`
	ConflictWeight float64 `yaml:"conflictWeight"`
	OneHotScale    float64 `yaml:"oneHotScale"`
}

type Anneal struct {
	Reads  int   `yaml:"reads"`
	Sweeps int   `yaml:"sweeps"`
	Seed   int64 `yaml:"seed"`
}

type Remote struct {
	Endpoint string   `yaml:"endpoint"`
	Token    string   `yaml:"token"`
	Timeout  Duration `yaml:"timeout"`
	PerSec   float64  `yaml:"perSec"`
}

// Duration accepts YAML strings like "5s" or "250ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

type Network struct {
	Rows     int   `yaml:"rows"`
	Cols     int   `yaml:"cols"`
	SpacingM int64 `yaml:"spacingM"`
	Seed     int64 `yaml:"seed"`
}

// Default returns the settings the service runs with when no file is given.
func Default() Config {
	return Config{
		Server:    Server{Port: 8080},
		Penalties: Penalties{CostWeight: 1.0, ConflictWeight: 500, OneHotScale: 2.0},
		Anneal:    Anneal{Reads: 16, Sweeps: 600},
		Remote:    Remote{Timeout: Duration(30 * time.Second), PerSec: 2},
		Network:   Network{Rows: 8, Cols: 8, SpacingM: 250},
	}
}

// Load reads path when non-empty, then applies environment overrides. A
// missing file with a non-empty path is an error; an empty path just yields
// defaults plus the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("ANNEAL_ENDPOINT"); v != "" {
		c.Remote.Endpoint = v
	}
	if v := os.Getenv("ANNEAL_TOKEN"); v != "" {
		c.Remote.Token = v
	}
	if v := os.Getenv("ANNEAL_SEED"); v != "" {
		if s, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Anneal.Seed = s
		}
	}
}
