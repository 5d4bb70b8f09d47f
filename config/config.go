// Package config loads the citytwin runtime configuration.
//
// Load starts from Default, overlays a YAML file decoded in strict mode
// (unknown keys are errors), then applies environment overrides:
//
//	CITYTWIN_API_KEY       llm.api_key (enables api.openai.com when llm.base_url is empty)
//	CITYTWIN_LLM_BASE_URL  llm.base_url
//	CITYTWIN_LLM_MODEL     llm.model
//	CITYTWIN_ADDR          server.addr
//
// ${VAR} references inside the YAML file are expanded before decoding.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/citytwin/builder"
	"github.com/katalvlaran/citytwin/flow"
	"github.com/katalvlaran/citytwin/interpret"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Environment variable names.
const (
	EnvAPIKey  = "CITYTWIN_API_KEY"
	EnvBaseURL = "CITYTWIN_LLM_BASE_URL"
	EnvModel   = "CITYTWIN_LLM_MODEL"
	EnvAddr    = "CITYTWIN_ADDR"

	// OpenAIBaseURL is used when only an API key is provided.
	OpenAIBaseURL = "https://api.openai.com/v1"
)

// Config is the root configuration document.
type Config struct {
	Grid       Grid             `yaml:"grid"`
	Simulation Simulation       `yaml:"simulation"`
	LLM        interpret.Config `yaml:"llm"`
	Server     Server           `yaml:"server"`
}

// Grid configures the reference city.
type Grid struct {
	// Seed drives the initial edge flow. Nil means time-seeded.
	Seed           *int64  `yaml:"seed"`
	InitialFlowMax int     `yaml:"initial_flow_max"`
	BlockSize      float64 `yaml:"block_size"`
}

// Simulation configures the tick engine and the session around it.
type Simulation struct {
	// Seed drives ambient flow. Nil means time-seeded.
	Seed         *int64             `yaml:"seed"`
	BaselineMax  float64            `yaml:"baseline_max"`
	TickInterval time.Duration      `yaml:"tick_interval"`
	HistoryLimit int                `yaml:"history_limit"`
	Routes       []flow.DemandRoute `yaml:"routes"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `yaml:"addr"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		Grid: Grid{
			InitialFlowMax: 400,
			BlockSize:      100,
		},
		Simulation: Simulation{
			BaselineMax:  flow.DefaultBaselineMax,
			TickInterval: time.Second,
			HistoryLimit: 50,
			Routes:       flow.DefaultRoutes(),
		},
		LLM:    interpret.DefaultConfig(),
		Server: Server{Addr: ":8080"},
	}
}

// Load reads path over Default, applies the environment and validates.
// An empty path yields Default plus the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err = decode(strings.NewReader(os.ExpandEnv(string(data))), &cfg); err != nil {
			return cfg, fmt.Errorf("config: %q: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.Getenv)

	return cfg, cfg.Validate()
}

// Parse decodes a YAML document over Default without touching the
// environment.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	if err := decode(r, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, cfg.Validate()
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overlays environment values read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvAPIKey)); v != "" {
		c.LLM.APIKey = v
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = OpenAIBaseURL
		}
	}
	if v := strings.TrimSpace(getenv(EnvBaseURL)); v != "" {
		c.LLM.BaseURL = v
	}
	if v := strings.TrimSpace(getenv(EnvModel)); v != "" {
		c.LLM.Model = v
	}
	if v := strings.TrimSpace(getenv(EnvAddr)); v != "" {
		c.Server.Addr = v
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalid.
func (c Config) Validate() error {
	switch {
	case c.Grid.InitialFlowMax < 0:
		return fmt.Errorf("%w: grid.initial_flow_max must be >= 0", ErrInvalid)
	case !(c.Grid.BlockSize > 0) || math.IsInf(c.Grid.BlockSize, 1):
		return fmt.Errorf("%w: grid.block_size must be > 0", ErrInvalid)
	case !(c.Simulation.BaselineMax >= 0) || math.IsInf(c.Simulation.BaselineMax, 1):
		return fmt.Errorf("%w: simulation.baseline_max must be >= 0", ErrInvalid)
	case c.Simulation.TickInterval <= 0:
		return fmt.Errorf("%w: simulation.tick_interval must be > 0", ErrInvalid)
	case c.Simulation.HistoryLimit < 1:
		return fmt.Errorf("%w: simulation.history_limit must be >= 1", ErrInvalid)
	case c.LLM.Timeout < 0:
		return fmt.Errorf("%w: llm.timeout must be >= 0", ErrInvalid)
	}
	for i, r := range c.Simulation.Routes {
		if r.Origin == "" || r.Destination == "" {
			return fmt.Errorf("%w: simulation.routes[%d]: origin and destination are required", ErrInvalid, i)
		}
		if !(r.Volume >= 0) || math.IsInf(r.Volume, 1) {
			return fmt.Errorf("%w: simulation.routes[%d]: volume must be >= 0", ErrInvalid, i)
		}
	}
	return nil
}

// BuilderOptions translates the grid section into builder options.
func (c Config) BuilderOptions() []builder.BuilderOption {
	opts := []builder.BuilderOption{
		builder.WithInitialFlowMax(c.Grid.InitialFlowMax),
		builder.WithBlockSize(c.Grid.BlockSize),
	}
	if c.Grid.Seed != nil {
		opts = append(opts, builder.WithSeed(*c.Grid.Seed))
	} else {
		opts = append(opts, builder.WithSeed(time.Now().UnixNano()))
	}
	return opts
}

// SimulatorOptions translates the simulation section into flow options.
func (c Config) SimulatorOptions() []flow.Option {
	opts := []flow.Option{
		flow.WithRoutes(c.Simulation.Routes),
		flow.WithBaselineMax(c.Simulation.BaselineMax),
	}
	if c.Simulation.Seed != nil {
		opts = append(opts, flow.WithSeed(*c.Simulation.Seed))
	}
	return opts
}
