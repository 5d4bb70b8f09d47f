package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/citytwin/builder"
	"github.com/katalvlaran/citytwin/config"
	"github.com/katalvlaran/citytwin/flow"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, flow.DefaultRoutes(), cfg.Simulation.Routes)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.LLM.Enabled())
	assert.Nil(t, cfg.Grid.Seed)
}

func TestParse(t *testing.T) {
	doc := `
grid:
  seed: 7
  initial_flow_max: 200
simulation:
  seed: 0
  baseline_max: 50
  tick_interval: 250ms
  history_limit: 10
  routes:
    - {origin: n_0_0, destination: n_4_4, volume: 100}
llm:
  base_url: http://localhost:11434/v1
  model: llama3
  timeout: 10s
server:
  addr: 127.0.0.1:9000
`
	cfg, err := config.Parse(strings.NewReader(doc))
	require.NoError(t, err)

	require.NotNil(t, cfg.Grid.Seed)
	assert.Equal(t, int64(7), *cfg.Grid.Seed)
	assert.Equal(t, 200, cfg.Grid.InitialFlowMax)
	assert.Equal(t, 100.0, cfg.Grid.BlockSize, "default kept")
	require.NotNil(t, cfg.Simulation.Seed)
	assert.Zero(t, *cfg.Simulation.Seed, "explicit zero seed is a seed")
	assert.Equal(t, 250*time.Millisecond, cfg.Simulation.TickInterval)
	assert.Equal(t, []flow.DemandRoute{{Origin: "n_0_0", Destination: "n_4_4", Volume: 100}}, cfg.Simulation.Routes)
	assert.True(t, cfg.LLM.Enabled())
	assert.Equal(t, 10*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestParse_StrictAndValidated(t *testing.T) {
	_, err := config.Parse(strings.NewReader("grid:\n  sise: 5\n"))
	require.Error(t, err, "unknown keys are rejected")

	_, err = config.Parse(strings.NewReader("simulation:\n  history_limit: 0\n"))
	require.ErrorIs(t, err, config.ErrInvalid)

	_, err = config.Parse(strings.NewReader("simulation:\n  routes:\n    - {origin: a, destination: b, volume: -5}\n"))
	require.ErrorIs(t, err, config.ErrInvalid)

	cfg, err := config.Parse(strings.NewReader(""))
	require.NoError(t, err, "empty document keeps defaults")
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citytwin.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: ${CITYTWIN_TEST_PORT}\n"), 0o600))

	t.Setenv("CITYTWIN_TEST_PORT", ":7070")
	t.Setenv(config.EnvAPIKey, "sk-env")
	t.Setenv(config.EnvModel, "gpt-test")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "sk-env", cfg.LLM.APIKey)
	assert.Equal(t, config.OpenAIBaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, "gpt-test", cfg.LLM.Model)
	assert.True(t, cfg.LLM.Enabled())

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOptionsBuildWorkingEngine(t *testing.T) {
	seed := int64(3)
	cfg := config.Default()
	cfg.Grid.Seed = &seed
	cfg.Simulation.Seed = &seed

	a, err := builder.ReferenceCity(cfg.BuilderOptions()...)
	require.NoError(t, err)
	b, err := builder.ReferenceCity(cfg.BuilderOptions()...)
	require.NoError(t, err)
	assert.True(t, a.Equal(b), "seeded grid is reproducible")

	sim, err := flow.New(cfg.SimulatorOptions()...)
	require.NoError(t, err)
	assert.Equal(t, cfg.Simulation.Routes, sim.Routes())
	_, _, err = sim.Step(a)
	require.NoError(t, err)
}
