package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjacksim/internal/strategy"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/run.hcl")
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Simulation.Decks)
	assert.Equal(t, 100000, cfg.Simulation.Iterations)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	assert.Nil(t, cfg.Counting)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeFile(t, "run.hcl", `
simulation {
  decks             = 2
  iterations        = 5000
  seed              = 7
  bet_size          = 25
  progress_interval = 500
}

rules {
  dealer_hits_soft_17   = true
  double_after_split    = false
  blackjack_pays        = "6:5"
  penetration_threshold = 80
}

counting {
  enabled = true
  system  = "Hi-Lo"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Simulation.Decks)
	assert.Equal(t, 5000, cfg.Simulation.Iterations)
	assert.Equal(t, int64(7), cfg.Simulation.Seed)
	assert.Equal(t, 25.0, cfg.Simulation.BetSize)
	assert.True(t, cfg.Rules.DealerHitsSoft17)
	require.NotNil(t, cfg.Rules.DoubleAfterSplit)
	assert.False(t, *cfg.Rules.DoubleAfterSplit)
	assert.Nil(t, cfg.Rules.AllowResplit, "unset stays nil so the driver default applies")
	assert.Equal(t, "6:5", cfg.Rules.BlackjackPays)
	require.NotNil(t, cfg.Counting)
	assert.True(t, cfg.Counting.Enabled)
	assert.Equal(t, "Hi-Lo", cfg.Counting.System)
}

func TestLoadPartialConfigAppliesDefaults(t *testing.T) {
	path := writeFile(t, "run.hcl", `
simulation {
  seed = 99
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(99), cfg.Simulation.Seed)
	assert.Equal(t, 6, cfg.Simulation.Decks)
	assert.Equal(t, 100000, cfg.Simulation.Iterations)
	assert.Equal(t, 10.0, cfg.Simulation.BetSize)
	require.NotNil(t, cfg.Rules)
}

func TestLoadMalformedHCL(t *testing.T) {
	path := writeFile(t, "run.hcl", `simulation { decks = `)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSimConfig(t *testing.T) {
	t.Run("built-in strategy when no file set", func(t *testing.T) {
		cfg, err := Default().SimConfig()
		require.NoError(t, err)
		assert.Equal(t, 6, cfg.NumDecks)
		assert.NotNil(t, cfg.Strategy.Hard)
		assert.Nil(t, cfg.Counting)

		// The resolved config must produce a valid strategy as-is.
		_, err = strategy.New(cfg.Strategy)
		require.NoError(t, err)
	})

	t.Run("strategy file", func(t *testing.T) {
		strategyPath := writeFile(t, "strategy.json", `{
  "count_based": true,
  "hard": {"16": {"10": "H"}},
  "hard_by_count": {"3": {"16": {"10": "S"}}}
}`)
		run := Default()
		run.Simulation.StrategyFile = strategyPath

		cfg, err := run.SimConfig()
		require.NoError(t, err)
		assert.True(t, cfg.Strategy.CountBased)

		strat, err := strategy.New(cfg.Strategy)
		require.NoError(t, err)
		assert.Equal(t, strategy.Stand, strat.DecideAction("16", "10", false, false, 3))
		assert.Equal(t, strategy.Hit, strat.DecideAction("16", "10", false, false, 0))
	})

	t.Run("missing strategy file", func(t *testing.T) {
		run := Default()
		run.Simulation.StrategyFile = "/nonexistent/strategy.json"
		_, err := run.SimConfig()
		assert.ErrorContains(t, err, "strategy file")
	})
}

func TestLoadStrategyFileMalformedJSON(t *testing.T) {
	path := writeFile(t, "strategy.json", `{"hard": [}`)
	_, err := LoadStrategyFile(path)
	assert.ErrorContains(t, err, "parse strategy file")
}
