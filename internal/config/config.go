// Package config loads simulation run configuration from HCL files and
// strategy tables from JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjacksim/internal/sim"
	"github.com/lox/blackjacksim/internal/strategy"
)

// RunConfig is the complete configuration for a simulation run.
type RunConfig struct {
	Simulation *SimulationSettings `hcl:"simulation,block"`
	Rules      *RulesSettings      `hcl:"rules,block"`
	Counting   *CountingSettings   `hcl:"counting,block"`
}

// SimulationSettings controls the driver itself.
type SimulationSettings struct {
	Decks            int     `hcl:"decks,optional"`
	Iterations       int     `hcl:"iterations,optional"`
	Seed             int64   `hcl:"seed,optional"`
	BetSize          float64 `hcl:"bet_size,optional"`
	ProgressInterval int     `hcl:"progress_interval,optional"`

	// StrategyFile points at a JSON strategy table file. Empty means the
	// built-in basic strategy.
	StrategyFile string `hcl:"strategy_file,optional"`
}

// RulesSettings mirrors the table rules; unset attributes resolve to the
// common defaults.
type RulesSettings struct {
	DealerHitsSoft17     bool   `hcl:"dealer_hits_soft_17,optional"`
	DealerStandsOn       string `hcl:"dealer_stands_on,optional"`
	DoubleAfterSplit     *bool  `hcl:"double_after_split,optional"`
	AllowResplit         *bool  `hcl:"allow_resplit,optional"`
	ResplitAces          bool   `hcl:"resplit_aces,optional"`
	BlackjackPays        string `hcl:"blackjack_pays,optional"`
	PenetrationThreshold int    `hcl:"penetration_threshold,optional"`
}

// CountingSettings configures the card counter.
type CountingSettings struct {
	Enabled      bool           `hcl:"enabled,optional"`
	System       string         `hcl:"system,optional"`
	CustomValues map[string]int `hcl:"custom_values,optional"`
}

// Default returns the configuration used when no file is present: a
// six-deck S17 shoe game played with the built-in basic strategy.
func Default() *RunConfig {
	return &RunConfig{
		Simulation: &SimulationSettings{
			Decks:            6,
			Iterations:       100000,
			Seed:             42,
			BetSize:          10.0,
			ProgressInterval: 10000,
		},
		Rules: &RulesSettings{},
	}
}

// Load reads a run configuration from an HCL file. A missing file yields the
// defaults; a present but malformed file is an error.
func Load(filename string) (*RunConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg RunConfig
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := Default()
	if cfg.Simulation == nil {
		cfg.Simulation = defaults.Simulation
	} else {
		if cfg.Simulation.Decks == 0 {
			cfg.Simulation.Decks = defaults.Simulation.Decks
		}
		if cfg.Simulation.Iterations == 0 {
			cfg.Simulation.Iterations = defaults.Simulation.Iterations
		}
		if cfg.Simulation.BetSize == 0 {
			cfg.Simulation.BetSize = defaults.Simulation.BetSize
		}
		if cfg.Simulation.ProgressInterval == 0 {
			cfg.Simulation.ProgressInterval = defaults.Simulation.ProgressInterval
		}
	}
	if cfg.Rules == nil {
		cfg.Rules = &RulesSettings{}
	}

	return &cfg, nil
}

// SimConfig resolves the file into a driver configuration, loading the
// strategy tables it references.
func (c *RunConfig) SimConfig() (sim.Config, error) {
	strategyInput, err := loadStrategy(c.Simulation.StrategyFile)
	if err != nil {
		return sim.Config{}, err
	}

	cfg := sim.Config{
		NumDecks:         c.Simulation.Decks,
		Iterations:       c.Simulation.Iterations,
		Seed:             c.Simulation.Seed,
		BetSize:          c.Simulation.BetSize,
		ProgressInterval: c.Simulation.ProgressInterval,
		Rules: sim.RulesInput{
			DealerHitsSoft17:     c.Rules.DealerHitsSoft17,
			DealerStandsOn:       c.Rules.DealerStandsOn,
			DoubleAfterSplit:     c.Rules.DoubleAfterSplit,
			AllowResplit:         c.Rules.AllowResplit,
			ResplitAces:          c.Rules.ResplitAces,
			BlackjackPays:        c.Rules.BlackjackPays,
			PenetrationThreshold: c.Rules.PenetrationThreshold,
		},
		Strategy: strategyInput,
	}
	if c.Counting != nil {
		cfg.Counting = &sim.CountingInput{
			Enabled:      c.Counting.Enabled,
			System:       c.Counting.System,
			CustomValues: c.Counting.CustomValues,
		}
	}
	return cfg, nil
}

func loadStrategy(filename string) (strategy.Input, error) {
	if filename == "" {
		return strategy.BasicInput(), nil
	}
	return LoadStrategyFile(filename)
}

// LoadStrategyFile reads a JSON strategy table file into the loosely-typed
// input form. Shape validation happens later, when the strategy is built.
func LoadStrategyFile(filename string) (strategy.Input, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return strategy.Input{}, fmt.Errorf("failed to read strategy file: %w", err)
	}
	var input strategy.Input
	if err := json.Unmarshal(data, &input); err != nil {
		return strategy.Input{}, fmt.Errorf("failed to parse strategy file %s: %w", filename, err)
	}
	return input, nil
}
