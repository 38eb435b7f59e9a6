package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lox/blackjacksim/internal/config"
	"github.com/lox/blackjacksim/internal/sim"
	"github.com/lox/blackjacksim/internal/ui"
)

type SpotCheckCmd struct {
	Cards      []string `help:"Player starting cards by rank" default:"8,8"`
	Dealer     string   `help:"Dealer up card rank" default:"6"`
	Action     string   `help:"Forced first action" enum:"H,S,D,P" default:"P"`
	Iterations int      `default:"10000" help:"Number of shoes to draw"`
	Decks      int      `help:"Override the configured deck count"`
	Seed       *int64   `help:"Override the configured RNG seed"`
	BetSize    float64  `help:"Override the configured bet size"`
	Config     string   `help:"HCL run configuration file (rules and counting)" type:"path" default:"blackjacksim.hcl"`
	Strategy   string   `help:"JSON strategy table file for post-action play" type:"path"`
	Output     string   `help:"Write the JSON result to a file" type:"path"`
	JSON       bool     `help:"Emit the raw result as JSON"`
}

func (c *SpotCheckCmd) Run() error {
	runCfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Decks > 0 {
		runCfg.Simulation.Decks = c.Decks
	}
	if c.Seed != nil {
		runCfg.Simulation.Seed = *c.Seed
	}
	if c.BetSize > 0 {
		runCfg.Simulation.BetSize = c.BetSize
	}
	if c.Strategy != "" {
		runCfg.Simulation.StrategyFile = c.Strategy
	}

	base, err := runCfg.SimConfig()
	if err != nil {
		return err
	}

	cfg := sim.SpotCheckConfig{
		NumDecks:     base.NumDecks,
		Iterations:   c.Iterations,
		Seed:         base.Seed,
		BetSize:      base.BetSize,
		Rules:        base.Rules,
		Counting:     base.Counting,
		Strategy:     base.Strategy,
		PlayerCards:  c.Cards,
		DealerCard:   c.Dealer,
		ForcedAction: c.Action,
	}

	result, err := sim.RunSpotCheck(cfg)
	if err != nil {
		return err
	}

	if c.Output != "" {
		if err := writeResultFile(c.Output, result); err != nil {
			return err
		}
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Println(ui.RenderSpotCheck(cfg, result))
	return nil
}
