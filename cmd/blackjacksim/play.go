package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lox/blackjacksim/internal/config"
	"github.com/lox/blackjacksim/internal/sim"
	"github.com/lox/blackjacksim/internal/ui"
)

type PlayCmd struct {
	Config   string  `help:"HCL run configuration file" type:"path" default:"blackjacksim.hcl"`
	Decks    int     `help:"Override the configured deck count"`
	Seed     *int64  `help:"Override the configured RNG seed"`
	BetSize  float64 `help:"Override the configured bet size"`
	Strategy string  `help:"JSON strategy table file" type:"path"`
	JSON     bool    `help:"Emit the raw outcome as JSON"`
}

func (c *PlayCmd) Run() error {
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

	simCfg, err := runCfg.SimConfig()
	if err != nil {
		return err
	}

	outcome, err := sim.PlaySingleRound(simCfg)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	}
	fmt.Println(ui.RenderRound(outcome))
	return nil
}
