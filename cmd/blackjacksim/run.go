package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjacksim/internal/config"
	"github.com/lox/blackjacksim/internal/fileutil"
	"github.com/lox/blackjacksim/internal/sim"
	"github.com/lox/blackjacksim/internal/ui"
)

type RunCmd struct {
	Config     string  `help:"HCL run configuration file" type:"path" default:"blackjacksim.hcl"`
	Iterations int     `help:"Override the configured iteration count"`
	Decks      int     `help:"Override the configured deck count"`
	Seed       *int64  `help:"Override the configured RNG seed"`
	BetSize    float64 `help:"Override the configured bet size"`
	Strategy   string  `help:"JSON strategy table file (overrides the configured one)" type:"path"`
	Counting   string  `help:"Enable counting with the named system (e.g. Hi-Lo)"`
	Workers    int     `default:"1" help:"Shard iterations across N independently seeded runs"`
	Output     string  `help:"Write the JSON result to a file" type:"path"`
	JSON       bool    `help:"Emit the raw result as JSON"`
	NoProgress bool    `help:"Disable the progress display"`
	Verbose    bool    `help:"Debug logging"`
}

func (c *RunCmd) Run() error {
	logger := log.New(os.Stderr)
	if c.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	simCfg, err := c.buildConfig(logger)
	if err != nil {
		return err
	}

	report, finish := c.progressReporter(simCfg.Iterations)
	defer finish()

	start := time.Now()
	var result *sim.Result
	if c.Workers > 1 {
		result, err = runSharded(simCfg, c.Workers, report)
	} else {
		result, err = sim.RunWithProgress(simCfg, report)
	}
	if err != nil {
		return err
	}
	finish()
	logger.Debug("run finished", "elapsed", time.Since(start))

	if c.Output != "" {
		if err := writeResultFile(c.Output, result); err != nil {
			return err
		}
		logger.Debug("wrote results", "path", c.Output)
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Println(ui.RenderResult(result))
	return nil
}

func (c *RunCmd) buildConfig(logger *log.Logger) (sim.Config, error) {
	runCfg, err := config.Load(c.Config)
	if err != nil {
		return sim.Config{}, err
	}
	if c.Iterations > 0 {
		runCfg.Simulation.Iterations = c.Iterations
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
		return sim.Config{}, err
	}
	if c.Counting != "" {
		simCfg.Counting = &sim.CountingInput{Enabled: true, System: c.Counting}
	}
	simCfg.Logger = logger
	return simCfg, nil
}

// progressReporter picks the progress display: the animated bar on color
// terminals, plain throttled lines otherwise, or nothing at all. finish is
// idempotent.
func (c *RunCmd) progressReporter(total int) (sim.ProgressFunc, func()) {
	if c.NoProgress || c.JSON {
		return nil, func() {}
	}

	output := termenv.NewOutput(os.Stderr)
	if output.Profile != termenv.Ascii {
		bar := ui.NewProgressBar("Simulating", os.Stderr)
		var once sync.Once
		return bar.Report, func() {
			once.Do(bar.Stop)
		}
	}

	printer := ui.NewPrinter(os.Stderr, quartz.NewReal(), time.Second)
	return printer.Report, func() {}
}

// writeResultFile exports a result as indented JSON, atomically so partial
// files are never observed.
func writeResultFile(path string, result any) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return fileutil.WriteFileAtomic(path, append(data, '\n'), 0644)
}

// runSharded splits the iterations across workers with consecutive seeds and
// merges their aggregates. Progress is summed across shards.
func runSharded(cfg sim.Config, workers int, report sim.ProgressFunc) (*sim.Result, error) {
	if workers > cfg.Iterations && cfg.Iterations > 0 {
		workers = cfg.Iterations
	}

	perWorker := cfg.Iterations / workers
	remainder := cfg.Iterations % workers

	var mu sync.Mutex
	completedByWorker := make([]int, workers)

	results := make([]*sim.Result, workers)
	var g errgroup.Group

	for w := 0; w < workers; w++ {
		worker := w
		shard := cfg
		shard.Iterations = perWorker
		if worker < remainder {
			shard.Iterations++
		}
		shard.Seed = cfg.Seed + int64(worker)

		g.Go(func() error {
			var shardReport sim.ProgressFunc
			if report != nil {
				shardReport = func(completed, _ int) {
					mu.Lock()
					defer mu.Unlock()
					completedByWorker[worker] = completed
					sum := 0
					for _, n := range completedByWorker {
						sum += n
					}
					// Reported under the lock so observers see monotonic
					// progress without their own synchronization.
					report(sum, cfg.Iterations)
				}
			}
			result, err := sim.RunWithProgress(shard, shardReport)
			if err != nil {
				return fmt.Errorf("worker %d: %w", worker, err)
			}
			results[worker] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sim.Merge(results...), nil
}
