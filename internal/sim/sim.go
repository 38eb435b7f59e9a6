// Package sim is the simulation driver: it owns the shoe, counter, and
// accumulating statistics for a run and plays rounds until the configured
// iteration count is reached.
package sim

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjacksim/internal/counter"
	"github.com/lox/blackjacksim/internal/game"
	"github.com/lox/blackjacksim/internal/shoe"
	"github.com/lox/blackjacksim/internal/strategy"
)

// RulesInput is the rule configuration for a run. Zero values resolve to the
// common table defaults: dealer stands on 17, double after split and resplit
// allowed, no resplit aces, blackjack pays 3:2, 75% penetration.
type RulesInput struct {
	DealerHitsSoft17     bool   `json:"dealer_hits_soft_17"`
	DealerStandsOn       string `json:"dealer_stands_on,omitempty"`
	DoubleAfterSplit     *bool  `json:"double_after_split,omitempty"`
	AllowResplit         *bool  `json:"allow_resplit,omitempty"`
	ResplitAces          bool   `json:"resplit_aces,omitempty"`
	BlackjackPays        string `json:"blackjack_pays,omitempty"`
	PenetrationThreshold int    `json:"penetration_threshold,omitempty"`
}

// GameRules resolves the input into a concrete rule set.
func (r RulesInput) GameRules() game.Rules {
	rules := game.Rules{
		DealerHitsSoft17: r.DealerHitsSoft17,
		DealerStandsOn:   r.DealerStandsOn,
		DoubleAfterSplit: true,
		AllowResplit:     true,
		ResplitAces:      r.ResplitAces,
		BlackjackPays:    r.BlackjackPays,
	}
	if rules.DealerStandsOn == "" {
		rules.DealerStandsOn = game.StandsOn17
	}
	if rules.BlackjackPays == "" {
		rules.BlackjackPays = game.Pays3to2
	}
	if r.DoubleAfterSplit != nil {
		rules.DoubleAfterSplit = *r.DoubleAfterSplit
	}
	if r.AllowResplit != nil {
		rules.AllowResplit = *r.AllowResplit
	}
	return rules
}

// Penetration returns the configured penetration threshold percent, or the
// 75% default.
func (r RulesInput) Penetration() int {
	if r.PenetrationThreshold <= 0 {
		return 75
	}
	return r.PenetrationThreshold
}

// CountingInput configures the card counter for a run.
type CountingInput struct {
	Enabled      bool           `json:"enabled"`
	System       string         `json:"system,omitempty"`
	CustomValues map[string]int `json:"custom_values,omitempty"`
}

// Config is the full input for one simulation run.
type Config struct {
	NumDecks         int            `json:"num_decks"`
	Iterations       int            `json:"iterations"`
	Seed             int64          `json:"seed"`
	BetSize          float64        `json:"bet_size,omitempty"`
	ProgressInterval int            `json:"progress_interval,omitempty"`
	Rules            RulesInput     `json:"rules"`
	Counting         *CountingInput `json:"counting,omitempty"`
	Strategy         strategy.Input `json:"strategy"`

	// Logger receives debug-level run diagnostics. Nil discards them.
	Logger *log.Logger `json:"-"`
}

func (c Config) betSize() float64 {
	return math.Max(c.BetSize, 1.0)
}

func (c Config) progressInterval() int {
	if c.ProgressInterval < 1 {
		return 1
	}
	return c.ProgressInterval
}

func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.New(io.Discard)
}

// Validate checks the parts of the configuration that would make a run
// meaningless rather than merely unusual.
func (c Config) Validate() error {
	if c.NumDecks < 1 {
		return fmt.Errorf("num_decks must be at least 1, got %d", c.NumDecks)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("iterations must not be negative, got %d", c.Iterations)
	}
	return nil
}

// buildCounter returns the configured counter, or nil when counting is
// disabled.
func buildCounter(cfg *CountingInput) *counter.Counter {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	return counter.New(cfg.System, cfg.CustomValues)
}

// ProgressFunc observes run progress. It executes inline between rounds and
// must not affect the statistical outcome.
type ProgressFunc func(completed, total int)

// Run executes the configured number of rounds and returns the final
// aggregates.
func Run(cfg Config) (*Result, error) {
	return RunWithProgress(cfg, nil)
}

// RunWithProgress is Run with a progress callback, invoked at every
// progress-interval multiple and always on the final iteration.
func RunWithProgress(cfg Config, progress ProgressFunc) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	strat, err := strategy.New(cfg.Strategy)
	if err != nil {
		return nil, fmt.Errorf("invalid strategy: %w", err)
	}

	logger := cfg.logger()

	ctr := buildCounter(cfg.Counting)
	countingEnabled := ctr != nil
	sh := shoe.New(cfg.NumDecks, cfg.Rules.Penetration(), cfg.Seed)
	g := game.New(sh, cfg.Rules.GameRules(), ctr)

	betSize := cfg.betSize()
	interval := cfg.progressInterval()

	logger.Debug("starting simulation",
		"iterations", cfg.Iterations,
		"decks", cfg.NumDecks,
		"seed", cfg.Seed,
		"counting", countingEnabled,
	)

	result := newResult()
	countStats := newCountStats()

	for i := 0; i < cfg.Iterations; i++ {
		// Pre-round measurements: the count as the player sees it before any
		// card of this round is drawn.
		countBucket := g.CountRange()
		trueCount := g.TrueCount()
		if countingEnabled {
			countStats.recordHand(trueCount)
		}

		outcome := g.PlayRound(strat, betSize)

		switch outcome.Outcome {
		case game.OutcomeWin:
			result.Wins++
		case game.OutcomeLose:
			result.Losses++
		case game.OutcomePush:
			result.Pushes++
		case game.OutcomeBlackjack:
			result.Wins++
			result.Blackjacks++
		}
		result.TotalWinnings += outcome.Winnings
		result.TotalBet += outcome.Bet

		if countingEnabled {
			countStats.recordWinnings(trueCount, outcome.Winnings)
		}

		result.trackCell(&outcome, countBucket)

		completed := i + 1
		if progress != nil && (completed%interval == 0 || completed == cfg.Iterations) {
			progress(completed, cfg.Iterations)
		}
	}

	countStats.finalize()
	if countingEnabled {
		result.CountStats = countStats
	}

	result.reconcile(cfg.Iterations)

	logger.Debug("simulation complete",
		"games", result.TotalGames,
		"ev", result.ExpectedValue,
		"win_rate", result.WinRate,
	)

	return result, nil
}

// PlaySingleRound plays exactly one round under the configuration and
// returns its full structured outcome.
func PlaySingleRound(cfg Config) (*game.Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	strat, err := strategy.New(cfg.Strategy)
	if err != nil {
		return nil, fmt.Errorf("invalid strategy: %w", err)
	}

	sh := shoe.New(cfg.NumDecks, cfg.Rules.Penetration(), cfg.Seed)
	g := game.New(sh, cfg.Rules.GameRules(), buildCounter(cfg.Counting))

	outcome := g.PlayRound(strat, cfg.betSize())
	return &outcome, nil
}
