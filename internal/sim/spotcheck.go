package sim

import (
	"fmt"
	"math"

	"github.com/lox/blackjacksim/internal/game"
	"github.com/lox/blackjacksim/internal/shoe"
	"github.com/lox/blackjacksim/internal/strategy"
)

// SpotCheckConfig evaluates one fixed scenario: the player's starting cards,
// the dealer's up card, and the first action are forced, and only the play
// after that first action consults the strategy.
type SpotCheckConfig struct {
	NumDecks    int            `json:"num_decks"`
	Iterations  int            `json:"iterations"`
	Seed        int64          `json:"seed"`
	BetSize     float64        `json:"bet_size,omitempty"`
	Rules       RulesInput     `json:"rules"`
	Counting    *CountingInput `json:"counting,omitempty"`
	Strategy    strategy.Input `json:"strategy"`
	PlayerCards []string       `json:"player_cards"`
	DealerCard  string         `json:"dealer_card"`
	// ForcedAction is the action code (H, S, D, P) applied to the starting
	// hand in place of a strategy decision.
	ForcedAction string `json:"forced_action"`
}

// SpotCheckResult is the reduced aggregate for a forced scenario: no
// decision-cell or count-bucket breakdown, just the scenario's outcome
// distribution and EV.
type SpotCheckResult struct {
	TotalGames    int     `json:"totalGames"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Pushes        int     `json:"pushes"`
	TotalWinnings float64 `json:"totalWinnings"`
	TotalBet      float64 `json:"totalBet"`
	ExpectedValue float64 `json:"expectedValue"`
	WinRate       float64 `json:"winRate"`
	ReturnRate    float64 `json:"returnRate"`
}

// RunSpotCheck plays the forced scenario across many independently seeded
// shoes. Each iteration draws its own shoe (seed+i) with the scenario's
// cards removed, so the remaining composition stays honest.
func RunSpotCheck(cfg SpotCheckConfig) (*SpotCheckResult, error) {
	if cfg.NumDecks < 1 {
		return nil, fmt.Errorf("num_decks must be at least 1, got %d", cfg.NumDecks)
	}
	if len(cfg.PlayerCards) == 0 {
		return nil, fmt.Errorf("player_cards must not be empty")
	}
	strat, err := strategy.New(cfg.Strategy)
	if err != nil {
		return nil, fmt.Errorf("invalid strategy: %w", err)
	}

	rules := cfg.Rules.GameRules()
	betSize := math.Max(cfg.BetSize, 1.0)
	forced := strategy.ActionFromCode(cfg.ForcedAction)

	result := &SpotCheckResult{TotalGames: cfg.Iterations}

	for i := 0; i < cfg.Iterations; i++ {
		// A full fresh shoe per iteration; penetration never triggers.
		sh := shoe.New(cfg.NumDecks, 100, cfg.Seed+int64(i))
		for _, rank := range cfg.PlayerCards {
			sh.RemoveCardByRank(rank)
		}
		sh.RemoveCardByRank(cfg.DealerCard)

		g := game.New(sh, rules, buildCounter(cfg.Counting))

		playerCards := make([]shoe.Card, len(cfg.PlayerCards))
		for j, rank := range cfg.PlayerCards {
			playerCards[j] = shoe.NewCard(rank)
		}
		dealerUp := shoe.NewCard(cfg.DealerCard)
		dealerCards := []shoe.Card{dealerUp, g.DealCard()}

		if game.IsBlackjack(playerCards) {
			result.TotalBet += betSize
			if game.IsBlackjack(dealerCards) {
				result.Pushes++
			} else {
				result.Wins++
				result.TotalWinnings += betSize * rules.BlackjackPayout()
			}
			continue
		}
		if game.IsBlackjack(dealerCards) {
			result.Losses++
			result.TotalWinnings -= betSize
			result.TotalBet += betSize
			continue
		}

		hands := playForcedScenario(g, strat, rules, playerCards, dealerUp, forced)

		dealerFinal := g.PlayDealer(dealerCards)
		winnings := g.Settle(hands, dealerFinal, betSize)

		betUnits := 0.0
		for j := range hands {
			betUnits += hands[j].Bet
		}
		result.TotalWinnings += winnings
		result.TotalBet += betSize * betUnits

		switch {
		case winnings > 0:
			result.Wins++
		case winnings < 0:
			result.Losses++
		default:
			result.Pushes++
		}
	}

	if result.TotalGames > 0 {
		result.ExpectedValue = result.TotalWinnings / float64(result.TotalGames)
		result.WinRate = float64(result.Wins) / float64(result.TotalGames) * 100.0
	}
	if math.Abs(result.TotalBet) > epsilon {
		result.ReturnRate = result.TotalWinnings / result.TotalBet * 100.0
	}
	return result, nil
}

// playForcedScenario applies the forced first action to the starting hand and
// then finishes play: split branches resolve each hand against the strategy
// with resplit rules in force, a forced hit keeps consulting the strategy
// while it says to hit, and forced stand or double ends the turn immediately.
func playForcedScenario(g *game.Game, strat *strategy.Strategy, rules game.Rules, playerCards []shoe.Card, dealerUp shoe.Card, forced strategy.Action) []game.Hand {
	dealerLabel := game.DealerLabel(dealerUp)
	hands := []game.Hand{{Cards: append([]shoe.Card(nil), playerCards...), Bet: 1.0}}

	isPair := game.IsPair(playerCards)

	switch forced {
	case strategy.Split:
		if isPair {
			detached := hands[0].Cards[len(hands[0].Cards)-1]
			hands[0].Cards = hands[0].Cards[:len(hands[0].Cards)-1]
			newHand := game.Hand{Cards: []shoe.Card{detached, g.DealCard()}, Bet: 1.0}
			hands[0].Cards = append(hands[0].Cards, g.DealCard())
			hands = append(hands, newHand)
		}
	case strategy.Double:
		if len(playerCards) == 2 {
			hands[0].Cards = append(hands[0].Cards, g.DealCard())
		}
	case strategy.Hit:
		hands[0].Cards = append(hands[0].Cards, g.DealCard())
	case strategy.Stand:
	}

	switch forced {
	case strategy.Split:
		playSplitHands(g, strat, rules, &hands, dealerLabel)
	case strategy.Hit:
		playHitContinuation(g, strat, &hands[0], dealerLabel)
	default:
		if value, _ := game.HandValue(hands[0].Cards); value > 21 {
			hands[0].Result = game.OutcomeLose
		}
	}
	return hands
}

// playSplitHands resolves every hand spawned by a forced split, consulting
// the strategy per decision. All hands here are post-split, so split rights
// follow the resplit rules (aces gated separately) and doubling follows DAS.
func playSplitHands(g *game.Game, strat *strategy.Strategy, rules game.Rules, hands *[]game.Hand, dealerLabel string) {
	for i := 0; i < len(*hands); i++ {
		h := &(*hands)[i]
		if value, _ := game.HandValue(h.Cards); value > 21 {
			h.Result = game.OutcomeLose
			continue
		}
		for {
			value, _ := game.HandValue(h.Cards)
			if value >= 21 {
				break
			}

			canResplit := false
			if game.IsPair(h.Cards) {
				if game.IsAcePair(h.Cards) {
					canResplit = rules.ResplitAces
				} else {
					canResplit = rules.AllowResplit
				}
			}

			playerLabel := ""
			if canResplit {
				playerLabel = game.PairLabel(h.Cards)
			}
			if playerLabel == "" {
				playerLabel = game.HandLabel(h.Cards)
			}

			canDouble := rules.DoubleAfterSplit && len(h.Cards) == 2
			action := strat.DecideAction(playerLabel, dealerLabel, canDouble, canResplit, g.CountRange())

			if action == strategy.Stand {
				break
			}
			if action == strategy.Double && canDouble {
				h.Bet *= 2.0
				h.Cards = append(h.Cards, g.DealCard())
				break
			}
			if action == strategy.Split && canResplit && len(h.Cards) == 2 {
				detached := h.Cards[len(h.Cards)-1]
				h.Cards = h.Cards[:len(h.Cards)-1]
				newHand := game.Hand{Cards: []shoe.Card{detached, g.DealCard()}, Bet: h.Bet}
				h.Cards = append(h.Cards, g.DealCard())
				*hands = append(*hands, newHand)
				h = &(*hands)[i]
				continue
			}

			// Hit, or an illegal double/split degrading to one.
			h.Cards = append(h.Cards, g.DealCard())
			if value, _ := game.HandValue(h.Cards); value > 21 {
				break
			}
		}
		if value, _ := game.HandValue(h.Cards); value > 21 {
			h.Result = game.OutcomeLose
		}
	}
}

// playHitContinuation finishes a forced-hit hand: keep hitting while the
// strategy says to, with doubling and splitting off the table.
func playHitContinuation(g *game.Game, strat *strategy.Strategy, h *game.Hand, dealerLabel string) {
	if value, _ := game.HandValue(h.Cards); value > 21 {
		h.Result = game.OutcomeLose
		return
	}
	for {
		value, _ := game.HandValue(h.Cards)
		if value >= 21 {
			break
		}
		action := strat.DecideAction(game.HandLabel(h.Cards), dealerLabel, false, false, g.CountRange())
		if action != strategy.Hit {
			break
		}
		h.Cards = append(h.Cards, g.DealCard())
		if value, _ := game.HandValue(h.Cards); value > 21 {
			break
		}
	}
	if value, _ := game.HandValue(h.Cards); value > 21 {
		h.Result = game.OutcomeLose
	}
}
