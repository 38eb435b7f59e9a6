// Package game implements the hand-resolution state machine for one blackjack
// round: player decisions against a strategy, dealer auto-play against the
// house rules, and per-hand settlement.
package game

import (
	"github.com/lox/blackjacksim/internal/counter"
	"github.com/lox/blackjacksim/internal/shoe"
	"github.com/lox/blackjacksim/internal/strategy"
)

// CardSource supplies cards for a round. *shoe.Shoe is the production
// implementation; tests stack known sequences.
type CardSource interface {
	DealCard() shoe.Card
	RemainingCards() int
	NumDecks() int
	ShouldReshuffle() bool
	Shuffle()
}

// Decider picks an action for a decision point. *strategy.Strategy is the
// production implementation.
type Decider interface {
	DecideAction(playerLabel, dealerLabel string, canDouble, canSplit bool, count int) strategy.Action
}

// Outcome is the structured result of one round.
type Outcome struct {
	Outcome      string      `json:"outcome"`
	Winnings     float64     `json:"winnings"`
	Bet          float64     `json:"bet"`
	PlayerCards  []shoe.Card `json:"player_cards"`
	DealerCards  []shoe.Card `json:"dealer_cards"`
	DealerUpCard shoe.Card   `json:"dealer_up_card"`

	// InitialAction is the first decision taken on the original two-card
	// hand, captured once for decision-cell attribution. HasInitialAction is
	// false only when the round short-circuited before any decision point.
	InitialAction    strategy.Action `json:"initial_action"`
	HasInitialAction bool            `json:"has_initial_action"`

	Hands []Hand `json:"hands"`
}

// Game binds a card source, rule set, and optional counter for a run. Every
// card drawn through Game.DealCard updates the counter.
type Game struct {
	Shoe    CardSource
	Rules   Rules
	Counter *counter.Counter
}

// New creates a Game. Counter may be nil when counting is disabled.
func New(source CardSource, rules Rules, c *counter.Counter) *Game {
	return &Game{Shoe: source, Rules: rules, Counter: c}
}

// DealCard draws one card and feeds it to the counter.
func (g *Game) DealCard() shoe.Card {
	card := g.Shoe.DealCard()
	if g.Counter != nil {
		g.Counter.Update(card)
	}
	return card
}

// TrueCount returns the current true count, or 0 when counting is disabled.
func (g *Game) TrueCount() float64 {
	if g.Counter == nil {
		return 0
	}
	return g.Counter.TrueCount(g.Shoe.RemainingCards(), g.Shoe.NumDecks())
}

// CountRange returns the current rounded count bucket, or 0 when counting is
// disabled.
func (g *Game) CountRange() int {
	if g.Counter == nil {
		return 0
	}
	return g.Counter.CountRange(g.Shoe.RemainingCards(), g.Shoe.NumDecks())
}

// PlayDealer draws out the dealer's hand. The dealer hits below the stand
// threshold: 17, or 18 while holding a soft 17 under the hits-soft-17 rule.
// The "17s" variant pins the threshold at 17 regardless of softness.
func (g *Game) PlayDealer(dealerCards []shoe.Card) []shoe.Card {
	hand := make([]shoe.Card, len(dealerCards), len(dealerCards)+4)
	copy(hand, dealerCards)
	for {
		value, soft := HandValue(hand)
		if value > 21 {
			break
		}
		standValue := 17
		if g.Rules.DealerStandsOn != StandsOn17Only &&
			g.Rules.DealerHitsSoft17 && soft && value == 17 {
			standValue = 18
		}
		if value >= standValue {
			break
		}
		hand = append(hand, g.DealCard())
	}
	return hand
}

// PlayRound plays one complete round: deal, player decision loop (splits grow
// the hand list and are visited in append order), dealer blackjack check,
// dealer play, settlement. betSize is the stake per initial hand.
func (g *Game) PlayRound(decider Decider, betSize float64) Outcome {
	if g.Shoe.ShouldReshuffle() {
		g.Shoe.Shuffle()
		if g.Counter != nil {
			g.Counter.Reset()
		}
	}

	playerCards := []shoe.Card{g.DealCard(), g.DealCard()}
	dealerCards := []shoe.Card{g.DealCard(), g.DealCard()}
	dealerUp := dealerCards[0]

	// A player natural resolves immediately; the hole card is never a
	// decision point in this branch and the recorded action is Stand.
	if IsBlackjack(playerCards) {
		outcome := Outcome{
			Bet:              betSize,
			PlayerCards:      playerCards,
			DealerCards:      dealerCards,
			DealerUpCard:     dealerUp,
			InitialAction:    strategy.Stand,
			HasInitialAction: true,
			Hands:            []Hand{{Cards: playerCards, Bet: 1.0}},
		}
		if IsBlackjack(dealerCards) {
			outcome.Outcome = OutcomePush
		} else {
			outcome.Outcome = OutcomeBlackjack
			outcome.Winnings = betSize * g.Rules.BlackjackPayout()
		}
		return outcome
	}

	hands := []Hand{{Cards: append([]shoe.Card(nil), playerCards...), Bet: 1.0}}
	totalBetUnits := 1.0
	dealerLabel := DealerLabel(dealerUp)

	var initialAction strategy.Action
	initialActionSet := false

	for handIndex := 0; handIndex < len(hands); handIndex++ {
		for {
			hasSplit := len(hands) > 1
			cards := hands[handIndex].Cards

			// Only the original never-split two-card hand may always double;
			// after a split, doubling needs the DAS rule.
			canDouble := false
			if len(cards) == 2 {
				if !hasSplit {
					canDouble = handIndex == 0
				} else {
					canDouble = g.Rules.DoubleAfterSplit
				}
			}

			value, _ := HandValue(cards)
			if value >= 21 {
				break
			}

			isPair := IsPair(cards)
			// Before any split a pair may always split; afterwards resplit
			// rights apply, with ace pairs gated separately.
			canResplit := false
			if hasSplit && isPair {
				if IsAcePair(cards) {
					canResplit = g.Rules.ResplitAces
				} else {
					canResplit = g.Rules.AllowResplit
				}
			} else {
				canResplit = !hasSplit && isPair
			}
			canSplit := isPair && canResplit

			playerLabel := ""
			if canSplit {
				playerLabel = PairLabel(cards)
			}
			if playerLabel == "" {
				playerLabel = HandLabel(cards)
			}

			action := decider.DecideAction(playerLabel, dealerLabel, canDouble, canSplit, g.CountRange())

			// Capture the very first decision of the original two-card hand.
			if !initialActionSet && handIndex == 0 && len(hands) == 1 && len(cards) == len(playerCards) {
				initialAction = action
				initialActionSet = true
			}

			if g.applyAction(&hands, handIndex, action, canDouble, canSplit, &totalBetUnits) {
				break
			}
		}
	}

	// Dealer blackjack is only checked once the player has finished deciding;
	// the hole card stays logically hidden until this point.
	if IsBlackjack(dealerCards) {
		totalWinnings := 0.0
		for i := range hands {
			totalWinnings -= betSize * hands[i].Bet
		}
		return Outcome{
			Outcome:          OutcomeLose,
			Winnings:         totalWinnings,
			Bet:              betSize * totalBetUnits,
			PlayerCards:      playerCards,
			DealerCards:      dealerCards,
			DealerUpCard:     dealerUp,
			InitialAction:    initialAction,
			HasInitialAction: initialActionSet,
			Hands:            hands,
		}
	}

	dealerFinal := g.PlayDealer(dealerCards)
	totalWinnings := g.Settle(hands, dealerFinal, betSize)

	outcome := OutcomePush
	if totalWinnings > 0 {
		outcome = OutcomeWin
	} else if totalWinnings < 0 {
		outcome = OutcomeLose
	}

	return Outcome{
		Outcome:          outcome,
		Winnings:         totalWinnings,
		Bet:              betSize * totalBetUnits,
		PlayerCards:      playerCards,
		DealerCards:      dealerFinal,
		DealerUpCard:     dealerUp,
		InitialAction:    initialAction,
		HasInitialAction: initialActionSet,
		Hands:            hands,
	}
}

// applyAction executes one chosen action against hands[handIndex] and reports
// whether the hand's turn is over. Illegal Double and Split requests degrade
// to a forced Hit.
func (g *Game) applyAction(hands *[]Hand, handIndex int, action strategy.Action, canDouble, canSplit bool, totalBetUnits *float64) (done bool) {
	h := &(*hands)[handIndex]
	switch action {
	case strategy.Stand:
		return true

	case strategy.Double:
		if len(h.Cards) == 2 && canDouble {
			h.Bet *= 2.0
			*totalBetUnits += h.Bet / 2.0
			h.Cards = append(h.Cards, g.DealCard())
			return true
		}
		// Illegal double: one forced card, then the turn ends.
		g.hit(h)
		return true

	case strategy.Split:
		if len(h.Cards) == 2 && canSplit {
			detached := h.Cards[len(h.Cards)-1]
			h.Cards = h.Cards[:len(h.Cards)-1]
			newHand := Hand{Cards: []shoe.Card{detached, g.DealCard()}, Bet: h.Bet}
			h.Cards = append(h.Cards, g.DealCard())
			*totalBetUnits += newHand.Bet
			*hands = append(*hands, newHand)
			// Keep playing the original hand; the new hand is visited later.
			return false
		}
		return g.hit(h)

	default: // Hit
		return g.hit(h)
	}
}

// hit draws one card and reports whether the hand is finished (busted).
func (g *Game) hit(h *Hand) bool {
	h.Cards = append(h.Cards, g.DealCard())
	if value, _ := HandValue(h.Cards); value > 21 {
		h.Result = OutcomeLose
		return true
	}
	return false
}

// Settle compares every hand not already marked a loss against the dealer's
// final total and returns the round's net winnings. A busted hand always
// loses, even when the dealer busts too.
func (g *Game) Settle(hands []Hand, dealerFinal []shoe.Card, betSize float64) float64 {
	dealerValue, _ := HandValue(dealerFinal)
	dealerBust := dealerValue > 21

	total := 0.0
	for i := range hands {
		bet := betSize * hands[i].Bet
		if hands[i].Result == OutcomeLose {
			total -= bet
			continue
		}
		playerValue, _ := HandValue(hands[i].Cards)
		switch {
		case playerValue > 21:
			total -= bet
		case dealerBust || playerValue > dealerValue:
			total += bet
		case playerValue < dealerValue:
			total -= bet
		}
	}
	return total
}
