// Package counter derives a running and true count from cards seen, under a
// pluggable rank-weighting system.
package counter

import (
	"math"

	"github.com/lox/blackjacksim/internal/shoe"
)

// Named counting systems. Unknown system names fall back to Hi-Lo.
const (
	SystemHiLo    = "Hi-Lo"
	SystemHiOptI  = "Hi-Opt I"
	SystemHiOptII = "Hi-Opt II"
	SystemOmegaII = "Omega II"
	SystemKO      = "KO (Knockout)"
	SystemAceFive = "Ace-Five"
	SystemCustom  = "Custom"
)

// Counter accumulates a running count from dealt cards. The count only moves
// when a card is dealt and only resets when the shoe reshuffles.
type Counter struct {
	runningCount float64
	weights      map[string]int
}

// New creates a counter for the named system. SystemCustom uses the supplied
// weight table; any unrecognized name gets Hi-Lo weights.
func New(system string, custom map[string]int) *Counter {
	if system == "" {
		system = SystemHiLo
	}
	var weights map[string]int
	if system == SystemCustom {
		weights = custom
		if weights == nil {
			weights = map[string]int{}
		}
	} else {
		weights = systemWeights(system)
	}
	return &Counter{weights: weights}
}

// Update adds the card's weight to the running count. Ranks without a weight
// contribute zero.
func (c *Counter) Update(card shoe.Card) {
	c.runningCount += float64(c.weights[card.Rank])
}

// Reset zeroes the running count. Called exactly when the shoe reshuffles.
func (c *Counter) Reset() {
	c.runningCount = 0
}

// RunningCount returns the raw running count.
func (c *Counter) RunningCount() float64 {
	return c.runningCount
}

// TrueCount normalizes the running count by the estimated remaining decks,
// clamped to [0.5, numDecks]. The 0.5 floor guards the divide as the shoe
// runs out.
func (c *Counter) TrueCount(remainingCards, numDecks int) float64 {
	decks := float64(remainingCards) / float64(shoe.CardsPerDeck)
	decks = math.Max(decks, 0.5)
	decks = math.Min(decks, float64(numDecks))
	if decks <= 0 {
		return 0
	}
	return c.runningCount / decks
}

// CountRange rounds the true count to the nearest integer, the bucket key
// used for deviation-table lookups and count statistics.
func (c *Counter) CountRange(remainingCards, numDecks int) int {
	return int(math.Round(c.TrueCount(remainingCards, numDecks)))
}

func systemWeights(system string) map[string]int {
	switch system {
	case SystemHiOptI:
		return map[string]int{
			"2": 0, "3": 1, "4": 1, "5": 1, "6": 1,
			"7": 0, "8": 0, "9": 0,
			"10": -1, "J": -1, "Q": -1, "K": -1, "A": 0,
		}
	case SystemHiOptII:
		return map[string]int{
			"2": 1, "3": 1, "4": 2, "5": 2, "6": 1,
			"7": 1, "8": 0, "9": 0,
			"10": -2, "J": -2, "Q": -2, "K": -2, "A": 0,
		}
	case SystemOmegaII:
		return map[string]int{
			"2": 1, "3": 1, "4": 2, "5": 2, "6": 2,
			"7": 1, "8": 0, "9": -1,
			"10": -2, "J": -2, "Q": -2, "K": -2, "A": 0,
		}
	case SystemKO:
		return map[string]int{
			"2": 1, "3": 1, "4": 1, "5": 1, "6": 1, "7": 1,
			"8": 0, "9": 0,
			"10": -1, "J": -1, "Q": -1, "K": -1, "A": -1,
		}
	case SystemAceFive:
		return map[string]int{
			"2": 0, "3": 0, "4": 0, "5": 1, "6": 0,
			"7": 0, "8": 0, "9": 0,
			"10": 0, "J": 0, "Q": 0, "K": 0, "A": -1,
		}
	default: // Hi-Lo, including unrecognized names
		return map[string]int{
			"2": 1, "3": 1, "4": 1, "5": 1, "6": 1,
			"7": 0, "8": 0, "9": 0,
			"10": -1, "J": -1, "Q": -1, "K": -1, "A": -1,
		}
	}
}
