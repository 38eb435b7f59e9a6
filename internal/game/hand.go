package game

import (
	"strconv"

	"github.com/lox/blackjacksim/internal/shoe"
)

// Round outcome tags.
const (
	OutcomeWin       = "win"
	OutcomeLose      = "lose"
	OutcomePush      = "push"
	OutcomeBlackjack = "blackjack"
)

// Hand is one player hand within a round. Bet is a multiplier on the round's
// bet size: 1.0 normally, doubled by a successful Double; a split hand
// inherits its parent's multiplier. Result is set to OutcomeLose the moment
// the hand busts and is otherwise empty until settlement.
type Hand struct {
	Cards  []shoe.Card `json:"cards"`
	Bet    float64     `json:"bet"`
	Result string      `json:"result,omitempty"`
}

// HandValue returns the best blackjack total for the cards and whether the
// hand is soft (an ace still counted as 11). Each ace is reduced from 11 to 1
// at most once, and only while the total is over 21.
func HandValue(cards []shoe.Card) (int, bool) {
	value := 0
	aces := 0
	for _, c := range cards {
		if c.IsAce() {
			aces++
			value += 11
		} else {
			value += c.Value
		}
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return value, aces > 0 && value <= 21
}

// IsBlackjack reports whether the cards are a two-card 21.
func IsBlackjack(cards []shoe.Card) bool {
	if len(cards) != 2 {
		return false
	}
	value, _ := HandValue(cards)
	return value == 21
}

// IsPair reports whether the cards are a two-card equal-value hand.
func IsPair(cards []shoe.Card) bool {
	return len(cards) == 2 && cards[0].Value == cards[1].Value
}

// IsAcePair reports whether the cards are a pair of aces.
func IsAcePair(cards []shoe.Card) bool {
	return IsPair(cards) && cards[0].IsAce()
}

// PairLabel builds the "V,V" strategy label for a pair ("A,A" for aces,
// "10,10" for any ten-value pair). Returns "" for non-pairs.
func PairLabel(cards []shoe.Card) string {
	if !IsPair(cards) {
		return ""
	}
	symbol := pairSymbol(cards[0])
	return symbol + "," + symbol
}

func pairSymbol(c shoe.Card) string {
	if c.IsAce() {
		return "A"
	}
	return strconv.Itoa(c.Value)
}

// HandLabel builds the soft/hard strategy label for a hand: "S<total>" when
// soft, otherwise the plain total. Pair labels are the caller's concern since
// they depend on split legality.
func HandLabel(cards []shoe.Card) string {
	value, soft := HandValue(cards)
	if soft {
		return "S" + strconv.Itoa(value)
	}
	return strconv.Itoa(value)
}

// DealerLabel is the strategy column key for a dealer up card: "A" for an
// ace, otherwise the card value (faces collapse to "10").
func DealerLabel(c shoe.Card) string {
	if c.IsAce() {
		return "A"
	}
	return strconv.Itoa(c.Value)
}
