package shoe

import "strconv"

// Ranks lists every rank in the order a fresh deck is built, four of each per deck.
var Ranks = [13]string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Card is a single playing card. Suits don't matter for blackjack, so a card
// is just its rank and blackjack value. Immutable once created.
type Card struct {
	Rank  string `json:"rank"`
	Value int    `json:"value"`
}

// NewCard creates a card from its rank symbol. Aces count 11 here; the
// soft-total reduction happens during hand valuation, not on the card.
func NewCard(rank string) Card {
	return Card{Rank: rank, Value: RankValue(rank)}
}

// RankValue returns the blackjack value for a rank symbol: A=11, faces and
// tens=10, everything else its numeric value. Unknown ranks value 0.
func RankValue(rank string) int {
	switch rank {
	case "A":
		return 11
	case "10", "J", "Q", "K":
		return 10
	default:
		n, err := strconv.Atoi(rank)
		if err != nil {
			return 0
		}
		return n
	}
}

// IsAce reports whether the card is an ace.
func (c Card) IsAce() bool {
	return c.Rank == "A"
}

// String returns the rank symbol.
func (c Card) String() string {
	return c.Rank
}
