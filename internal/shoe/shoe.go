// Package shoe models the physical card supply for a blackjack table: one or
// more decks shuffled together, dealt until the penetration threshold is
// crossed, then reshuffled as a unit.
package shoe

import (
	rand "math/rand/v2"

	"github.com/lox/blackjacksim/internal/randutil"
)

// CardsPerDeck is the size of a single standard deck.
const CardsPerDeck = 52

// Shoe holds the undealt cards for a simulation run. Cards are dealt from the
// tail of the slice. The random source is created once from the run's seed and
// advances monotonically across reshuffles; it is never reseeded.
type Shoe struct {
	numDecks             int
	cards                []Card
	used                 int
	penetrationThreshold int
	penetration          float64
	rng                  *rand.Rand
}

// New creates a shoe of numDecks decks, shuffled with a stream derived from
// seed. penetrationThreshold is the percentage of dealt cards beyond which
// ShouldReshuffle starts to consider a reshuffle.
func New(numDecks, penetrationThreshold int, seed int64) *Shoe {
	s := &Shoe{
		numDecks:             numDecks,
		penetrationThreshold: penetrationThreshold,
		rng:                  randutil.New(seed),
	}
	s.Shuffle()
	return s
}

// Shuffle rebuilds the full multi-deck composition in rank-major order and
// permutes it using the shoe's existing random stream. Used-card accounting
// and penetration reset to zero. Safe to call repeatedly; each call continues
// the same random stream rather than starting a fresh one.
func (s *Shoe) Shuffle() {
	total := s.numDecks * CardsPerDeck
	if cap(s.cards) < total {
		s.cards = make([]Card, 0, total)
	} else {
		s.cards = s.cards[:0]
	}
	for d := 0; d < s.numDecks; d++ {
		for _, rank := range Ranks {
			for i := 0; i < 4; i++ {
				s.cards = append(s.cards, NewCard(rank))
			}
		}
	}
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
	s.used = 0
	s.penetration = 0
}

// DealCard pops one card from the tail of the shoe. An empty shoe is
// transparently replenished by a shuffle first, so dealing never fails.
func (s *Shoe) DealCard() Card {
	if len(s.cards) == 0 {
		s.Shuffle()
	}
	card := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	s.used++
	total := s.numDecks * CardsPerDeck
	s.penetration = float64(s.used) / float64(total) * 100
	return card
}

// RemainingCards returns the number of undealt cards.
func (s *Shoe) RemainingCards() int {
	return len(s.cards)
}

// NumDecks returns the shoe's deck count.
func (s *Shoe) NumDecks() int {
	return s.numDecks
}

// Penetration returns the percentage of the shoe dealt since the last shuffle.
func (s *Shoe) Penetration() float64 {
	return s.penetration
}

// ShouldReshuffle reports whether the shoe wants a reshuffle before the next
// round: penetration has crossed the threshold AND fewer than one deck's worth
// of cards remain. The two-part gate avoids reshuffling when only slightly
// over threshold with plenty of cards still in play, and the caller checks it
// between rounds so a reshuffle never happens mid-hand.
func (s *Shoe) ShouldReshuffle() bool {
	return s.penetration >= float64(s.penetrationThreshold) && len(s.cards) < CardsPerDeck
}

// RemoveCardByRank removes the first undealt card with the given rank, if
// present, and reports whether a removal occurred. Used by spot-check setups
// to reserve a known deal; used-card and penetration accounting are untouched.
func (s *Shoe) RemoveCardByRank(rank string) bool {
	for i, c := range s.cards {
		if c.Rank == rank {
			s.cards = append(s.cards[:i], s.cards[i+1:]...)
			return true
		}
	}
	return false
}
