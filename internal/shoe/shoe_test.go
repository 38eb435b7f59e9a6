package shoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCard(t *testing.T) {
	tests := []struct {
		rank  string
		value int
	}{
		{"A", 11},
		{"K", 10},
		{"Q", 10},
		{"J", 10},
		{"10", 10},
		{"9", 9},
		{"2", 2},
	}
	for _, tt := range tests {
		c := NewCard(tt.rank)
		assert.Equal(t, tt.rank, c.Rank)
		assert.Equal(t, tt.value, c.Value, "rank %s", tt.rank)
	}
}

func TestShoeComposition(t *testing.T) {
	s := New(6, 75, 1)
	require.Equal(t, 6*CardsPerDeck, s.RemainingCards())
	require.Equal(t, 0.0, s.Penetration())

	// Count ranks across the whole shoe: 4 per rank per deck.
	counts := make(map[string]int)
	for s.RemainingCards() > 0 {
		counts[s.DealCard().Rank]++
	}
	for _, rank := range Ranks {
		assert.Equal(t, 24, counts[rank], "rank %s", rank)
	}
}

func TestDealFromEmptyShoeReplenishes(t *testing.T) {
	s := New(1, 75, 7)
	for i := 0; i < CardsPerDeck; i++ {
		s.DealCard()
	}
	require.Equal(t, 0, s.RemainingCards())

	// Dealing from empty is equivalent to shuffle-then-deal.
	s.DealCard()
	assert.Equal(t, CardsPerDeck-1, s.RemainingCards())
}

func TestShouldReshuffle(t *testing.T) {
	s := New(1, 75, 3)
	assert.False(t, s.ShouldReshuffle(), "fresh shoe should not want a reshuffle")

	// Deal 39 cards: penetration 75%, remaining 13 < 52.
	for i := 0; i < 39; i++ {
		s.DealCard()
	}
	assert.True(t, s.ShouldReshuffle())

	s.Shuffle()
	assert.False(t, s.ShouldReshuffle(), "reshuffle must reset the gate")
}

func TestShouldReshuffleRequiresBothConditions(t *testing.T) {
	// With 6 decks, 75% penetration leaves 78 cards: over threshold but still
	// holding more than a full deck, so no reshuffle yet.
	s := New(6, 75, 3)
	for i := 0; i < 234; i++ {
		s.DealCard()
	}
	require.GreaterOrEqual(t, s.Penetration(), 75.0)
	assert.False(t, s.ShouldReshuffle())

	for s.RemainingCards() >= CardsPerDeck {
		s.DealCard()
	}
	assert.True(t, s.ShouldReshuffle())
}

func TestRemoveCardByRank(t *testing.T) {
	s := New(1, 75, 11)
	before := s.RemainingCards()

	require.True(t, s.RemoveCardByRank("A"))
	assert.Equal(t, before-1, s.RemainingCards())
	assert.Equal(t, 0.0, s.Penetration(), "removal must not affect penetration accounting")

	for i := 0; i < 3; i++ {
		require.True(t, s.RemoveCardByRank("A"))
	}
	assert.False(t, s.RemoveCardByRank("A"), "only four aces in a single deck")
}

func TestSameSeedSameSequence(t *testing.T) {
	a := New(2, 75, 42)
	b := New(2, 75, 42)
	for i := 0; i < 2*CardsPerDeck; i++ {
		require.Equal(t, a.DealCard(), b.DealCard(), "card %d", i)
	}
}

func TestReshuffleContinuesStream(t *testing.T) {
	// Two shoes with the same seed stay in lockstep across a reshuffle,
	// proving Shuffle continues the stream instead of reseeding.
	a := New(1, 75, 99)
	b := New(1, 75, 99)
	for i := 0; i < 10; i++ {
		a.DealCard()
		b.DealCard()
	}
	a.Shuffle()
	b.Shuffle()
	for i := 0; i < 20; i++ {
		require.Equal(t, a.DealCard(), b.DealCard())
	}
}

func TestUsedPlusRemainingInvariant(t *testing.T) {
	s := New(4, 75, 5)
	total := 4 * CardsPerDeck
	for i := 0; i < 100; i++ {
		s.DealCard()
		assert.Equal(t, total, s.RemainingCards()+i+1)
	}
}
