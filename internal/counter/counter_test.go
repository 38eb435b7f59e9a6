package counter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjacksim/internal/shoe"
)

func TestHiLoWeights(t *testing.T) {
	c := New(SystemHiLo, nil)
	for _, rank := range []string{"2", "3", "4", "5", "6"} {
		c.Update(shoe.NewCard(rank))
	}
	assert.Equal(t, 5.0, c.RunningCount())

	for _, rank := range []string{"10", "J", "Q", "K", "A"} {
		c.Update(shoe.NewCard(rank))
	}
	assert.Equal(t, 0.0, c.RunningCount())

	c.Update(shoe.NewCard("7"))
	c.Update(shoe.NewCard("8"))
	c.Update(shoe.NewCard("9"))
	assert.Equal(t, 0.0, c.RunningCount(), "7-9 are neutral in Hi-Lo")
}

func TestUnknownSystemFallsBackToHiLo(t *testing.T) {
	c := New("No Such System", nil)
	c.Update(shoe.NewCard("2"))
	c.Update(shoe.NewCard("A"))
	assert.Equal(t, 0.0, c.RunningCount())

	c.Update(shoe.NewCard("5"))
	assert.Equal(t, 1.0, c.RunningCount())
}

func TestCustomWeights(t *testing.T) {
	c := New(SystemCustom, map[string]int{"A": 3})
	c.Update(shoe.NewCard("A"))
	c.Update(shoe.NewCard("K")) // no weight, contributes 0
	assert.Equal(t, 3.0, c.RunningCount())
}

func TestNamedSystems(t *testing.T) {
	tests := []struct {
		system string
		rank   string
		want   float64
	}{
		{SystemHiOptI, "2", 0},
		{SystemHiOptI, "A", 0},
		{SystemHiOptII, "4", 2},
		{SystemHiOptII, "K", -2},
		{SystemOmegaII, "9", -1},
		{SystemOmegaII, "6", 2},
		{SystemKO, "7", 1},
		{SystemAceFive, "5", 1},
		{SystemAceFive, "A", -1},
		{SystemAceFive, "K", 0},
	}
	for _, tt := range tests {
		c := New(tt.system, nil)
		c.Update(shoe.NewCard(tt.rank))
		assert.Equal(t, tt.want, c.RunningCount(), "%s %s", tt.system, tt.rank)
	}
}

func TestTrueCountClamp(t *testing.T) {
	c := New(SystemHiLo, nil)
	for i := 0; i < 6; i++ {
		c.Update(shoe.NewCard("2"))
	}
	require.Equal(t, 6.0, c.RunningCount())

	// Two decks remaining: 6 / 2 = 3.
	assert.InDelta(t, 3.0, c.TrueCount(104, 6), 1e-9)

	// A handful of cards left clamps to half a deck.
	assert.InDelta(t, 12.0, c.TrueCount(3, 6), 1e-9)
	assert.InDelta(t, 12.0, c.TrueCount(0, 6), 1e-9)

	// Full shoe clamps to numDecks.
	assert.InDelta(t, 1.0, c.TrueCount(312, 6), 1e-9)
}

func TestTrueCountZeroRunning(t *testing.T) {
	c := New(SystemHiLo, nil)
	for _, remaining := range []int{0, 1, 26, 52, 312} {
		assert.Equal(t, 0.0, c.TrueCount(remaining, 6), "remaining=%d", remaining)
	}
}

func TestCountRangeRounds(t *testing.T) {
	c := New(SystemCustom, map[string]int{"2": 5})
	c.Update(shoe.NewCard("2"))

	// 5 / 2 decks = 2.5, rounds to 3 (half away from zero).
	assert.Equal(t, 3, c.CountRange(104, 6))
	// 5 / 4 decks = 1.25, rounds to 1.
	assert.Equal(t, 1, c.CountRange(208, 6))
}

func TestReset(t *testing.T) {
	c := New(SystemHiLo, nil)
	c.Update(shoe.NewCard("6"))
	require.Equal(t, 1.0, c.RunningCount())
	c.Reset()
	assert.Equal(t, 0.0, c.RunningCount())
}
