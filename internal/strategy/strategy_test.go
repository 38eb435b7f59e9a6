package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionCodes(t *testing.T) {
	assert.Equal(t, Stand, ActionFromCode("S"))
	assert.Equal(t, Double, ActionFromCode("D"))
	assert.Equal(t, Split, ActionFromCode("P"))
	assert.Equal(t, Hit, ActionFromCode("H"))
	assert.Equal(t, Hit, ActionFromCode("X"), "unknown codes decode to Hit")
	assert.Equal(t, Hit, ActionFromCode(""))

	for _, a := range []Action{Hit, Stand, Double, Split} {
		assert.Equal(t, a, ActionFromCode(a.Code()))
	}
}

func TestNewRejectsMalformedShapes(t *testing.T) {
	_, err := New(Input{Hard: "not an object"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hard table")

	_, err = New(Input{Hard: map[string]any{"16": "not a row"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be an object")

	_, err = New(Input{HardByCount: map[string]any{"2": "not a table"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hard_by_count")
}

func TestNewSkipsNonStringActionCodes(t *testing.T) {
	s, err := New(Input{
		Hard: map[string]any{
			"16": map[string]any{"10": "S", "9": 42.0},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, Stand, s.DecideAction("16", "10", false, false, 0))
	// The numeric entry was dropped, so this falls to the default (hit < 17).
	assert.Equal(t, Hit, s.DecideAction("16", "9", false, false, 0))
}

func TestStaticLookupOrder(t *testing.T) {
	s := FromTables(false,
		Table{"16": {"10": "H"}},
		Table{"18": {"6": "D"}},
		Table{"8": {"6": "P"}},
		nil, nil, nil,
	)

	// Pair table wins when splitting is possible.
	assert.Equal(t, Split, s.DecideAction("8,8", "6", true, true, 0))
	// Without split rights the pair label resolves via hard table or default.
	assert.Equal(t, Hit, s.DecideAction("16", "10", false, false, 0))
	// Soft label hits the soft table.
	assert.Equal(t, Double, s.DecideAction("S18", "6", true, false, 0))
}

func TestSoftFallsBackToHard(t *testing.T) {
	s := FromTables(false,
		Table{"S17": {"6": "S"}}, // hard table keyed by the raw label
		Table{},                  // soft table empty
		nil, nil, nil, nil,
	)
	// No soft entry for 17, hard table is consulted with the label as given.
	assert.Equal(t, Stand, s.DecideAction("S17", "6", false, false, 0))
}

func TestDoubleDowngradesToHit(t *testing.T) {
	s := FromTables(false,
		Table{"11": {"6": "D"}},
		Table{"18": {"5": "D"}},
		nil, nil, nil, nil,
	)
	assert.Equal(t, Double, s.DecideAction("11", "6", true, false, 0))
	assert.Equal(t, Hit, s.DecideAction("11", "6", false, false, 0))
	assert.Equal(t, Hit, s.DecideAction("S18", "5", false, false, 0))
}

func TestCountDeviations(t *testing.T) {
	s := FromTables(true,
		Table{"16": {"10": "H"}},
		nil, nil,
		CountTable{"3": {"16": {"10": "S"}}},
		nil, nil,
	)

	// At bucket +3 the deviation stands; elsewhere the static table hits.
	assert.Equal(t, Stand, s.DecideAction("16", "10", false, false, 3))
	assert.Equal(t, Hit, s.DecideAction("16", "10", false, false, 2))
	assert.Equal(t, Hit, s.DecideAction("16", "10", false, false, -3))
	// Count zero never consults deviation tables.
	assert.Equal(t, Hit, s.DecideAction("16", "10", false, false, 0))
}

func TestCountDeviationsDisabledFlag(t *testing.T) {
	s := FromTables(false,
		Table{"16": {"10": "H"}},
		nil, nil,
		CountTable{"3": {"16": {"10": "S"}}},
		nil, nil,
	)
	assert.Equal(t, Hit, s.DecideAction("16", "10", false, false, 3))
}

func TestCountPairLookupRequiresSplit(t *testing.T) {
	s := FromTables(true,
		nil, nil, nil,
		nil, nil,
		CountTable{"2": {"8": {"6": "P"}}},
	)
	assert.Equal(t, Split, s.DecideAction("8,8", "6", true, true, 2))
	// Without split rights the pair deviation is skipped and the default hits
	// the unresolvable pair label.
	assert.Equal(t, Hit, s.DecideAction("8,8", "6", true, false, 2))
}

func TestDefaultChain(t *testing.T) {
	s := FromTables(false, nil, nil, nil, nil, nil, nil)

	assert.Equal(t, Stand, s.DecideAction("S13", "10", true, false, 0), "soft defaults to stand")
	assert.Equal(t, Hit, s.DecideAction("16", "10", true, false, 0))
	assert.Equal(t, Stand, s.DecideAction("17", "10", true, false, 0))
	assert.Equal(t, Stand, s.DecideAction("21", "2", false, false, 0))
	assert.Equal(t, Hit, s.DecideAction("7,7", "2", true, true, 0), "unresolved pair labels hit")
}

func TestPairKeyFromLabel(t *testing.T) {
	tests := []struct {
		label string
		key   string
	}{
		{"A,A", "11"},
		{"10,10", "10"},
		{"8,8", "8"},
		{"2, 2", "2"},
		{"8,9", ""},
		{"8", ""},
		{"x,x", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.key, pairKeyFromLabel(tt.label), "label %q", tt.label)
	}
}

func TestBasicStrategySpotValues(t *testing.T) {
	s := Basic()

	assert.Equal(t, Split, s.DecideAction("8,8", "6", true, true, 0))
	assert.Equal(t, Split, s.DecideAction("A,A", "10", true, true, 0))
	assert.Equal(t, Stand, s.DecideAction("10,10", "6", true, true, 0))
	assert.Equal(t, Double, s.DecideAction("11", "6", true, false, 0))
	assert.Equal(t, Hit, s.DecideAction("11", "A", true, false, 0))
	assert.Equal(t, Stand, s.DecideAction("12", "4", true, false, 0))
	assert.Equal(t, Hit, s.DecideAction("12", "2", true, false, 0))
	assert.Equal(t, Stand, s.DecideAction("16", "6", true, false, 0))
	assert.Equal(t, Hit, s.DecideAction("16", "7", true, false, 0))
	assert.Equal(t, Double, s.DecideAction("S18", "6", true, false, 0))
	assert.Equal(t, Stand, s.DecideAction("S18", "7", true, false, 0))
	assert.Equal(t, Hit, s.DecideAction("S18", "9", true, false, 0))
	// Pair of fives never splits; it doubles like a hard ten.
	assert.Equal(t, Double, s.DecideAction("5,5", "6", true, true, 0))
	assert.Equal(t, Hit, s.DecideAction("5,5", "10", true, true, 0))
}
