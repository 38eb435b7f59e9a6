package game

// Table rule variants recognized in configuration.
const (
	StandsOn17     = "17"  // dealer stands on 17, soft or hard, unless hits-soft-17 is set
	StandsOn17Only = "17s" // dealer stands on any 17 regardless of softness
)

// Blackjack payout variants.
const (
	Pays3to2 = "3:2"
	Pays6to5 = "6:5"
	Pays1to1 = "1:1"
)

// Rules is the house rule set for a simulation run. Immutable once the run
// starts.
type Rules struct {
	DealerHitsSoft17 bool
	DealerStandsOn   string
	DoubleAfterSplit bool
	AllowResplit     bool
	ResplitAces      bool
	BlackjackPays    string
}

// BlackjackPayout returns the winnings multiplier for a natural blackjack.
// Unknown payout strings pay the 3:2 default.
func (r Rules) BlackjackPayout() float64 {
	switch r.BlackjackPays {
	case Pays6to5:
		return 1.2
	case Pays1to1:
		return 1.0
	default:
		return 1.5
	}
}
