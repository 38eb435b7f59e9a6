package sim

import (
	"math"
	"strconv"

	"github.com/lox/blackjacksim/internal/game"
	"github.com/lox/blackjacksim/internal/shoe"
)

// Result holds the final aggregates of a run. Global totals are reconciled
// from the decision-cell accumulators so that split-heavy runs report actual
// hands resolved rather than the requested iteration count.
type Result struct {
	TotalGames    int     `json:"totalGames"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Pushes        int     `json:"pushes"`
	Blackjacks    int     `json:"blackjacks"`
	TotalWinnings float64 `json:"totalWinnings"`
	TotalBet      float64 `json:"totalBet"`
	ExpectedValue float64 `json:"expectedValue"`
	WinRate       float64 `json:"winRate"`
	ReturnRate    float64 `json:"returnRate"`

	CountStats *CountStats           `json:"countStats,omitempty"`
	CellStats  map[string]*CellStats `json:"cellStats"`
}

// CellStats is one decision cell: every round whose original two-card hand,
// dealer up card, first action, and pre-round count bucket matched the key.
type CellStats struct {
	PlayerTotal   string  `json:"playerTotal"`
	DealerCard    string  `json:"dealerCard"`
	Action        string  `json:"action"`
	Count         int     `json:"count"`
	Hands         int     `json:"hands"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Pushes        int     `json:"pushes"`
	TotalWinnings float64 `json:"totalWinnings"`
	TotalBet      float64 `json:"totalBet"`
}

// CountStats aggregates per-count-bucket performance. EVByCount holds summed
// winnings per bucket during the run and is normalized to a per-hand mean by
// finalize.
type CountStats struct {
	TotalHands        int                `json:"totalHands"`
	CountDistribution map[string]int     `json:"countDistribution"`
	EVByCount         map[string]float64 `json:"evByCount"`
	HandsByCount      map[string]int     `json:"handsByCount"`
}

func newResult() *Result {
	return &Result{CellStats: map[string]*CellStats{}}
}

func newCountStats() *CountStats {
	return &CountStats{
		CountDistribution: map[string]int{},
		EVByCount:         map[string]float64{},
		HandsByCount:      map[string]int{},
	}
}

func countBucketKey(trueCount float64) string {
	return strconv.Itoa(int(math.Round(trueCount)))
}

func (s *CountStats) recordHand(trueCount float64) {
	key := countBucketKey(trueCount)
	s.CountDistribution[key]++
	s.HandsByCount[key]++
	s.TotalHands++
}

func (s *CountStats) recordWinnings(trueCount float64, winnings float64) {
	s.EVByCount[countBucketKey(trueCount)] += winnings
}

func (s *CountStats) finalize() {
	for key, hands := range s.HandsByCount {
		if hands > 0 {
			if _, ok := s.EVByCount[key]; ok {
				s.EVByCount[key] /= float64(hands)
			}
		}
	}
}

// cellPlayerTotal labels the original two-card hand for cell attribution.
// Value pairs keep their ranks ("K,10") so pair decisions stay visible;
// everything else collapses to the soft or hard total label.
func cellPlayerTotal(cards []shoe.Card) string {
	if len(cards) == 2 && cards[0].Value == cards[1].Value {
		return cards[0].Rank + "," + cards[1].Rank
	}
	return game.HandLabel(cards)
}

// trackCell attributes a finished round to its decision cell. Rounds that
// never reached a decision point carry no initial action and are skipped.
func (r *Result) trackCell(outcome *game.Outcome, countBucket int) {
	if !outcome.HasInitialAction {
		return
	}
	playerTotal := cellPlayerTotal(outcome.PlayerCards)
	dealerCard := game.DealerLabel(outcome.DealerUpCard)
	actionCode := outcome.InitialAction.Code()
	key := playerTotal + "_" + dealerCard + "_" + actionCode + "_" + strconv.Itoa(countBucket)

	cell, ok := r.CellStats[key]
	if !ok {
		cell = &CellStats{
			PlayerTotal: playerTotal,
			DealerCard:  dealerCard,
			Action:      actionCode,
			Count:       countBucket,
		}
		r.CellStats[key] = cell
	}

	cell.Hands++
	cell.TotalBet += outcome.Bet
	cell.TotalWinnings += outcome.Winnings

	switch outcome.Outcome {
	case game.OutcomeWin, game.OutcomeBlackjack:
		cell.Wins++
	case game.OutcomeLose:
		cell.Losses++
	default:
		cell.Pushes++
	}
}

// reconcile re-derives the global totals from the cell accumulators and
// computes the final rates. TotalGames never drops below the iteration count
// so empty-cell runs still report what was simulated.
func (r *Result) reconcile(iterations int) {
	wins, losses, pushes, hands := 0, 0, 0, 0
	totalBet, totalWinnings := 0.0, 0.0
	for _, cell := range r.CellStats {
		wins += cell.Wins
		losses += cell.Losses
		pushes += cell.Pushes
		hands += cell.Hands
		totalBet += cell.TotalBet
		totalWinnings += cell.TotalWinnings
	}

	r.TotalGames = hands
	if iterations > r.TotalGames {
		r.TotalGames = iterations
	}
	r.Wins = wins
	r.Losses = losses
	r.Pushes = pushes
	r.TotalBet = totalBet
	r.TotalWinnings = totalWinnings

	r.ExpectedValue = 0
	r.WinRate = 0
	if r.TotalGames > 0 {
		r.ExpectedValue = r.TotalWinnings / float64(r.TotalGames)
		r.WinRate = float64(r.Wins) / float64(r.TotalGames) * 100.0
	}
	r.ReturnRate = 0
	if math.Abs(r.TotalBet) > epsilon {
		r.ReturnRate = r.TotalWinnings / r.TotalBet * 100.0
	}
}

const epsilon = 2.220446049250313e-16

// Merge combines results from independently seeded shards into one aggregate,
// as if their cell accumulators had been filled by a single run. Per-bucket
// EV means are recombined hands-weighted.
func Merge(results ...*Result) *Result {
	merged := newResult()
	iterations := 0
	counting := false

	for _, r := range results {
		if r == nil {
			continue
		}
		iterations += r.TotalGames
		merged.Blackjacks += r.Blackjacks

		for key, cell := range r.CellStats {
			dst, ok := merged.CellStats[key]
			if !ok {
				dst = &CellStats{
					PlayerTotal: cell.PlayerTotal,
					DealerCard:  cell.DealerCard,
					Action:      cell.Action,
					Count:       cell.Count,
				}
				merged.CellStats[key] = dst
			}
			dst.Hands += cell.Hands
			dst.Wins += cell.Wins
			dst.Losses += cell.Losses
			dst.Pushes += cell.Pushes
			dst.TotalWinnings += cell.TotalWinnings
			dst.TotalBet += cell.TotalBet
		}

		if r.CountStats == nil {
			continue
		}
		counting = true
		if merged.CountStats == nil {
			merged.CountStats = newCountStats()
		}
		dst := merged.CountStats
		dst.TotalHands += r.CountStats.TotalHands
		for key, n := range r.CountStats.CountDistribution {
			dst.CountDistribution[key] += n
		}
		for key, n := range r.CountStats.HandsByCount {
			dst.HandsByCount[key] += n
		}
		// Undo each shard's per-bucket normalization so the merged mean is
		// weighted by hands, then renormalize below.
		for key, mean := range r.CountStats.EVByCount {
			dst.EVByCount[key] += mean * float64(r.CountStats.HandsByCount[key])
		}
	}

	if counting {
		merged.CountStats.finalize()
	}
	merged.reconcile(iterations)
	return merged
}
