// Package ui renders simulation results for the terminal and drives the
// interactive progress display.
package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjacksim/internal/game"
	"github.com/lox/blackjacksim/internal/shoe"
	"github.com/lox/blackjacksim/internal/sim"
)

const maxCellRows = 15

// RenderResult formats a run's aggregates: the summary block, the count
// histogram when counting was enabled, and the busiest decision cells.
func RenderResult(result *sim.Result) string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("Simulation Results"))
	b.WriteString("\n\n")

	writeStat(&b, "Games", formatInt(result.TotalGames))
	writeStat(&b, "Wins", fmt.Sprintf("%s (%.2f%%)", formatInt(result.Wins), result.WinRate))
	writeStat(&b, "Losses", formatInt(result.Losses))
	writeStat(&b, "Pushes", formatInt(result.Pushes))
	writeStat(&b, "Blackjacks", formatInt(result.Blackjacks))
	writeStat(&b, "Total wagered", fmt.Sprintf("%.2f", result.TotalBet))

	winningsStyle := WinStyle
	if result.TotalWinnings < 0 {
		winningsStyle = LoseStyle
	}
	b.WriteString(LabelStyle.Render(pad("Net winnings")))
	b.WriteString(winningsStyle.Render(fmt.Sprintf("%+.2f", result.TotalWinnings)))
	b.WriteString("\n")
	writeStat(&b, "EV per hand", fmt.Sprintf("%+.4f", result.ExpectedValue))
	writeStat(&b, "Return rate", fmt.Sprintf("%+.3f%%", result.ReturnRate))

	if result.CountStats != nil {
		b.WriteString("\n")
		b.WriteString(renderCountStats(result.CountStats))
	}

	if len(result.CellStats) > 0 {
		b.WriteString("\n")
		b.WriteString(renderCells(result.CellStats))
	}

	return b.String()
}

// RenderSpotCheck formats a forced-scenario result.
func RenderSpotCheck(cfg sim.SpotCheckConfig, result *sim.SpotCheckResult) string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("Spot Check"))
	b.WriteString("\n\n")
	writeStat(&b, "Scenario", fmt.Sprintf("%s vs %s, forced %s",
		strings.Join(cfg.PlayerCards, ","), cfg.DealerCard, cfg.ForcedAction))
	writeStat(&b, "Games", formatInt(result.TotalGames))
	writeStat(&b, "Wins", fmt.Sprintf("%s (%.2f%%)", formatInt(result.Wins), result.WinRate))
	writeStat(&b, "Losses", formatInt(result.Losses))
	writeStat(&b, "Pushes", formatInt(result.Pushes))
	writeStat(&b, "Total wagered", fmt.Sprintf("%.2f", result.TotalBet))

	winningsStyle := WinStyle
	if result.TotalWinnings < 0 {
		winningsStyle = LoseStyle
	}
	b.WriteString(LabelStyle.Render(pad("Net winnings")))
	b.WriteString(winningsStyle.Render(fmt.Sprintf("%+.2f", result.TotalWinnings)))
	b.WriteString("\n")
	writeStat(&b, "EV per hand", fmt.Sprintf("%+.4f", result.ExpectedValue))
	writeStat(&b, "Return rate", fmt.Sprintf("%+.3f%%", result.ReturnRate))

	return b.String()
}

// RenderRound formats a single round's full outcome.
func RenderRound(outcome *game.Outcome) string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("Round"))
	b.WriteString("\n\n")

	b.WriteString(LabelStyle.Render(pad("Dealer")))
	b.WriteString(renderCards(outcome.DealerCards))
	b.WriteString(ValueStyle.Render(fmt.Sprintf("  (%s)", totalLabel(outcome.DealerCards))))
	b.WriteString("\n")

	for i := range outcome.Hands {
		h := &outcome.Hands[i]
		label := "Player"
		if len(outcome.Hands) > 1 {
			label = fmt.Sprintf("Player %d", i+1)
		}
		b.WriteString(LabelStyle.Render(pad(label)))
		b.WriteString(renderCards(h.Cards))
		b.WriteString(ValueStyle.Render(fmt.Sprintf("  (%s", totalLabel(h.Cards))))
		if h.Bet != 1.0 {
			b.WriteString(ValueStyle.Render(fmt.Sprintf(", %gx bet", h.Bet)))
		}
		b.WriteString(ValueStyle.Render(")"))
		b.WriteString("\n")
	}

	if outcome.HasInitialAction {
		writeStat(&b, "First action", outcome.InitialAction.String())
	}
	b.WriteString(LabelStyle.Render(pad("Outcome")))
	b.WriteString(OutcomeStyle(outcome.Outcome).Render(outcome.Outcome))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render(pad("Winnings")))
	winningsStyle := WinStyle
	if outcome.Winnings < 0 {
		winningsStyle = LoseStyle
	}
	b.WriteString(winningsStyle.Render(fmt.Sprintf("%+.2f", outcome.Winnings)))
	b.WriteString("\n")

	return b.String()
}

func renderCountStats(stats *sim.CountStats) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Count Buckets"))
	b.WriteString("\n\n")

	buckets := make([]int, 0, len(stats.HandsByCount))
	maxHands := 0
	for key, hands := range stats.HandsByCount {
		n, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		buckets = append(buckets, n)
		if hands > maxHands {
			maxHands = hands
		}
	}
	sort.Ints(buckets)

	for _, bucket := range buckets {
		key := strconv.Itoa(bucket)
		hands := stats.HandsByCount[key]
		bar := ""
		if maxHands > 0 {
			bar = strings.Repeat("█", hands*30/maxHands)
		}
		b.WriteString(fmt.Sprintf("%s %s %s %s\n",
			LabelStyle.Render(fmt.Sprintf("%+3d", bucket)),
			BarStyle.Render(fmt.Sprintf("%-30s", bar)),
			ValueStyle.Render(fmt.Sprintf("%8s hands", formatInt(hands))),
			evStyle(stats.EVByCount[key]).Render(fmt.Sprintf("ev %+.3f", stats.EVByCount[key])),
		))
	}
	return b.String()
}

func renderCells(cells map[string]*sim.CellStats) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Busiest Decision Cells"))
	b.WriteString("\n\n")

	sorted := make([]*sim.CellStats, 0, len(cells))
	for _, cell := range cells {
		sorted = append(sorted, cell)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Hands != sorted[j].Hands {
			return sorted[i].Hands > sorted[j].Hands
		}
		return cellKey(sorted[i]) < cellKey(sorted[j])
	})
	if len(sorted) > maxCellRows {
		sorted = sorted[:maxCellRows]
	}

	b.WriteString(LabelStyle.Render(fmt.Sprintf("%-8s %-6s %-6s %-5s %8s %8s %8s\n",
		"player", "dealer", "action", "count", "hands", "win%", "ev")))
	for _, cell := range sorted {
		winRate := 0.0
		ev := 0.0
		if cell.Hands > 0 {
			winRate = float64(cell.Wins) / float64(cell.Hands) * 100.0
			ev = cell.TotalWinnings / float64(cell.Hands)
		}
		b.WriteString(fmt.Sprintf("%-8s %-6s %-6s %-5d %8s %7.1f%% %s\n",
			cell.PlayerTotal, cell.DealerCard, cell.Action, cell.Count,
			formatInt(cell.Hands), winRate,
			evStyle(ev).Render(fmt.Sprintf("%+8.3f", ev)),
		))
	}
	return b.String()
}

func cellKey(cell *sim.CellStats) string {
	return cell.PlayerTotal + "_" + cell.DealerCard + "_" + cell.Action + "_" + strconv.Itoa(cell.Count)
}

func evStyle(ev float64) lipgloss.Style {
	if ev < 0 {
		return LoseStyle
	}
	return WinStyle
}

func renderCards(cards []shoe.Card) string {
	ranks := make([]string, len(cards))
	for i, c := range cards {
		ranks[i] = c.Rank
	}
	return CardStyle.Render(strings.Join(ranks, " "))
}

func totalLabel(cards []shoe.Card) string {
	value, soft := game.HandValue(cards)
	if value > 21 {
		return fmt.Sprintf("bust %d", value)
	}
	if soft {
		return fmt.Sprintf("soft %d", value)
	}
	return strconv.Itoa(value)
}

func writeStat(b *strings.Builder, label, value string) {
	b.WriteString(LabelStyle.Render(pad(label)))
	b.WriteString(ValueStyle.Render(value))
	b.WriteString("\n")
}

func pad(label string) string {
	return fmt.Sprintf("%-15s", label)
}

func formatInt(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	return s + "," + strings.Join(parts, ",")
}
