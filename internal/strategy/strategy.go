// Package strategy implements the decision oracle for the simulator: static
// hard/soft/pair lookup tables plus optional per-count-bucket deviations.
// Tables arrive as loosely-typed nested objects (decoded JSON) and are
// validated eagerly into strict maps; lookups after construction can't fail,
// they fall through a defined default chain instead.
package strategy

import (
	"fmt"
	"strconv"
	"strings"
)

// Table maps a row key (hard total, soft total without the S prefix, or pair
// value) to dealer label to a one-character action code.
type Table map[string]map[string]string

// CountTable adds one more level: count bucket (as a string) to Table.
type CountTable map[string]Table

// Input is the raw strategy payload as decoded from JSON. The table fields
// hold arbitrary nested objects and are validated by New.
type Input struct {
	CountBased   bool `json:"count_based"`
	Hard         any  `json:"hard"`
	Soft         any  `json:"soft"`
	Pairs        any  `json:"pairs"`
	HardByCount  any  `json:"hard_by_count"`
	SoftByCount  any  `json:"soft_by_count"`
	PairsByCount any  `json:"pairs_by_count"`
}

// Strategy is a read-only decision oracle built once from an Input.
type Strategy struct {
	countBased   bool
	hard         Table
	soft         Table
	pairs        Table
	hardByCount  CountTable
	softByCount  CountTable
	pairsByCount CountTable
}

// New validates the input shapes and builds a Strategy. A table that is not
// an object, or a row that is not an object, is a configuration error; the
// whole run aborts before any round is played.
func New(input Input) (*Strategy, error) {
	hard, err := toTable(input.Hard)
	if err != nil {
		return nil, fmt.Errorf("hard table: %w", err)
	}
	soft, err := toTable(input.Soft)
	if err != nil {
		return nil, fmt.Errorf("soft table: %w", err)
	}
	pairs, err := toTable(input.Pairs)
	if err != nil {
		return nil, fmt.Errorf("pairs table: %w", err)
	}
	hardByCount, err := toCountTable(input.HardByCount)
	if err != nil {
		return nil, fmt.Errorf("hard_by_count table: %w", err)
	}
	softByCount, err := toCountTable(input.SoftByCount)
	if err != nil {
		return nil, fmt.Errorf("soft_by_count table: %w", err)
	}
	pairsByCount, err := toCountTable(input.PairsByCount)
	if err != nil {
		return nil, fmt.Errorf("pairs_by_count table: %w", err)
	}
	return &Strategy{
		countBased:   input.CountBased,
		hard:         hard,
		soft:         soft,
		pairs:        pairs,
		hardByCount:  hardByCount,
		softByCount:  softByCount,
		pairsByCount: pairsByCount,
	}, nil
}

// FromTables builds a Strategy from already-typed tables, skipping shape
// validation. Used for built-in strategies and tests.
func FromTables(countBased bool, hard, soft, pairs Table, hardByCount, softByCount, pairsByCount CountTable) *Strategy {
	return &Strategy{
		countBased:   countBased,
		hard:         orEmpty(hard),
		soft:         orEmpty(soft),
		pairs:        orEmpty(pairs),
		hardByCount:  orEmptyCount(hardByCount),
		softByCount:  orEmptyCount(softByCount),
		pairsByCount: orEmptyCount(pairsByCount),
	}
}

// DecideAction resolves an action for the hand described by playerLabel
// against the dealer's up card. Labels: a pair is "V,V" ("A,A" for aces), a
// soft total is "S<value>", otherwise the plain hard total.
//
// Lookup order: count-deviation tables (when enabled and count is nonzero),
// then the static pair table (only if the hand may split), then the static
// soft table falling back to hard, and finally a hand-value safety default.
// A resolved Double degrades to Hit when doubling isn't currently legal.
func (s *Strategy) DecideAction(playerLabel, dealerLabel string, canDouble, canSplit bool, count int) Action {
	var pairKey string
	if canSplit {
		pairKey = pairKeyFromLabel(playerLabel)
	}

	if s.countBased && count != 0 {
		countKey := strconv.Itoa(count)
		if action, ok := s.lookupCountAction(countKey, playerLabel, pairKey, dealerLabel, canDouble); ok {
			return action
		}
	}

	if pairKey != "" {
		if action, ok := lookupTable(s.pairs, pairKey, dealerLabel, canDouble); ok {
			return action
		}
	}

	if action, ok := s.lookupSoftOrHard(playerLabel, dealerLabel, canDouble); ok {
		return action
	}

	return defaultAction(playerLabel)
}

func (s *Strategy) lookupCountAction(countKey, playerLabel, pairKey, dealerLabel string, canDouble bool) (Action, bool) {
	if pairKey != "" {
		if action, ok := lookupTable(s.pairsByCount[countKey], pairKey, dealerLabel, canDouble); ok {
			return action, true
		}
	}
	if action, ok := lookupTable(s.softByCount[countKey], softTableKey(playerLabel), dealerLabel, canDouble); ok {
		return action, true
	}
	return lookupTable(s.hardByCount[countKey], playerLabel, dealerLabel, canDouble)
}

func (s *Strategy) lookupSoftOrHard(playerLabel, dealerLabel string, canDouble bool) (Action, bool) {
	if strings.HasPrefix(playerLabel, "S") {
		if action, ok := lookupTable(s.soft, softTableKey(playerLabel), dealerLabel, canDouble); ok {
			return action, true
		}
	}
	return lookupTable(s.hard, playerLabel, dealerLabel, canDouble)
}

func lookupTable(table Table, key, dealerLabel string, canDouble bool) (Action, bool) {
	row, ok := table[key]
	if !ok {
		return Hit, false
	}
	code, ok := row[dealerLabel]
	if !ok {
		return Hit, false
	}
	action := ActionFromCode(code)
	if action == Double && !canDouble {
		action = Hit
	}
	return action, true
}

// softTableKey strips the S prefix from a soft label; soft tables are keyed
// by the bare total.
func softTableKey(label string) string {
	return strings.TrimPrefix(label, "S")
}

// pairKeyFromLabel converts a "V,V" pair label into the pair table's row key
// (the card value as a string, "11" for aces). Returns "" for non-pair labels.
func pairKeyFromLabel(label string) string {
	parts := strings.Split(label, ",")
	if len(parts) != 2 {
		return ""
	}
	first := strings.TrimSpace(parts[0])
	second := strings.TrimSpace(parts[1])
	if first != second {
		return ""
	}
	value := cardValueFromRank(first)
	if value == 0 {
		return ""
	}
	return strconv.Itoa(value)
}

func cardValueFromRank(rank string) int {
	switch rank {
	case "A":
		return 11
	case "K", "Q", "J", "10":
		return 10
	default:
		n, err := strconv.Atoi(rank)
		if err != nil {
			return 0
		}
		return n
	}
}

// defaultAction is the end of the fallback chain: stand on any soft total,
// hit hard totals below 17, stand at 17 and above, hit unresolved pair labels.
func defaultAction(playerLabel string) Action {
	if strings.HasPrefix(playerLabel, "S") {
		return Stand
	}
	if total, err := strconv.Atoi(playerLabel); err == nil {
		if total < 17 {
			return Hit
		}
		return Stand
	}
	return Hit
}

func toTable(value any) (Table, error) {
	if value == nil {
		return Table{}, nil
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("strategy table must be an object, got %T", value)
	}
	table := make(Table, len(obj))
	for key, rowValue := range obj {
		rowObj, ok := rowValue.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("strategy row %q must be an object, got %T", key, rowValue)
		}
		row := make(map[string]string, len(rowObj))
		for dealer, action := range rowObj {
			if code, ok := action.(string); ok {
				row[dealer] = code
			}
		}
		table[key] = row
	}
	return table, nil
}

func toCountTable(value any) (CountTable, error) {
	if value == nil {
		return CountTable{}, nil
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("count table must be an object, got %T", value)
	}
	table := make(CountTable, len(obj))
	for countKey, inner := range obj {
		innerTable, err := toTable(inner)
		if err != nil {
			return nil, fmt.Errorf("count bucket %q: %w", countKey, err)
		}
		table[countKey] = innerTable
	}
	return table, nil
}

func orEmpty(t Table) Table {
	if t == nil {
		return Table{}
	}
	return t
}

func orEmptyCount(t CountTable) CountTable {
	if t == nil {
		return CountTable{}
	}
	return t
}
