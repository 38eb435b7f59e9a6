package strategy

// Basic returns the canonical multi-deck basic strategy (dealer stands on
// soft 17, double after split allowed), with no count deviations. It is the
// default table for the CLI and the reference fixture for determinism tests.
func Basic() *Strategy {
	return FromTables(false, basicHard(), basicSoft(), basicPairs(), nil, nil, nil)
}

// BasicInput is Basic in the loosely-typed Input form, for callers that
// treat the built-in tables like an external strategy payload.
func BasicInput() Input {
	return Input{
		Hard:  tableToAny(basicHard()),
		Soft:  tableToAny(basicSoft()),
		Pairs: tableToAny(basicPairs()),
	}
}

func tableToAny(t Table) map[string]any {
	out := make(map[string]any, len(t))
	for key, row := range t {
		rowAny := make(map[string]any, len(row))
		for dealer, code := range row {
			rowAny[dealer] = code
		}
		out[key] = rowAny
	}
	return out
}

// uniform builds a dealer row with the same code against every up card.
func uniform(code string) map[string]string {
	return map[string]string{
		"2": code, "3": code, "4": code, "5": code, "6": code,
		"7": code, "8": code, "9": code, "10": code, "A": code,
	}
}

func basicHard() Table {
	t := Table{
		"4": uniform("H"),
		"5": uniform("H"),
		"6": uniform("H"),
		"7": uniform("H"),
		"8": uniform("H"),
		"9": map[string]string{
			"2": "H", "3": "D", "4": "D", "5": "D", "6": "D",
			"7": "H", "8": "H", "9": "H", "10": "H", "A": "H",
		},
		"10": map[string]string{
			"2": "D", "3": "D", "4": "D", "5": "D", "6": "D",
			"7": "D", "8": "D", "9": "D", "10": "H", "A": "H",
		},
		"11": map[string]string{
			"2": "D", "3": "D", "4": "D", "5": "D", "6": "D",
			"7": "D", "8": "D", "9": "D", "10": "D", "A": "H",
		},
		"12": map[string]string{
			"2": "H", "3": "H", "4": "S", "5": "S", "6": "S",
			"7": "H", "8": "H", "9": "H", "10": "H", "A": "H",
		},
	}
	stiff := map[string]string{
		"2": "S", "3": "S", "4": "S", "5": "S", "6": "S",
		"7": "H", "8": "H", "9": "H", "10": "H", "A": "H",
	}
	for _, total := range []string{"13", "14", "15", "16"} {
		t[total] = stiff
	}
	for _, total := range []string{"17", "18", "19", "20", "21"} {
		t[total] = uniform("S")
	}
	return t
}

func basicSoft() Table {
	lowAce := map[string]string{
		"2": "H", "3": "H", "4": "H", "5": "D", "6": "D",
		"7": "H", "8": "H", "9": "H", "10": "H", "A": "H",
	}
	midAce := map[string]string{
		"2": "H", "3": "H", "4": "D", "5": "D", "6": "D",
		"7": "H", "8": "H", "9": "H", "10": "H", "A": "H",
	}
	return Table{
		"13": lowAce,
		"14": lowAce,
		"15": midAce,
		"16": midAce,
		"17": map[string]string{
			"2": "H", "3": "D", "4": "D", "5": "D", "6": "D",
			"7": "H", "8": "H", "9": "H", "10": "H", "A": "H",
		},
		"18": map[string]string{
			"2": "S", "3": "D", "4": "D", "5": "D", "6": "D",
			"7": "S", "8": "S", "9": "H", "10": "H", "A": "H",
		},
		"19": uniform("S"),
		"20": uniform("S"),
		"21": uniform("S"),
	}
}

func basicPairs() Table {
	lowPair := map[string]string{
		"2": "P", "3": "P", "4": "P", "5": "P", "6": "P",
		"7": "P", "8": "H", "9": "H", "10": "H", "A": "H",
	}
	return Table{
		"2": lowPair,
		"3": lowPair,
		"4": map[string]string{
			"2": "H", "3": "H", "4": "H", "5": "P", "6": "P",
			"7": "H", "8": "H", "9": "H", "10": "H", "A": "H",
		},
		// A pair of fives plays as a hard 10.
		"5": map[string]string{
			"2": "D", "3": "D", "4": "D", "5": "D", "6": "D",
			"7": "D", "8": "D", "9": "D", "10": "H", "A": "H",
		},
		"6": map[string]string{
			"2": "P", "3": "P", "4": "P", "5": "P", "6": "P",
			"7": "H", "8": "H", "9": "H", "10": "H", "A": "H",
		},
		"7": lowPair,
		"8": uniform("P"),
		"9": map[string]string{
			"2": "P", "3": "P", "4": "P", "5": "P", "6": "P",
			"7": "S", "8": "P", "9": "P", "10": "S", "A": "S",
		},
		"10": uniform("S"),
		"11": uniform("P"),
	}
}
