package strategy

// Action is a player decision. Exactly four actions exist; consumers handle
// all four, degrading an illegal Double or Split to Hit rather than erroring.
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
)

// ActionFromCode decodes a one-character table code. Anything unrecognized
// decodes to Hit.
func ActionFromCode(code string) Action {
	switch code {
	case "S":
		return Stand
	case "D":
		return Double
	case "P":
		return Split
	default:
		return Hit
	}
}

// Code returns the one-character table code for the action.
func (a Action) Code() string {
	switch a {
	case Stand:
		return "S"
	case Double:
		return "D"
	case Split:
		return "P"
	default:
		return "H"
	}
}

// MarshalJSON encodes the action by name.
func (a Action) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// String returns the action's full name.
func (a Action) String() string {
	switch a {
	case Hit:
		return "Hit"
	case Stand:
		return "Stand"
	case Double:
		return "Double"
	case Split:
		return "Split"
	default:
		return "Hit"
	}
}
