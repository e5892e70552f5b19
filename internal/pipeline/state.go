package pipeline

// State is the playback lifecycle. Exhausted is terminal.
type State int

const (
	// StatePriming means no frame has been decoded yet.
	StatePriming State = iota
	StatePlaying
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StatePriming:
		return "priming"
	case StatePlaying:
		return "playing"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Outcome is the result of one tick.
type Outcome int

const (
	OutcomeHeld Outcome = iota
	OutcomeAdvanced
	OutcomeExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHeld:
		return "held"
	case OutcomeAdvanced:
		return "advanced"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}
