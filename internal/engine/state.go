package engine

//go:generate go tool stringer -type=State -trimprefix=State

// State is the lifecycle position of a Pipeline.
type State int

const (
	// StateAwaitingInputs means at least one of the three tables is unsupplied.
	StateAwaitingInputs State = iota
	// StateReady means all inputs are supplied and no result is held.
	StateReady
	// StateProcessed means the held result was built from the current inputs.
	StateProcessed
)

// MarshalText renders the state name, so JSON output carries "Ready" rather than 1.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
