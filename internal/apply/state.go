package apply

// State is a controller state.
type State int32

const (
	Idle State = iota
	Gating
	SelectingArguments
	Invoking
	Waiting
	Cancelled
	Blocked
)

var stateNames = [...]string{
	"Idle", "Gating", "SelectingArguments", "Invoking", "Waiting", "Cancelled", "Blocked",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}

	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
