package banner

import "fmt"

// State is the position of a Client in the registration run. It only
// ever moves forward, or to StateFailed.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateTermSelected
	StateWaiting
	StateSubmitted
	StateReported
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateTermSelected:
		return "term_selected"
	case StateWaiting:
		return "waiting"
	case StateSubmitted:
		return "submitted"
	case StateReported:
		return "reported"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
