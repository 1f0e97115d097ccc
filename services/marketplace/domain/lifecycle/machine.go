package lifecycle

import (
	"fmt"

	"github.com/ghuser/bazaar/services/marketplace/domain"
)

// Guard decides whether the actor may fire the event. It returns nil to allow
// or an error (normally wrapping domain.ErrForbidden) to deny.
type Guard func() error

// Allow is a Guard that always permits the transition.
func Allow() error { return nil }

// Next returns the state ev moves current into, or a Conflict error when the
// transition is a no-op: disabling an Inactive entity yields
// ErrAlreadyDisabled, enabling an Active one yields ErrAlreadyActive.
func Next(current State, ev Event) (State, error) {
	switch ev {
	case Disable:
		if current == Inactive {
			return current, domain.ErrAlreadyDisabled
		}
	case Enable:
		if current == Active {
			return current, domain.ErrAlreadyActive
		}
	default:
		return current, fmt.Errorf("lifecycle: unknown event %d", ev)
	}
	if current != Active && current != Inactive {
		return current, fmt.Errorf("lifecycle: invalid state %d", current)
	}
	return ev.target(), nil
}

// Fire runs guard, then moves *state according to ev. Authorization is always
// evaluated before the state precondition, so an unauthorized actor receives
// the guard's error even when the transition would also be a no-op.
// *state is left untouched on any failure.
func Fire(state *State, ev Event, guard Guard) error {
	if guard != nil {
		if err := guard(); err != nil {
			return err
		}
	}
	next, err := Next(*state, ev)
	if err != nil {
		return err
	}
	*state = next
	return nil
}
