// Package lifecycle implements the active/inactive state machine shared by
// accounts, items, and categories.
//
//	         disable
//	Active ----------> Inactive
//	       <----------
//	          enable
//
// There is no terminal state; the machine is a closed two-state loop.
package lifecycle

// State is the lifecycle state of an entity. The zero State is invalid.
type State uint8

const (
	Active State = iota + 1
	Inactive
)

// StateOf converts a stored is_active flag into a State.
func StateOf(isActive bool) State {
	if isActive {
		return Active
	}
	return Inactive
}

// IsActive reports whether s is Active.
func (s State) IsActive() bool {
	return s == Active
}

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// Event is a lifecycle transition request.
type Event uint8

const (
	Disable Event = iota + 1
	Enable
)

func (e Event) String() string {
	switch e {
	case Disable:
		return "disable"
	case Enable:
		return "enable"
	default:
		return "unknown"
	}
}

// target is the state an event moves an entity into.
func (e Event) target() State {
	if e == Enable {
		return Active
	}
	return Inactive
}
