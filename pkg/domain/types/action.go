package types

import "fmt"

// Action represents the dialogue engine's decision about what the system
// should do after a turn. Exactly one action is emitted per turn.
type Action string

const (
	ActionNone         Action = "none"
	ActionCreateMemory Action = "create_memory"
	ActionRecallMemory Action = "recall_memory"
)

// AllActions returns all valid actions
func AllActions() []Action {
	return []Action{
		ActionNone,
		ActionCreateMemory,
		ActionRecallMemory,
	}
}

// IsValid checks if the action is valid
func (a Action) IsValid() bool {
	switch a {
	case ActionNone,
		ActionCreateMemory,
		ActionRecallMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation of the action
func (a Action) String() string {
	return string(a)
}

// ParseAction parses a string into an Action
func ParseAction(s string) (Action, error) {
	action := Action(s)
	if !action.IsValid() {
		return "", fmt.Errorf("invalid action: %s", s)
	}
	return action, nil
}
