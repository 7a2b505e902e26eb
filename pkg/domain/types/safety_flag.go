package types

// SafetyFlag marks a turn that requires safety escalation. It is orthogonal
// to Action, but policy forces ActionNone whenever the flag is raised.
type SafetyFlag string

const (
	SafetyFlagNone     SafetyFlag = "none"
	SafetyFlagDistress SafetyFlag = "distress"
)

// IsValid checks if the safety flag is valid
func (f SafetyFlag) IsValid() bool {
	switch f {
	case SafetyFlagNone, SafetyFlagDistress:
		return true
	default:
		return false
	}
}

// Normalize returns the flag, treating empty or unrecognized values as
// SafetyFlagNone. Only an exact distress value elevates risk handling.
func (f SafetyFlag) Normalize() SafetyFlag {
	if f == SafetyFlagDistress {
		return SafetyFlagDistress
	}
	return SafetyFlagNone
}

// String returns the string representation of the safety flag
func (f SafetyFlag) String() string {
	return string(f)
}
