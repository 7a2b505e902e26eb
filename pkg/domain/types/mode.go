package types

import "fmt"

// Mode represents the caller-declared conversational intent for a turn.
// It is chosen before a turn and persists across turns until changed.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeAdd    Mode = "add"
	ModeRecall Mode = "recall"
	ModeGround Mode = "ground"
)

// AllModes returns all valid modes
func AllModes() []Mode {
	return []Mode{
		ModeAuto,
		ModeAdd,
		ModeRecall,
		ModeGround,
	}
}

// IsValid checks if the mode is valid
func (m Mode) IsValid() bool {
	switch m {
	case ModeAuto,
		ModeAdd,
		ModeRecall,
		ModeGround:
		return true
	default:
		return false
	}
}

// String returns the string representation of the mode
func (m Mode) String() string {
	return string(m)
}

// ParseMode parses a string into a Mode
func ParseMode(s string) (Mode, error) {
	mode := Mode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid mode: %s", s)
	}
	return mode, nil
}
