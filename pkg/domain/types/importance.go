package types

import "fmt"

// Importance is the user-perceived weight of a memory
type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceNormal Importance = "normal"
	ImportanceHigh   Importance = "high"
)

// AllImportances returns all valid importance levels
func AllImportances() []Importance {
	return []Importance{
		ImportanceLow,
		ImportanceNormal,
		ImportanceHigh,
	}
}

// IsValid checks if the importance is valid
func (i Importance) IsValid() bool {
	switch i {
	case ImportanceLow, ImportanceNormal, ImportanceHigh:
		return true
	default:
		return false
	}
}

// Normalize returns the importance, treating empty or unrecognized values
// as ImportanceNormal.
func (i Importance) Normalize() Importance {
	if i.IsValid() {
		return i
	}
	return ImportanceNormal
}

// String returns the string representation of the importance
func (i Importance) String() string {
	return string(i)
}

// ParseImportance parses a string into an Importance
func ParseImportance(s string) (Importance, error) {
	imp := Importance(s)
	if !imp.IsValid() {
		return "", fmt.Errorf("invalid importance: %s", s)
	}
	return imp, nil
}
