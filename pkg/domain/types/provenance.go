package types

import "fmt"

// Provenance records how a persisted memory came into being: confirmed from
// a voice-driven proposal, or entered through the manual form.
type Provenance string

const (
	ProvenanceVoice  Provenance = "voice"
	ProvenanceManual Provenance = "manual"
)

// AllProvenances returns all valid provenance values
func AllProvenances() []Provenance {
	return []Provenance{
		ProvenanceVoice,
		ProvenanceManual,
	}
}

// IsValid checks if the provenance is valid
func (p Provenance) IsValid() bool {
	switch p {
	case ProvenanceVoice, ProvenanceManual:
		return true
	default:
		return false
	}
}

// String returns the string representation of the provenance
func (p Provenance) String() string {
	return string(p)
}

// ParseProvenance parses a string into a Provenance
func ParseProvenance(s string) (Provenance, error) {
	p := Provenance(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid provenance: %s", s)
	}
	return p, nil
}
