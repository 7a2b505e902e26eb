package config

import "time"

// Profile is the care profile for the person using the assistant. It feeds
// the prompt contract (how to address the user, which language to speak),
// the timezone date labels are resolved in, and the safety escalation
// message (who to suggest contacting).
type Profile struct {
	DisplayName     string           `toml:"display_name"`
	Language        string           `toml:"language"`
	Timezone        string           `toml:"timezone"`
	TrustedContacts []TrustedContact `toml:"trusted_contact"`
}

// Location resolves the configured timezone. It returns nil when no
// timezone is set or the name is unknown; callers then keep their clock
// as-is. The CLI config layer rejects unknown names up front.
func (p *Profile) Location() *time.Location {
	if p.Timezone == "" {
		return nil
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil
	}
	return loc
}

// TrustedContact is a person the assistant may suggest reaching out to when
// a distress condition is detected.
type TrustedContact struct {
	Name     string `toml:"name"`
	Relation string `toml:"relation"`
	Phone    string `toml:"phone"`
}

// DefaultProfile returns the profile used when no configuration file is
// provided.
func DefaultProfile() *Profile {
	return &Profile{
		Language: "English",
	}
}
