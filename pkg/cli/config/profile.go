package config

import (
	"os"
	"strings"
	"time"

	domainConfig "github.com/keepsake-lab/keepsake/pkg/domain/model/config"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Profile holds the CLI flag for the care-profile configuration file
type Profile struct {
	path string
}

// Flags returns CLI flags for profile configuration
func (p *Profile) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "profile",
			Usage:       "Path to care profile TOML file",
			Sources:     cli.EnvVars("KEEPSAKE_PROFILE"),
			Destination: &p.path,
		},
	}
}

// Configure loads and validates the care profile. When no path is given the
// default profile is returned.
func (p *Profile) Configure() (*domainConfig.Profile, error) {
	if p.path == "" {
		return domainConfig.DefaultProfile(), nil
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, goerr.Wrap(ErrConfigNotFound, "failed to read profile file", goerr.V(ConfigPathKey, p.path))
	}

	profile := domainConfig.DefaultProfile()
	if err := toml.Unmarshal(data, profile); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, err.Error(), goerr.V(ConfigPathKey, p.path))
	}

	if err := validateProfile(profile); err != nil {
		return nil, goerr.Wrap(err, "invalid profile", goerr.V(ConfigPathKey, p.path))
	}

	return profile, nil
}

func validateProfile(profile *domainConfig.Profile) error {
	if tz := strings.TrimSpace(profile.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return goerr.Wrap(ErrInvalidConfig, "unknown timezone", goerr.V("timezone", tz))
		}
	}
	for i, c := range profile.TrustedContacts {
		if strings.TrimSpace(c.Name) == "" {
			return goerr.Wrap(ErrMissingName, "trusted contact requires a name", goerr.V(ContactIndexKey, i))
		}
	}
	return nil
}
