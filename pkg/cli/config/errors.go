package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound = goerr.New("configuration file not found")
	ErrInvalidConfig  = goerr.New("invalid configuration")
	ErrMissingName    = goerr.New("name is required")
)

// Context keys for error values
const (
	ConfigPathKey   = "config_path"
	ContactIndexKey = "contact_index"
)
