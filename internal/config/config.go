// Package config loads the token issuer configuration from the process
// environment, with an optional dotenv file as a fallback source.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	TeamIDVar  = "TEAM_ID"
	KeyIDVar   = "KEY_ID"
	KeyFileVar = "P8_FILE"
	EnvFileVar = "ENV_FILE"
)

// Config is the issuer configuration. All three identity fields are required
// and have no defaults.
type Config struct {
	TeamID  string `json:"team_id"`
	KeyID   string `json:"key_id"`
	KeyFile string `json:"key_file"`

	// Warnings holds non-fatal config issues detected during loading.
	Warnings []string `json:"-"`
}

// LookupFunc resolves an environment variable. It has the signature of
// os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Error reports a missing or unusable configuration value.
type Error struct {
	Var string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s: %v", e.Var, e.Err)
	}
	return fmt.Sprintf("config %s: required environment variable is missing or empty", e.Var)
}

func (e *Error) Unwrap() error { return e.Err }

// Load reads the configuration from the process environment. If ENV_FILE is
// set, the named dotenv file supplies values for variables the process
// environment does not define.
func Load() (*Config, error) {
	lookup := LookupFunc(os.LookupEnv)

	if path, ok := os.LookupEnv(EnvFileVar); ok && strings.TrimSpace(path) != "" {
		vals, err := godotenv.Read(path)
		if err != nil {
			return nil, &Error{Var: EnvFileVar, Err: fmt.Errorf("reading env file %s: %w", path, err)}
		}
		lookup = withFallback(lookup, vals)
	}

	return FromLookup(lookup)
}

// FromLookup builds and validates a Config from an arbitrary lookup function.
func FromLookup(lookup LookupFunc) (*Config, error) {
	cfg := Config{
		TeamID:  get(lookup, TeamIDVar),
		KeyID:   get(lookup, KeyIDVar),
		KeyFile: get(lookup, KeyFileVar),
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	cfg.Warnings = collectWarnings(&cfg)

	return &cfg, nil
}

// Validate checks that every required field is set. It returns an *Error
// naming the first missing variable.
func (c *Config) Validate() error {
	return validate(c)
}

func withFallback(primary LookupFunc, fallback map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		if v, ok := primary(key); ok {
			return v, true
		}
		v, ok := fallback[key]
		return v, ok
	}
}

func get(lookup LookupFunc, key string) string {
	v, _ := lookup(key)
	return strings.TrimSpace(v)
}

func validate(cfg *Config) error {
	required := []struct {
		name  string
		value string
	}{
		{TeamIDVar, cfg.TeamID},
		{KeyIDVar, cfg.KeyID},
		{KeyFileVar, cfg.KeyFile},
	}
	for _, r := range required {
		if r.value == "" {
			return &Error{Var: r.name}
		}
	}
	return nil
}

// Apple developer team and key identifiers are ten upper-case alphanumerics.
var identifierRe = regexp.MustCompile(`^[A-Z0-9]{10}$`)

// collectWarnings returns non-fatal configuration warnings.
func collectWarnings(cfg *Config) []string {
	var warnings []string

	if !identifierRe.MatchString(cfg.TeamID) {
		warnings = append(warnings, fmt.Sprintf(
			"%s %q is not a 10-character upper-case alphanumeric identifier", TeamIDVar, cfg.TeamID))
	}
	if !identifierRe.MatchString(cfg.KeyID) {
		warnings = append(warnings, fmt.Sprintf(
			"%s %q is not a 10-character upper-case alphanumeric identifier", KeyIDVar, cfg.KeyID))
	}

	return warnings
}
