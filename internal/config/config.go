// Package config provides configuration file support for coderev.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mdekker/coderev/internal/capability"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = ".coderev.yaml"

// Duration is a custom type that handles YAML duration parsing.
// Supports both Go duration format ("5m", "300s") and numeric seconds.
type Duration time.Duration

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(time.Duration(v) * time.Second)
	case float64:
		*d = Duration(time.Duration(v) * time.Second)
	default:
		return fmt.Errorf("invalid duration type: %T", v)
	}
	return nil
}

// AsDuration returns the underlying time.Duration.
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

// Config represents the coderev configuration file.
type Config struct {
	Capability *string   `yaml:"capability"`
	Model      *string   `yaml:"model"`
	MaxTurns   *int      `yaml:"max_turns"`
	Timeout    *Duration `yaml:"timeout"`
}

// LoadResult contains the loaded config and any warnings encountered.
type LoadResult struct {
	Config   *Config
	Warnings []string
}

// LoadFromDirWithWarnings reads .coderev.yaml from the specified directory
// and returns warnings. Returns an empty config (not error) if the file
// doesn't exist.
func LoadFromDirWithWarnings(dir string) (*LoadResult, error) {
	return LoadFromPathWithWarnings(filepath.Join(dir, ConfigFileName))
}

// LoadFromPathWithWarnings reads a config file and returns warnings for
// unknown keys. Returns an empty config (not error) if the file doesn't
// exist. Returns an error if the file exists but is invalid YAML or holds
// invalid values.
func LoadFromPathWithWarnings(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &LoadResult{Config: &Config{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	warnings := checkUnknownKeys(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigFileName, err)
	}

	return &LoadResult{Config: &cfg, Warnings: warnings}, nil
}

// knownTopLevelKeys are the valid top-level keys in the config file.
var knownTopLevelKeys = []string{"capability", "model", "max_turns", "timeout"}

// checkUnknownKeys checks for unknown keys in the YAML data and returns warnings.
func checkUnknownKeys(data []byte) []string {
	var warnings []string

	// Parse into a generic map to inspect keys
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		// If we can't parse, let the main parser handle the error
		return nil
	}

	for key := range raw {
		if !slices.Contains(knownTopLevelKeys, key) {
			warning := fmt.Sprintf("unknown key %q in %s", key, ConfigFileName)
			if suggestion := findSimilar(key, knownTopLevelKeys); suggestion != "" {
				warning += fmt.Sprintf(" (did you mean %q?)", suggestion)
			}
			warnings = append(warnings, warning)
		}
	}

	return warnings
}

// findSimilar finds the most similar string from candidates using Levenshtein distance.
// Returns empty string if no candidate is similar enough (threshold: 3 edits).
func findSimilar(input string, candidates []string) string {
	const maxDistance = 3
	bestMatch := ""
	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		dist := levenshtein(input, candidate)
		if dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshtein calculates the Levenshtein distance between two strings.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	matrix := make([][]int, len(ra)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(rb)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(ra)][len(rb)]
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	if c.MaxTurns != nil && *c.MaxTurns < 1 {
		return fmt.Errorf("max_turns must be >= 1, got %d", *c.MaxTurns)
	}
	if c.Timeout != nil && *c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0, got %s", time.Duration(*c.Timeout))
	}
	if c.Capability != nil && !slices.Contains(capability.SupportedCapabilities, *c.Capability) {
		return fmt.Errorf("capability must be one of %v, got %q", capability.SupportedCapabilities, *c.Capability)
	}
	return nil
}

// Defaults holds the built-in default values.
var Defaults = ResolvedConfig{
	Capability: capability.DefaultCapability,
	Model:      "",
	MaxTurns:   0, // means "driver default"
	Timeout:    10 * time.Minute,
}

// ResolvedConfig holds the final resolved configuration values.
type ResolvedConfig struct {
	Capability string
	Model      string
	MaxTurns   int
	Timeout    time.Duration
}

// FlagState tracks whether a flag was explicitly set.
type FlagState struct {
	CapabilitySet bool
	ModelSet      bool
	MaxTurnsSet   bool
	TimeoutSet    bool
}

// EnvState captures env var values and whether they were set.
type EnvState struct {
	Capability    string
	CapabilitySet bool
	Model         string
	ModelSet      bool
	MaxTurns      int
	MaxTurnsSet   bool
	Timeout       time.Duration
	TimeoutSet    bool
}

// LoadEnvState reads environment variables and returns their state.
func LoadEnvState() EnvState {
	var state EnvState

	if v := os.Getenv("CODEREV_CAPABILITY"); v != "" {
		state.Capability = v
		state.CapabilitySet = true
	}
	if v := os.Getenv("CODEREV_MODEL"); v != "" {
		state.Model = v
		state.ModelSet = true
	}
	if v := os.Getenv("CODEREV_MAX_TURNS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			state.MaxTurns = i
			state.MaxTurnsSet = true
		}
	}
	if v := os.Getenv("CODEREV_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			state.Timeout = d
			state.TimeoutSet = true
		} else if secs, err := strconv.Atoi(v); err == nil {
			state.Timeout = time.Duration(secs) * time.Second
			state.TimeoutSet = true
		}
	}

	return state
}

// Resolve merges config file values with env vars and flags.
// Precedence: flags > env vars > config file > defaults
func Resolve(cfg *Config, envState EnvState, flagState FlagState, flagValues ResolvedConfig) ResolvedConfig {
	result := Defaults

	// Apply config file values (if set)
	if cfg != nil {
		if cfg.Capability != nil {
			result.Capability = *cfg.Capability
		}
		if cfg.Model != nil {
			result.Model = *cfg.Model
		}
		if cfg.MaxTurns != nil {
			result.MaxTurns = *cfg.MaxTurns
		}
		if cfg.Timeout != nil {
			result.Timeout = cfg.Timeout.AsDuration()
		}
	}

	// Apply env var values (if set)
	if envState.CapabilitySet {
		result.Capability = envState.Capability
	}
	if envState.ModelSet {
		result.Model = envState.Model
	}
	if envState.MaxTurnsSet {
		result.MaxTurns = envState.MaxTurns
	}
	if envState.TimeoutSet {
		result.Timeout = envState.Timeout
	}

	// Apply flag values (if explicitly set)
	if flagState.CapabilitySet {
		result.Capability = flagValues.Capability
	}
	if flagState.ModelSet {
		result.Model = flagValues.Model
	}
	if flagState.MaxTurnsSet {
		result.MaxTurns = flagValues.MaxTurns
	}
	if flagState.TimeoutSet {
		result.Timeout = flagValues.Timeout
	}

	return result
}
