package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// FileName is the name of the config file inside the git directory
const FileName = ".but_workspace_config"

// Defaults used when a value is not configured
const (
	DefaultWalkLimit   = 10000
	DefaultMatchOrder  = "newest"
	DefaultConcurrency = 4
)

// RepoConfig represents the repository configuration
type RepoConfig struct {
	GBDir       *string `json:"gbDir,omitempty"`
	WalkLimit   *int    `json:"walkLimit,omitempty"`
	MatchOrder  *string `json:"matchOrder,omitempty"`
	Concurrency *int    `json:"concurrency,omitempty"`
	LogFile     *string `json:"logFile,omitempty"`
}

// ConfigPath returns the path of the config file for a git directory
func ConfigPath(gitDir string) string {
	return filepath.Join(gitDir, FileName)
}

// GetRepoConfig reads the repository configuration
func GetRepoConfig(gitDir string) (*RepoConfig, error) {
	data, err := os.ReadFile(ConfigPath(gitDir))
	if err != nil {
		// Config doesn't exist - return default
		return &RepoConfig{}, nil
	}

	var config RepoConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}

	return &config, nil
}

// SaveRepoConfig writes the repository configuration
func SaveRepoConfig(gitDir string, config *RepoConfig) error {
	configJSON, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(ConfigPath(gitDir), configJSON, 0600)
}

// GetGBDir returns the GitButler state directory. Relative paths are taken
// relative to the git directory; the default is <git dir>/gitbutler.
func (c *RepoConfig) GetGBDir(gitDir string) string {
	if c.GBDir == nil || *c.GBDir == "" {
		return filepath.Join(gitDir, "gitbutler")
	}
	if filepath.IsAbs(*c.GBDir) {
		return *c.GBDir
	}
	return filepath.Join(gitDir, *c.GBDir)
}

// GetWalkLimit returns the maximum number of commits per ancestry walk, 0 meaning unlimited
func (c *RepoConfig) GetWalkLimit() int {
	if c.WalkLimit == nil || *c.WalkLimit < 0 {
		return DefaultWalkLimit
	}
	return *c.WalkLimit
}

// GetMatchOrder returns "newest" or "oldest"
func (c *RepoConfig) GetMatchOrder() string {
	if c.MatchOrder == nil || *c.MatchOrder == "" {
		return DefaultMatchOrder
	}
	return *c.MatchOrder
}

// GetConcurrency returns how many branches may be assembled at once
func (c *RepoConfig) GetConcurrency() int {
	if c.Concurrency == nil || *c.Concurrency < 1 {
		return DefaultConcurrency
	}
	return *c.Concurrency
}

// GetLogFile returns the configured log file, or "" when file logging is off
func (c *RepoConfig) GetLogFile() string {
	if c.LogFile == nil {
		return ""
	}
	return *c.LogFile
}

// SetValue sets a config value by its JSON name
func (c *RepoConfig) SetValue(key, value string) error {
	switch key {
	case "gbDir":
		c.GBDir = &value
	case "walkLimit":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("walkLimit must be a non-negative integer, got %q", value)
		}
		c.WalkLimit = &n
	case "matchOrder":
		if value != "newest" && value != "oldest" {
			return fmt.Errorf("matchOrder must be newest or oldest, got %q", value)
		}
		c.MatchOrder = &value
	case "concurrency":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("concurrency must be a positive integer, got %q", value)
		}
		c.Concurrency = &n
	case "logFile":
		c.LogFile = &value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// Values returns every config key with its effective value, in a stable order
func (c *RepoConfig) Values(gitDir string) [][2]string {
	return [][2]string{
		{"gbDir", c.GetGBDir(gitDir)},
		{"walkLimit", strconv.Itoa(c.GetWalkLimit())},
		{"matchOrder", c.GetMatchOrder()},
		{"concurrency", strconv.Itoa(c.GetConcurrency())},
		{"logFile", c.GetLogFile()},
	}
}
