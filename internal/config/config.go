// Package config handles reading and writing ~/.gavel/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for ~/.gavel/config.yaml.
type Config struct {
	Version int          `yaml:"version"`
	Server  ServerConfig `yaml:"server"`
	Query   QueryConfig  `yaml:"query"`
}

// ServerConfig holds the connection settings for the minutes service.
type ServerConfig struct {
	URL     string `yaml:"url"`
	Timeout int    `yaml:"timeout"` // seconds, applied per request
}

// QueryConfig controls defaults for question submission.
type QueryConfig struct {
	MaxWords int `yaml:"max_words"` // default answer length budget
}

// Answer length budget accepted by the /query endpoint.
const (
	MinWords  = 50
	MaxWords  = 1000
	WordsStep = 50
)

const configDir = ".gavel"
const configFile = "config.yaml"

// Dir returns the gavel configuration directory inside the user's home,
// creating it if necessary.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	dir := filepath.Join(home, configDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	return dir, nil
}

// ReadConfig reads config.yaml from dir. dir is the ~/.gavel directory
// itself. Environment overrides are applied after the file is parsed; a
// .env file in the working directory is honored if present.
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyEnv(&cfg)
	return &cfg, nil
}

// WriteConfig writes cfg to config.yaml in dir, creating dir if needed.
func WriteConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dir, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Load reads the user's config, falling back to defaults (with env
// overrides applied) when no config file exists yet.
func Load() *Config {
	dir, err := Dir()
	if err != nil {
		return DefaultConfig()
	}
	cfg, err := ReadConfig(dir)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	cfg := &Config{
		Version: 1,
		Server: ServerConfig{
			URL:     "http://localhost:8000",
			Timeout: 30,
		},
		Query: QueryConfig{
			MaxWords: 300,
		},
	}
	applyEnv(cfg)
	return cfg
}

// applyEnv overlays GAVEL_* environment variables onto cfg.
// A .env in the working directory is loaded first; absence is not an error.
func applyEnv(cfg *Config) {
	_ = godotenv.Load()

	if url := os.Getenv("GAVEL_SERVER_URL"); url != "" {
		cfg.Server.URL = url
	}
	if v := os.Getenv("GAVEL_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Server.Timeout = secs
		}
	}
}
