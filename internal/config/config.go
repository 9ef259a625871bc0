package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything cardboard needs to reach the task board API and
// to log.
type Config struct {
	APIURL      string
	APIKey      string
	APIToken    string
	Timeout     time.Duration
	Parallelism int
	LogLevel    string
	LogFile     string
}

const (
	defaultConfigPath  = "~/.config/cardboard/config.toml"
	defaultAPIURL      = "https://api.trello.com"
	defaultTimeout     = 10 * time.Second
	defaultParallelism = 1
	defaultLogLevel    = "info"
	defaultLogFile     = "~/.local/state/cardboard/cardboard.log"

	envAPIKey   = "CARDBOARD_API_KEY"
	envAPIToken = "CARDBOARD_API_TOKEN"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:      defaultAPIURL,
		Timeout:     defaultTimeout,
		Parallelism: defaultParallelism,
		LogLevel:    defaultLogLevel,
		LogFile:     mustExpand(defaultLogFile),
	}
}

// Load locates and parses the cardboard config, falling back to defaults when
// missing. Credentials from the environment win over the file.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL      string `toml:"api_url"`
		APIKey      string `toml:"api_key"`
		APIToken    string `toml:"api_token"`
		Timeout     string `toml:"timeout"`
		Parallelism int    `toml:"parallelism"`
		LogLevel    string `toml:"log_level"`
		LogFile     string `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	cfg.APIKey = strings.TrimSpace(raw.APIKey)
	cfg.APIToken = strings.TrimSpace(raw.APIToken)

	if v := strings.TrimSpace(raw.Timeout); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		if timeout <= 0 {
			return Config{}, fmt.Errorf("parse timeout: must be positive, got %s", v)
		}
		cfg.Timeout = timeout
	}
	if raw.Parallelism > 0 {
		cfg.Parallelism = raw.Parallelism
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// HasCredentials reports whether both the API key and token are set.
func (c Config) HasCredentials() bool {
	return c.APIKey != "" && c.APIToken != ""
}

// LogPath returns the log file, defaulting when unset.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogFile) == "" {
		return mustExpand(defaultLogFile)
	}
	return c.LogFile
}

// DefaultPath returns the expanded default config file location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(envAPIKey)); v != "" {
		cfg.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(envAPIToken)); v != "" {
		cfg.APIToken = v
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ to the home directory and returns an
// absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
