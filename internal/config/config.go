package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings the client needs to reach the detector
// service and write its own logs.
type Config struct {
	ServerURL string
	LogDir    string
}

const (
	defaultConfigPath = "~/.config/roadwatch/config.toml"
	defaultLogDir     = "~/.local/share/roadwatch/logs"
	defaultServerURL  = "http://localhost:5000"

	// serverEnvVar overrides the configured server URL, from the process
	// environment or a local .env file.
	serverEnvVar = "ROADWATCH_SERVER_URL"
)

// Load locates and parses the config file, falling back to defaults when
// missing. A ROADWATCH_SERVER_URL environment variable, or one supplied by
// a .env file in the working directory, wins over the file.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{ServerURL: defaultServerURL, LogDir: defaultLogDir}

	file, err := os.Open(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
	} else {
		defer file.Close()

		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}

		var raw struct {
			ServerURL string `toml:"server_url"`
			LogDir    string `toml:"log_dir"`
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}

		if url := strings.TrimSpace(raw.ServerURL); url != "" {
			cfg.ServerURL = url
		}
		if dir := strings.TrimSpace(raw.LogDir); dir != "" {
			cfg.LogDir = dir
		}
	}

	if url := serverFromEnv(); url != "" {
		cfg.ServerURL = url
	}

	cfg.LogDir = mustExpand(cfg.LogDir)
	return cfg, nil
}

// serverFromEnv resolves the URL override: an already-set environment
// variable wins, then a .env file in the working directory.
func serverFromEnv() string {
	if url := strings.TrimSpace(os.Getenv(serverEnvVar)); url != "" {
		return url
	}
	env, err := godotenv.Read()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(env[serverEnvVar])
}

// LogFilePath returns the path to the client's primary log file.
func (c Config) LogFilePath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/roadwatch.log")
	}
	return filepath.Join(c.LogDir, "roadwatch.log")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
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
