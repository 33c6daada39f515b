// Package config loads studyclock settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appName        = "studyclock"
	configFileName = "config.yaml"
)

// Config holds runtime settings for the CLI, the timer and the server.
type Config struct {
	APIURL         string
	ListenAddr     string
	DatabasePath   string
	RequestTimeout time.Duration
	LogLevel       string
	LogFile        string
}

type yamlConfig struct {
	APIURL                string `yaml:"api_url"`
	ListenAddr            string `yaml:"listen_addr"`
	DatabasePath          string `yaml:"database_path"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	LogLevel              string `yaml:"log_level"`
	LogFile               string `yaml:"log_file"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	dbPath := filepath.Join(".studyclock", "studyclock.db")
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, dbPath)
	}
	return Config{
		APIURL:         "http://127.0.0.1:8080",
		ListenAddr:     ":8080",
		DatabasePath:   dbPath,
		RequestTimeout: 10 * time.Second,
		LogLevel:       "info",
	}
}

// Load reads settings from path, or from the default location when path is
// empty. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		resolved, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = resolved
	}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var fileData yamlConfig
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return cfg, fmt.Errorf("parse config yaml: %w", err)
	}

	if err := apply(&cfg, fileData); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(yamlConfig{
		APIURL:                cfg.APIURL,
		ListenAddr:            cfg.ListenAddr,
		DatabasePath:          cfg.DatabasePath,
		RequestTimeoutSeconds: int(cfg.RequestTimeout / time.Second),
		LogLevel:              cfg.LogLevel,
		LogFile:               cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/studyclock/config.yaml or the
// platform equivalent.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, configFileName), nil
}

func apply(cfg *Config, fileData yamlConfig) error {
	if fileData.APIURL != "" {
		cfg.APIURL = strings.TrimRight(fileData.APIURL, "/")
	}
	if fileData.ListenAddr != "" {
		cfg.ListenAddr = fileData.ListenAddr
	}
	if fileData.DatabasePath != "" {
		cfg.DatabasePath = fileData.DatabasePath
	}
	if fileData.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("request_timeout_seconds must not be negative")
	}
	if fileData.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(fileData.RequestTimeoutSeconds) * time.Second
	}
	if fileData.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(fileData.LogLevel)
	}
	cfg.LogFile = fileData.LogFile
	return nil
}
