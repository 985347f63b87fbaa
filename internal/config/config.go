package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

type Config struct {
	// APIBaseURL is the admin API root, including the /api/admin prefix.
	APIBaseURL string `yaml:"api_base_url"`
	LogLevel   string `yaml:"log_level"`
	// HTTPListenAddr is used by the mock API server only.
	HTTPListenAddr string `yaml:"http_listen_addr"`
	ServiceName    string `yaml:"-"`
}

// Load builds the config from environment variables with defaults, then
// overlays the user's YAML config file when one exists. Environment wins.
func Load() (*Config, error) {
	cfg := &Config{
		APIBaseURL:     "http://localhost:8090/api/admin",
		LogLevel:       "info",
		HTTPListenAddr: ":8090",
	}

	if path := configFilePath(); path != "" {
		if err := overlayFile(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.APIBaseURL = getEnv("CDNCTL_API_URL", cfg.APIBaseURL)
	cfg.LogLevel = getEnv("CDNCTL_LOG_LEVEL", cfg.LogLevel)
	cfg.HTTPListenAddr = getEnv("HTTP_LISTEN_ADDR", cfg.HTTPListenAddr)

	return cfg, nil
}

func configFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "cdnctl", configFileName)
}

func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
