package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServeConfig is the optional YAML config file accepted by `lsprpc-echo
// serve --config`. Every field has a sane default so a missing file is not
// an error.
type ServeConfig struct {
	// Stdio, when true, serves over os.Stdin/os.Stdout instead of TCP.
	Stdio bool `yaml:"stdio"`
	// Listen is the TCP address to serve on when Stdio is false.
	Listen string `yaml:"listen"`
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"logLevel"`
}

func defaultServeConfig() ServeConfig {
	return ServeConfig{
		Stdio:    true,
		Listen:   "127.0.0.1:7227",
		LogLevel: "info",
	}
}

// loadServeConfig reads path if non-empty, overlaying its fields onto the
// defaults. A missing path is not an error — the defaults alone are valid.
func loadServeConfig(path string) (ServeConfig, error) {
	cfg := defaultServeConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
