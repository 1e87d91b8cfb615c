// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ActiveContext string             `yaml:"active_context"`
	Contexts      map[string]Context `yaml:"contexts"`
}

// Context is one door adapter the CLI can talk to. Token may be empty when
// the adapter runs without API authentication.
type Context struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token,omitempty"`
}

// LoadConfig loads the CLI configuration from the path, see ResolvePath for
// how an empty path is handled. A missing file yields an error matching
// os.ErrNotExist.
func LoadConfig(path string) (*Config, error) {
	path, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file not found at %s: %w", path, os.ErrNotExist)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// GetContext retrieves the context by name. If name is empty, it returns the
// configured active context.
func (c *Config) GetContext(name string) (*Context, error) {
	if name == "" {
		if c.ActiveContext == "" {
			return nil, errors.New("no default context set")
		}
		name = c.ActiveContext
	}
	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context '%s' not found", name)
	} else if ctx.URL == "" {
		return nil, fmt.Errorf("context '%s' has no URL configured", name)
	}
	return &ctx, nil
}

// SaveConfig writes the configuration, creating its directory if needed. The
// file holds API tokens and is only readable by its owner.
func SaveConfig(path string, cfg *Config) error {
	path, err := ResolvePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ResolvePath returns path unchanged unless it is empty. An empty path falls
// back to $DOORCTL_CONFIG and then to ~/.config/doorctl.yaml.
func ResolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if env := os.Getenv("DOORCTL_CONFIG"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	return filepath.Join(home, ".config", "doorctl.yaml"), nil
}
