// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Config is the door adapter configuration, normally /etc/door-adapter.yaml.
type Config struct {
	Vendor VendorConfig `yaml:"vendor"`
	Doors  []DoorConfig `yaml:"doors"`
	Server ServerConfig `yaml:"server"`
	Events EventsConfig `yaml:"events"`

	DataDir string `yaml:"data_dir"`
}

type VendorConfig struct {
	URL             string `yaml:"url"`
	AuthHeaderName  string `yaml:"api_key"`
	AuthHeaderValue string `yaml:"api_value"`

	OAuth2 *OAuth2Config `yaml:"oauth2,omitempty"`

	RequestTimeout Duration `yaml:"request_timeout"`
	ProbeAttempts  int      `yaml:"probe_attempts"`
	ProbeInterval  Duration `yaml:"probe_interval"`
	ProbeTimeout   Duration `yaml:"probe_timeout"`
}

type OAuth2Config struct {
	ClientId     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	TokenURL     string   `yaml:"token_url"`
	Scopes       []string `yaml:"scopes"`
}

// DoorConfig maps the fleet-side door name to the vendor door id.
type DoorConfig struct {
	Name   string `yaml:"name"`
	DoorId string `yaml:"door_id"`
}

type ServerConfig struct {
	Port          uint16   `yaml:"port"`
	TokenHash     string   `yaml:"token_hash"`
	RateLimit     float64  `yaml:"rate_limit_per_sec"`
	RateBurst     int      `yaml:"rate_burst"`
	PollInterval  Duration `yaml:"poll_interval"`
	StateCacheTTL Duration `yaml:"state_cache_ttl"`
}

type EventsConfig struct {
	NatsURL       string `yaml:"nats_url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// Duration accepts Go duration strings ("1500ms") or plain seconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var secs float64
	if err := node.Decode(&secs); err == nil {
		d.Duration = time.Duration(secs * float64(time.Second))
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

const (
	DefaultPort          = 8080
	DefaultPollInterval  = 2 * time.Second
	DefaultStateCacheTTL = time.Second
	DefaultRequestTime   = 10 * time.Second
	DefaultRateLimit     = 20
	DefaultSubjectPrefix = "rmf.door"
	DefaultDataDir       = "/var/lib/door-adapter"
)

// Load reads the configuration from path, applies defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found at %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.PollInterval.Duration <= 0 {
		c.Server.PollInterval.Duration = DefaultPollInterval
	}
	if c.Server.StateCacheTTL.Duration <= 0 {
		c.Server.StateCacheTTL.Duration = DefaultStateCacheTTL
	}
	if c.Server.RateLimit <= 0 {
		c.Server.RateLimit = DefaultRateLimit
	}
	if c.Server.RateBurst <= 0 {
		c.Server.RateBurst = max(1, int(c.Server.RateLimit*2))
	}
	// A negative timeout in the file means "leave it to the transport".
	if c.Vendor.RequestTimeout.Duration == 0 {
		c.Vendor.RequestTimeout.Duration = DefaultRequestTime
	} else if c.Vendor.RequestTimeout.Duration < 0 {
		c.Vendor.RequestTimeout.Duration = 0
	}
	if c.Events.SubjectPrefix == "" {
		c.Events.SubjectPrefix = DefaultSubjectPrefix
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
}

func (c *Config) Validate() error {
	if c.Vendor.URL == "" {
		return errors.New("vendor.url is required")
	}
	if u, err := url.Parse(c.Vendor.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("vendor.url is not an absolute URL: %q", c.Vendor.URL)
	}
	if c.Vendor.AuthHeaderName == "" && c.Vendor.OAuth2 == nil {
		return errors.New("either vendor.api_key or vendor.oauth2 must be configured")
	}
	if o := c.Vendor.OAuth2; o != nil && (o.ClientId == "" || o.TokenURL == "") {
		return errors.New("vendor.oauth2 requires client_id and token_url")
	}
	if len(c.Doors) == 0 {
		return errors.New("at least one door must be configured")
	}
	seen := make(map[string]bool, len(c.Doors))
	for i, d := range c.Doors {
		if d.Name == "" {
			return fmt.Errorf("doors[%d] has no name", i)
		}
		if !validDoorName(d.Name) {
			return fmt.Errorf("door '%s' has an invalid name: whitespace and any of %q are not allowed", d.Name, doorNameReserved)
		}
		if d.DoorId == "" {
			return fmt.Errorf("door '%s' has no door_id", d.Name)
		}
		if seen[d.Name] {
			return fmt.Errorf("door '%s' is configured twice", d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}

// Door names are used as one NATS subject token and one URL path segment.
const doorNameReserved = ".*>/"

func validDoorName(name string) bool {
	return !strings.ContainsAny(name, doorNameReserved) && strings.IndexFunc(name, unicode.IsSpace) < 0
}

// Door returns the door configuration by its fleet name.
func (c *Config) Door(name string) (*DoorConfig, error) {
	for i := range c.Doors {
		if c.Doors[i].Name == name {
			return &c.Doors[i], nil
		}
	}
	return nil, fmt.Errorf("door '%s' not found", name)
}
