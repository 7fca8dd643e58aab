// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package config loads server configuration from the environment, with an
// optional YAML file providing defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of a server instance.
//
// Precedence: environment variables override file values, which override the
// built-in defaults.
type Config struct {
	// URL is the NetBox base URL, e.g. https://netbox.example.com
	// (NETBOX_URL, required)
	URL string `yaml:"url"`

	// Token is the NetBox API token (NETBOX_TOKEN, required)
	Token string `yaml:"token"`

	// TLSInsecure disables TLS certificate verification
	// (NETBOX_TLS_INSECURE, default false)
	TLSInsecure bool `yaml:"tls_insecure"`

	// WrapListResults wraps list-shaped results into a {count, results}
	// envelope (NETBOX_WRAP_LIST_RESULTS, default true)
	WrapListResults bool `yaml:"wrap_list_results"`

	// EnableV4 gates version-4-only object types: "auto" detects the server
	// version, "true"/"1"/"yes"/"on" force them on, anything else off
	// (NETBOX_ENABLE_V4, default "auto")
	EnableV4 string `yaml:"enable_v4"`

	// LogLevel is one of trace, debug, info, warn, error
	// (NETBOX_LOG_LEVEL, default "info")
	LogLevel string `yaml:"log_level"`

	// Listen is the HTTP transport address, e.g. ":8080". Empty selects the
	// stdio transport (NETBOX_MCP_LISTEN, default empty)
	Listen string `yaml:"listen"`
}

// fileConfig mirrors Config with optional fields, so a file can set booleans
// without clobbering defaults it does not mention
type fileConfig struct {
	URL             *string `yaml:"url"`
	Token           *string `yaml:"token"`
	TLSInsecure     *bool   `yaml:"tls_insecure"`
	WrapListResults *bool   `yaml:"wrap_list_results"`
	EnableV4        *string `yaml:"enable_v4"`
	LogLevel        *string `yaml:"log_level"`
	Listen          *string `yaml:"listen"`
}

// Load builds the configuration from defaults, the optional YAML file at
// path, and the environment, then validates it
func Load(path string) (Config, error) {
	cfg := Config{
		WrapListResults: true,
		EnableV4:        "auto",
		LogLevel:        "info",
	}

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.URL != nil {
		cfg.URL = *fc.URL
	}
	if fc.Token != nil {
		cfg.Token = *fc.Token
	}
	if fc.TLSInsecure != nil {
		cfg.TLSInsecure = *fc.TLSInsecure
	}
	if fc.WrapListResults != nil {
		cfg.WrapListResults = *fc.WrapListResults
	}
	if fc.EnableV4 != nil {
		cfg.EnableV4 = *fc.EnableV4
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.Listen != nil {
		cfg.Listen = *fc.Listen
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("NETBOX_URL"); ok {
		cfg.URL = v
	}
	if v, ok := os.LookupEnv("NETBOX_TOKEN"); ok {
		cfg.Token = v
	}
	if v, ok := os.LookupEnv("NETBOX_TLS_INSECURE"); ok {
		cfg.TLSInsecure = parseBool(v)
	}
	if v, ok := os.LookupEnv("NETBOX_WRAP_LIST_RESULTS"); ok {
		cfg.WrapListResults = parseBool(v)
	}
	if v, ok := os.LookupEnv("NETBOX_ENABLE_V4"); ok {
		cfg.EnableV4 = v
	}
	if v, ok := os.LookupEnv("NETBOX_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv("NETBOX_MCP_LISTEN"); ok {
		cfg.Listen = v
	}
}

func (c Config) validate() error {
	if c.URL == "" {
		return errors.New("NETBOX_URL is required")
	}
	if c.Token == "" {
		return errors.New("NETBOX_TOKEN is required")
	}
	return nil
}

// parseBool accepts the same truthy spellings as the v4 gate
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
