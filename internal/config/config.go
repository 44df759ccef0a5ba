// Package config loads server configuration: struct defaults first, then an
// optional YAML file, then environment overrides. Every policy default the
// engine consumes (accepted statuses, combinatorial ceilings) lives here so
// no call site hard-codes them.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"go-basket-analytics/internal/model"
)

// DefaultConfigPaths lists where config files are searched, first hit wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/basket-analytics/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "BASKET_CONFIG"

// envPrefix namespaces environment overrides, e.g. BASKET_SERVER_ADDR.
const envPrefix = "BASKET_"

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type SnapshotConfig struct {
	Path string `koanf:"path"` // default dataset snapshot location
}

type OutputConfig struct {
	Dir string `koanf:"dir"` // export files land under <dir>/<analysis-id>/
}

type EngineConfig struct {
	MaxBundleSize    int      `koanf:"max_bundle_size"`
	MaxItemsPerOrder int      `koanf:"max_items_per_order"`
	DefaultStatuses  []string `koanf:"default_statuses"`
}

type FetchConfig struct {
	BaseURL string `koanf:"base_url"`
	Key     string `koanf:"key"`
	Secret  string `koanf:"secret"`
	PerPage int    `koanf:"per_page"`
}

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Snapshot SnapshotConfig `koanf:"snapshot"`
	Output   OutputConfig   `koanf:"output"`
	Engine   EngineConfig   `koanf:"engine"`
	Fetch    FetchConfig    `koanf:"fetch"`
}

func defaultConfig() *Config {
	return &Config{
		Server:   ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{Path: "basket.db"},
		Snapshot: SnapshotConfig{Path: "data/orders.json"},
		Output:   OutputConfig{Dir: "outputs"},
		Engine: EngineConfig{
			MaxBundleSize:    model.DefaultLimits.MaxBundleSize,
			MaxItemsPerOrder: model.DefaultLimits.MaxItemsPerOrder,
			DefaultStatuses:  model.DefaultStatuses,
		},
		Fetch: FetchConfig{PerPage: 100},
	}
}

// Load builds the effective configuration: defaults, then the first config
// file found (or the one named by BASKET_CONFIG), then BASKET_* env vars.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Limits exposes the engine ceilings as the model type the engine takes.
func (c *Config) Limits() model.Limits {
	return model.Limits{
		MaxBundleSize:    c.Engine.MaxBundleSize,
		MaxItemsPerOrder: c.Engine.MaxItemsPerOrder,
	}
}
