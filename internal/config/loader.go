package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default returns the built-in configuration used when no config file exists.
// The well-known CIDR table covers the blocks that show up in nearly every
// security group audit.
func Default() *Config {
	return &Config{
		AWS: AWSConfig{
			DefaultRegion: "us-east-1",
			MaxRetries:    3,
		},
		Cache: CacheConfig{
			Directory:       "~/.sgmap/cache",
			DurationSeconds: 3600,
		},
		Renderer: RendererConfig{
			Engine: "dot",
			DOT: DOTSettings{
				RankDir:  "LR",
				FontSize: 10,
			},
			HTML: HTMLSettings{
				PhysicsEnabled: true,
			},
		},
		CommonCIDRs: map[string]string{
			"0.0.0.0/0":      "Internet",
			"::/0":           "Internet (IPv6)",
			"10.0.0.0/8":     "Internal Network (Class A)",
			"172.16.0.0/12":  "Internal Network (Class B)",
			"192.168.0.0/16": "Internal Network (Class C)",
		},
	}
}

// DefaultPath returns the standard config file location,
// ~/.config/sgmap/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "sgmap", "config.yaml")
}

// Load reads the configuration from path. A missing file is not an error:
// the built-in defaults are returned so the tool works out of the box.
// Fields absent from the file keep their default values, and the cache
// directory's "~/" prefix is expanded.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.Cache.Directory = expandHome(cfg.Cache.Directory)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.AWS.DefaultRegion == "" {
		cfg.AWS.DefaultRegion = "us-east-1"
	}
	if cfg.Cache.DurationSeconds <= 0 {
		cfg.Cache.DurationSeconds = 3600
	}
	if cfg.Cache.Directory == "" {
		cfg.Cache.Directory = "~/.sgmap/cache"
	}
	if cfg.Renderer.Engine == "" {
		cfg.Renderer.Engine = "dot"
	}
	if cfg.CommonCIDRs == nil {
		cfg.CommonCIDRs = Default().CommonCIDRs
	}
	cfg.Cache.Directory = expandHome(cfg.Cache.Directory)

	return cfg, nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
