// Package config loads the sgmap configuration file. The loaded Config value
// is passed explicitly into the components that need it (collector, cache,
// namer, renderers); there is no process-wide config state.
package config

// Config is the top-level application configuration, loaded from
// ~/.config/sgmap/config.yaml (or the path given via --config).
type Config struct {
	AWS      AWSConfig      `yaml:"aws"      json:"aws"`
	Cache    CacheConfig    `yaml:"cache"    json:"cache"`
	Renderer RendererConfig `yaml:"renderer" json:"renderer"`

	// CommonCIDRs maps well-known CIDR blocks to friendly names, e.g.
	// "0.0.0.0/0" -> "Internet". Consulted by the CIDR namer before
	// private/public classification.
	CommonCIDRs map[string]string `yaml:"common_cidrs" json:"common_cidrs"`
}

// AWSConfig holds AWS defaults used when flags are not provided.
type AWSConfig struct {
	// DefaultRegion is used when no --regions flag is set.
	DefaultRegion string `yaml:"default_region" json:"default_region"`

	// MaxRetries caps per-call SDK retry attempts during collection.
	MaxRetries int `yaml:"max_retries" json:"max_retries"`
}

// CacheConfig controls the on-disk response cache.
type CacheConfig struct {
	// Directory stores one JSON cache file per profile/region pair.
	// A leading "~/" is expanded to the user's home directory.
	Directory string `yaml:"directory" json:"directory"`

	// DurationSeconds is the cache TTL. Entries older than this are
	// treated as a miss.
	DurationSeconds int `yaml:"duration_seconds" json:"duration_seconds"`
}

// RendererConfig selects and tunes the output renderer.
type RendererConfig struct {
	// Engine names the renderer: "dot", "html", or "json".
	Engine string `yaml:"engine" json:"engine"`

	// DOT holds Graphviz-specific settings.
	DOT DOTSettings `yaml:"dot" json:"dot"`

	// HTML holds interactive-document settings.
	HTML HTMLSettings `yaml:"html" json:"html"`
}

// DOTSettings tunes the Graphviz renderer.
type DOTSettings struct {
	// RankDir is the graph layout direction ("LR", "TB", ...).
	RankDir string `yaml:"rankdir" json:"rankdir"`

	// FontSize is the node label font size in points.
	FontSize int `yaml:"font_size" json:"font_size"`
}

// HTMLSettings tunes the interactive HTML renderer.
type HTMLSettings struct {
	// PhysicsEnabled toggles force-directed layout in the browser.
	PhysicsEnabled bool `yaml:"physics_enabled" json:"physics_enabled"`
}
