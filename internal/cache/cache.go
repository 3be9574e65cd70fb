// Package cache stores collected security group records on disk so repeated
// runs against the same profile and region do not hit the AWS API. One JSON
// file exists per (profile, region) pair; entries expire after a configured
// TTL and corrupt files are treated as a miss.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pankaj-dahiya-devops/sg-mapper/internal/models"
)

// Handler reads and writes per-profile/region cache files under a single
// directory.
type Handler struct {
	dir string
	ttl time.Duration
}

// entry is the on-disk cache format.
type entry struct {
	Timestamp int64                  `json:"timestamp"`
	Data      []models.SecurityGroup `json:"data"`
}

// NewHandler returns a Handler rooted at dir with the given TTL. The
// directory is created on first Save, not here, so constructing a Handler
// never touches the filesystem.
func NewHandler(dir string, ttl time.Duration) *Handler {
	return &Handler{dir: dir, ttl: ttl}
}

// Dir returns the cache directory.
func (h *Handler) Dir() string { return h.dir }

// path returns the cache file for a profile/region pair.
func (h *Handler) path(profile, region string) string {
	return filepath.Join(h.dir, fmt.Sprintf("%s_%s_sg_cache.json", profile, region))
}

// Get returns the cached records for profile/region, or ok=false on a miss.
// Expired and unreadable entries are misses, never errors.
func (h *Handler) Get(profile, region string) ([]models.SecurityGroup, bool) {
	data, err := os.ReadFile(h.path(profile, region))
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		log.Debug().Str("profile", profile).Str("region", region).Err(err).
			Msg("ignoring corrupt cache file")
		return nil, false
	}

	if time.Since(time.Unix(e.Timestamp, 0)) > h.ttl {
		log.Debug().Str("profile", profile).Str("region", region).
			Msg("cache expired")
		return nil, false
	}
	return e.Data, true
}

// Save writes records to the cache file for profile/region, creating the
// cache directory if needed.
func (h *Handler) Save(profile, region string, records []models.SecurityGroup) error {
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir %s: %w", h.dir, err)
	}

	data, err := json.Marshal(entry{
		Timestamp: time.Now().Unix(),
		Data:      records,
	})
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	path := h.path(profile, region)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write cache file %s: %w", path, err)
	}
	return nil
}

// Clear removes cache files. With both profile and region set only that pair
// is removed; otherwise every cache file in the directory is removed. A
// missing directory is a no-op.
func (h *Handler) Clear(profile, region string) error {
	if profile != "" && region != "" {
		err := os.Remove(h.path(profile, region))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove cache file: %w", err)
		}
		return nil
	}

	matches, err := filepath.Glob(filepath.Join(h.dir, "*_sg_cache.json"))
	if err != nil {
		return fmt.Errorf("list cache files: %w", err)
	}
	for _, path := range matches {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return nil
}
