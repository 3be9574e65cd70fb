package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/sg-mapper/internal/cache"
	"github.com/pankaj-dahiya-devops/sg-mapper/internal/config"
)

func newCleanCmd(configPath *string) *cobra.Command {
	var (
		cacheOnly bool
		mapsOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached data and generated maps",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runClean(cfg, cacheOnly, mapsOnly)
		},
	}

	cmd.Flags().BoolVar(&cacheOnly, "cache-only", false, "Only clear the response cache")
	cmd.Flags().BoolVar(&mapsOnly, "maps-only", false, "Only remove generated map files")
	cmd.MarkFlagsMutuallyExclusive("cache-only", "maps-only")

	return cmd
}

// runClean clears the response cache and/or the generated maps directory.
func runClean(cfg *config.Config, cacheOnly, mapsOnly bool) error {
	if !mapsOnly {
		h := cache.NewHandler(cfg.Cache.Directory, time.Duration(cfg.Cache.DurationSeconds)*time.Second)
		if err := h.Clear("", ""); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		log.Info().Str("dir", cfg.Cache.Directory).Msg("cache cleared")
	}

	if !cacheOnly {
		mapsDir := filepath.Join("build", "maps")
		if err := os.RemoveAll(mapsDir); err != nil {
			return fmt.Errorf("remove %s: %w", mapsDir, err)
		}
		log.Info().Str("dir", mapsDir).Msg("generated maps removed")
	}
	return nil
}
