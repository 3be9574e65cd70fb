package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/sg-mapper/internal/config"
	"github.com/pankaj-dahiya-devops/sg-mapper/internal/mapper"
	"github.com/pankaj-dahiya-devops/sg-mapper/internal/version"
)

func newRootCmd() *cobra.Command {
	var (
		debug      bool
		configPath string
	)

	root := &cobra.Command{
		Use:   "sgmap",
		Short: "AWS security group relationship mapper",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(debug)
		},
	}

	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Path to the config file")

	root.AddCommand(newMapCmd(&configPath))
	root.AddCommand(newCleanCmd(&configPath))
	root.AddCommand(newDoctorCmd(&configPath))
	root.AddCommand(newVersionCmd())
	return root
}

// setupLogging configures the global zerolog logger: console output on
// stderr, info level by default, debug when requested.
func setupLogging(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func newMapCmd(configPath *string) *cobra.Command {
	var opts mapper.Options

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Generate a security group relationship map",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return mapper.NewDefault(cfg).Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Profiles, "profiles", nil, "AWS profiles to analyze (required)")
	cmd.Flags().StringSliceVar(&opts.Regions, "regions", nil, "AWS regions to analyze (default: configured default region)")
	cmd.Flags().BoolVar(&opts.AllRegions, "all-regions", false, "Analyze every active region of the account")
	cmd.Flags().StringVar(&opts.Output, "output", "sg_map", "Output file path for the map (extension follows the renderer)")
	cmd.Flags().BoolVar(&opts.PerSG, "output-per-sg", false, "Generate a separate map per security group")
	cmd.Flags().StringSliceVar(&opts.GroupIDs, "security-group-ids", nil, "Restrict the map to specific security group IDs")
	cmd.Flags().BoolVar(&opts.ClearCache, "clear-cache", false, "Clear cached data before running")
	cmd.Flags().StringVar(&opts.Renderer, "renderer", "", `Renderer engine: "dot", "html", or "json" (default: from config)`)
	_ = cmd.MarkFlagRequired("profiles")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(version.Info())
		},
	}
}
