// Package mapper orchestrates a mapping run: collect security group records
// (cache-first), build the relationship graph, and render the artifacts.
// It never calls the AWS SDK directly; collection goes through the provider
// and collector interfaces.
package mapper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pankaj-dahiya-devops/sg-mapper/internal/cache"
	"github.com/pankaj-dahiya-devops/sg-mapper/internal/config"
	"github.com/pankaj-dahiya-devops/sg-mapper/internal/graph"
	"github.com/pankaj-dahiya-devops/sg-mapper/internal/models"
	"github.com/pankaj-dahiya-devops/sg-mapper/internal/netinfo"
	"github.com/pankaj-dahiya-devops/sg-mapper/internal/providers/aws/common"
	awssg "github.com/pankaj-dahiya-devops/sg-mapper/internal/providers/aws/sg"
	"github.com/pankaj-dahiya-devops/sg-mapper/internal/render"
)

// mapsDir is where relative output paths are placed.
var mapsDir = filepath.Join("build", "maps")

// Options configures a single mapping run.
type Options struct {
	// Profiles are the AWS profiles to collect from. At least one required.
	Profiles []string

	// Regions are the regions to collect from. Empty means the configured
	// default region, or full discovery when AllRegions is set.
	Regions []string

	// AllRegions discovers and collects from every active region.
	AllRegions bool

	// GroupIDs restricts the map to specific security groups (plus the
	// groups they reference).
	GroupIDs []string

	// Output is the artifact path. Relative paths land under build/maps,
	// and the extension is adjusted to match the renderer.
	Output string

	// PerSG generates one focused map per security group instead of a
	// single combined map.
	PerSG bool

	// ClearCache wipes the response cache before collecting.
	ClearCache bool

	// Renderer overrides the configured renderer engine when non-empty.
	Renderer string
}

// Mapper wires the collection, caching, graph building, and rendering stages
// together.
type Mapper struct {
	cfg       *config.Config
	provider  common.AWSClientProvider
	collector awssg.Collector
	cache     *cache.Handler
	registry  *render.Registry
}

// New returns a Mapper using the supplied collaborators. The config value is
// the single source of CIDR names, cache settings, and renderer defaults.
func New(
	cfg *config.Config,
	provider common.AWSClientProvider,
	collector awssg.Collector,
	cacheHandler *cache.Handler,
	registry *render.Registry,
) *Mapper {
	return &Mapper{
		cfg:       cfg,
		provider:  provider,
		collector: collector,
		cache:     cacheHandler,
		registry:  registry,
	}
}

// NewDefault returns a Mapper wired to production collaborators.
func NewDefault(cfg *config.Config) *Mapper {
	return New(
		cfg,
		common.NewDefaultAWSClientProvider(),
		awssg.NewDefaultCollector(),
		cache.NewHandler(cfg.Cache.Directory, time.Duration(cfg.Cache.DurationSeconds)*time.Second),
		render.NewRegistry(cfg),
	)
}

// Run executes one mapping run end to end. An empty collection result is an
// error (nothing to map); an empty graph at render time is a warning and a
// skipped artifact, never a failure.
func (m *Mapper) Run(ctx context.Context, opts Options) error {
	if len(opts.Profiles) == 0 {
		return fmt.Errorf("at least one AWS profile is required")
	}

	engine := opts.Renderer
	if engine == "" {
		engine = m.cfg.Renderer.Engine
	}
	renderer, err := m.registry.Get(engine)
	if err != nil {
		return err
	}

	if opts.ClearCache {
		if err := m.cache.Clear("", ""); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		log.Info().Msg("cache cleared")
	}

	records, err := m.collect(ctx, opts)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no security groups found in any profile/region")
	}
	log.Info().Int("count", len(records)).Msg("collected security groups")

	if opts.PerSG {
		return m.renderPerGroup(records, renderer, opts.Output)
	}
	return m.renderCombined(records, renderer, opts.Output)
}

// collect gathers records across all requested profiles and regions,
// consulting the cache before the API. Profile load failures are fatal;
// per-region collection failures inside the collector are not.
func (m *Mapper) collect(ctx context.Context, opts Options) ([]models.SecurityGroup, error) {
	var all []models.SecurityGroup

	for _, profileName := range opts.Profiles {
		arg := profileName
		if arg == "default" {
			arg = ""
		}
		profile, err := m.provider.LoadProfile(ctx, arg)
		if err != nil {
			return nil, fmt.Errorf("load profile %q: %w", profileName, err)
		}
		if m.cfg.AWS.MaxRetries > 0 {
			profile.Config.RetryMaxAttempts = m.cfg.AWS.MaxRetries
		}

		regions, err := m.resolveRegions(ctx, profile, opts)
		if err != nil {
			return nil, err
		}

		for _, region := range regions {
			if cached, ok := m.cache.Get(profile.ProfileName, region); ok {
				log.Info().
					Str("profile", profile.ProfileName).
					Str("region", region).
					Msg("using cached data")
				all = append(all, cached...)
				continue
			}

			records, err := m.collector.Collect(ctx, profile, m.provider, []string{region}, nil)
			if err != nil {
				return nil, fmt.Errorf("collect %s/%s: %w", profile.ProfileName, region, err)
			}
			if err := m.cache.Save(profile.ProfileName, region, records); err != nil {
				// Cache failures must not abort the run.
				log.Warn().Err(err).Msg("failed to write cache")
			}
			all = append(all, records...)
		}
	}

	if len(opts.GroupIDs) > 0 {
		all = awssg.FilterWithReferences(all, opts.GroupIDs)
	}
	return all, nil
}

// resolveRegions picks the regions for one profile: the explicit list, full
// discovery with AllRegions, or the configured default region.
func (m *Mapper) resolveRegions(ctx context.Context, profile *common.ProfileConfig, opts Options) ([]string, error) {
	if len(opts.Regions) > 0 {
		return opts.Regions, nil
	}
	if opts.AllRegions {
		regions, err := m.provider.GetActiveRegions(ctx, profile)
		if err != nil {
			return nil, fmt.Errorf("discover regions for profile %q: %w", profile.ProfileName, err)
		}
		return regions, nil
	}
	return []string{m.cfg.AWS.DefaultRegion}, nil
}

// renderCombined builds one graph over every record and writes a single map.
func (m *Mapper) renderCombined(records []models.SecurityGroup, renderer render.Renderer, output string) error {
	builder := graph.NewBuilder(netinfo.NewNamer(m.cfg.CommonCIDRs))
	builder.Build(records, "")
	return m.writeArtifact(builder.Graph(), renderer, output, "")
}

// renderPerGroup builds one focused graph per security group, reusing a
// single builder; Build clears all prior state between units so no nodes
// leak from one map into the next. A failure on one group is logged and the
// rest continue.
func (m *Mapper) renderPerGroup(records []models.SecurityGroup, renderer render.Renderer, output string) error {
	builder := graph.NewBuilder(netinfo.NewNamer(m.cfg.CommonCIDRs))

	base := strings.TrimSuffix(output, filepath.Ext(output))
	if base == "" {
		base = "sg_map"
	}

	var rendered int
	for _, record := range records {
		builder.Build([]models.SecurityGroup{record}, record.GroupID)

		name := record.GroupName
		if name == "" {
			name = "Unknown"
		}
		title := fmt.Sprintf("Security Group: %s (%s)", name, record.GroupID)
		path := fmt.Sprintf("%s_%s", base, record.GroupID)

		if err := m.writeArtifact(builder.Graph(), renderer, path, title); err != nil {
			log.Error().Str("group", record.GroupID).Err(err).
				Msg("failed to generate map")
			continue
		}
		rendered++
	}

	if rendered == 0 {
		return fmt.Errorf("no maps could be generated")
	}
	log.Info().Int("maps", rendered).Msg("per-group maps generated")
	return nil
}

// writeArtifact renders the graph to the resolved output path. An empty
// graph is reported as a warning and skipped; it is not an error.
func (m *Mapper) writeArtifact(g *graph.Graph, renderer render.Renderer, output, title string) error {
	if g.NodeCount() == 0 {
		log.Warn().Str("output", output).Msg("graph is empty; nothing to render")
		return nil
	}

	path := ResolveOutputPath(output, renderer.Ext())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file %s: %w", path, err)
	}
	defer f.Close()

	if err := renderer.Render(g, f, title); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	log.Info().Str("output", path).Msg("map generated")
	return nil
}

// ResolveOutputPath normalises an output path: relative paths that are not
// already under the maps directory are placed there by basename, and the
// extension is forced to match the renderer.
func ResolveOutputPath(output, ext string) string {
	if output == "" {
		output = "sg_map"
	}
	if !filepath.IsAbs(output) && !strings.HasPrefix(output, mapsDir) {
		output = filepath.Join(mapsDir, filepath.Base(output))
	}
	if cur := filepath.Ext(output); cur != ext {
		output = strings.TrimSuffix(output, cur) + ext
	}
	return output
}
