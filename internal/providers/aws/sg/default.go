package awssg

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/pankaj-dahiya-devops/sg-mapper/internal/models"
	"github.com/pankaj-dahiya-devops/sg-mapper/internal/providers/aws/common"
)

// DefaultCollector is the production Collector. It pages through
// DescribeSecurityGroups per region and converts the SDK response into
// models.SecurityGroup records.
type DefaultCollector struct {
	factory sgClientFactory
}

// NewDefaultCollector returns a DefaultCollector wired to production AWS SDK
// clients.
func NewDefaultCollector() *DefaultCollector {
	return &DefaultCollector{factory: newDefaultSGClient}
}

// NewDefaultCollectorWithFactory returns a DefaultCollector that uses the
// supplied factory, allowing tests to inject fake clients.
func NewDefaultCollectorWithFactory(f sgClientFactory) *DefaultCollector {
	return &DefaultCollector{factory: f}
}

// Collect implements Collector. Regions are processed in order; a region
// whose listing fails is logged and skipped. When groupIDs is non-empty the
// result is the requested groups plus one hop of referenced groups, so that
// a focused map still shows where its traffic comes from.
func (c *DefaultCollector) Collect(
	ctx context.Context,
	profile *common.ProfileConfig,
	provider common.AWSClientProvider,
	regions []string,
	groupIDs []string,
) ([]models.SecurityGroup, error) {
	var all []models.SecurityGroup

	for _, region := range regions {
		client := c.factory(provider.ConfigForRegion(profile, region))

		groups, err := listSecurityGroups(ctx, client, region)
		if err != nil {
			log.Warn().
				Str("profile", profile.ProfileName).
				Str("region", region).
				Err(err).
				Msg("skipping region: security group listing failed")
			continue
		}

		log.Debug().
			Str("region", region).
			Int("count", len(groups)).
			Msg("collected security groups")

		all = append(all, groups...)
	}

	if len(groupIDs) > 0 {
		all = FilterWithReferences(all, groupIDs)
	}
	return all, nil
}

// FilterWithReferences returns the groups whose IDs appear in ids, plus any
// group from the full set that a kept group references, so a focused map can
// still resolve its traffic sources. One hop only: the references of
// referenced groups are not chased further.
func FilterWithReferences(groups []models.SecurityGroup, ids []string) []models.SecurityGroup {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var kept []models.SecurityGroup
	referenced := make(map[string]bool)
	for _, sg := range groups {
		if !wanted[sg.GroupID] {
			continue
		}
		kept = append(kept, sg)
		for _, perm := range sg.IpPermissions {
			for _, pair := range perm.UserIDGroupPairs {
				referenced[pair.GroupID] = true
			}
		}
	}

	for _, sg := range groups {
		if referenced[sg.GroupID] && !wanted[sg.GroupID] {
			kept = append(kept, sg)
		}
	}
	return kept
}
