// Package awssg collects EC2 security group records for the graph builder.
package awssg

import (
	"context"

	"github.com/pankaj-dahiya-devops/sg-mapper/internal/models"
	"github.com/pankaj-dahiya-devops/sg-mapper/internal/providers/aws/common"
)

// Collector fetches security group records across the given regions.
// When groupIDs is non-empty only those groups (plus the groups they
// reference, so focused maps can resolve their sources) are returned.
//
// Implementations must never apply graph logic; they hand back plain
// records. Per-region failures must be skipped non-fatally so one
// unreachable region does not block the rest of the collection.
type Collector interface {
	Collect(
		ctx context.Context,
		profile *common.ProfileConfig,
		provider common.AWSClientProvider,
		regions []string,
		groupIDs []string,
	) ([]models.SecurityGroup, error)
}
