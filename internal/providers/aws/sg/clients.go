package awssg

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
)

// ec2SGAPIClient is the narrow EC2 interface used for security group
// collection. Embedding DescribeSecurityGroupsAPIClient lets the SDK
// paginator drive the listing directly.
type ec2SGAPIClient interface {
	ec2svc.DescribeSecurityGroupsAPIClient
}

// sgClientFactory creates the EC2 client from a region-scoped AWS config.
// Injection point: tests replace this with a function returning fakes.
type sgClientFactory func(cfg aws.Config) ec2SGAPIClient

// newDefaultSGClient creates the production EC2 SDK client.
func newDefaultSGClient(cfg aws.Config) ec2SGAPIClient {
	return ec2svc.NewFromConfig(cfg)
}
