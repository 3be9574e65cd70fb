package awssg

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/pankaj-dahiya-devops/sg-mapper/internal/models"
	"github.com/pankaj-dahiya-devops/sg-mapper/internal/providers/aws/common"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

// fakeSGClient returns canned DescribeSecurityGroups pages. Pages are served
// in order; every page but the last carries a NextToken so the SDK paginator
// keeps going.
type fakeSGClient struct {
	pages []*ec2svc.DescribeSecurityGroupsOutput
	err   error
	calls int
}

func (f *fakeSGClient) DescribeSecurityGroups(
	_ context.Context,
	_ *ec2svc.DescribeSecurityGroupsInput,
	_ ...func(*ec2svc.Options),
) (*ec2svc.DescribeSecurityGroupsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.calls >= len(f.pages) {
		return &ec2svc.DescribeSecurityGroupsOutput{}, nil
	}
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

// fakeProvider satisfies common.AWSClientProvider for collector tests. Only
// ConfigForRegion is exercised here.
type fakeProvider struct{}

func (fakeProvider) LoadProfile(context.Context, string) (*common.ProfileConfig, error) {
	return &common.ProfileConfig{ProfileName: "test"}, nil
}

func (fakeProvider) GetActiveRegions(context.Context, *common.ProfileConfig) ([]string, error) {
	return []string{"us-east-1"}, nil
}

func (fakeProvider) ConfigForRegion(cfg *common.ProfileConfig, region string) aws.Config {
	c := cfg.Config.Copy()
	c.Region = region
	return c
}

func sdkGroup(id, name, vpc string) ec2types.SecurityGroup {
	return ec2types.SecurityGroup{
		GroupId:   aws.String(id),
		GroupName: aws.String(name),
		VpcId:     aws.String(vpc),
	}
}

// ---------------------------------------------------------------------------
// Collect
// ---------------------------------------------------------------------------

func TestCollect_PaginatesAllPages(t *testing.T) {
	client := &fakeSGClient{
		pages: []*ec2svc.DescribeSecurityGroupsOutput{
			{
				SecurityGroups: []ec2types.SecurityGroup{
					sdkGroup("sg-1", "web", "vpc-1"),
					sdkGroup("sg-2", "app", "vpc-1"),
				},
				NextToken: aws.String("page2"),
			},
			{
				SecurityGroups: []ec2types.SecurityGroup{
					sdkGroup("sg-3", "db", "vpc-2"),
				},
			},
		},
	}
	collector := NewDefaultCollectorWithFactory(func(aws.Config) ec2SGAPIClient {
		return client
	})

	profile := &common.ProfileConfig{ProfileName: "test"}
	got, err := collector.Collect(context.Background(), profile, fakeProvider{}, []string{"us-east-1"}, nil)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("got %d records; want 3", len(got))
	}
	if got[2].GroupID != "sg-3" || got[2].Region != "us-east-1" {
		t.Errorf("last record = %+v; want sg-3 in us-east-1", got[2])
	}
	if client.calls != 2 {
		t.Errorf("client called %d times; want 2 pages", client.calls)
	}
}

func TestCollect_FailedRegionIsSkipped(t *testing.T) {
	byRegion := map[string]*fakeSGClient{
		"us-east-1": {err: errors.New("throttled")},
		"eu-west-1": {
			pages: []*ec2svc.DescribeSecurityGroupsOutput{
				{SecurityGroups: []ec2types.SecurityGroup{sdkGroup("sg-9", "cache", "vpc-9")}},
			},
		},
	}
	collector := NewDefaultCollectorWithFactory(func(cfg aws.Config) ec2SGAPIClient {
		return byRegion[cfg.Region]
	})

	profile := &common.ProfileConfig{ProfileName: "test"}
	got, err := collector.Collect(context.Background(), profile, fakeProvider{},
		[]string{"us-east-1", "eu-west-1"}, nil)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 1 || got[0].GroupID != "sg-9" {
		t.Errorf("got %+v; want only sg-9 from the healthy region", got)
	}
}

// ---------------------------------------------------------------------------
// SDK conversion
// ---------------------------------------------------------------------------

func TestConvertPermission_Defaults(t *testing.T) {
	rule := convertPermission(ec2types.IpPermission{})
	if rule.FromPort != -1 || rule.ToPort != -1 {
		t.Errorf("ports = %d/%d; want -1/-1 for absent ports", rule.FromPort, rule.ToPort)
	}
	if rule.IpProtocol != "-1" {
		t.Errorf("protocol = %q; want %q for an absent protocol", rule.IpProtocol, "-1")
	}
}

func TestConvertPermission_SkipsNilReferences(t *testing.T) {
	rule := convertPermission(ec2types.IpPermission{
		FromPort:   aws.Int32(443),
		ToPort:     aws.Int32(443),
		IpProtocol: aws.String("tcp"),
		UserIdGroupPairs: []ec2types.UserIdGroupPair{
			{GroupId: nil},
			{GroupId: aws.String("sg-src"), VpcId: aws.String("vpc-src")},
		},
		IpRanges: []ec2types.IpRange{
			{CidrIp: nil},
			{CidrIp: aws.String("10.0.0.0/8")},
		},
		Ipv6Ranges: []ec2types.Ipv6Range{
			{CidrIpv6: aws.String("::/0")},
		},
	})

	if len(rule.UserIDGroupPairs) != 1 || rule.UserIDGroupPairs[0].GroupID != "sg-src" {
		t.Errorf("group pairs = %+v; want only sg-src", rule.UserIDGroupPairs)
	}
	if len(rule.IpRanges) != 2 {
		t.Fatalf("got %d ranges; want 2 (IPv4 and IPv6)", len(rule.IpRanges))
	}
	if rule.IpRanges[1].CidrIP != "::/0" {
		t.Errorf("second range = %q; want the IPv6 CIDR", rule.IpRanges[1].CidrIP)
	}
}

// ---------------------------------------------------------------------------
// FilterWithReferences
// ---------------------------------------------------------------------------

func TestFilterWithReferences(t *testing.T) {
	groups := []models.SecurityGroup{
		{
			GroupID: "sg-web",
			IpPermissions: []models.IpPermission{
				{UserIDGroupPairs: []models.UserIDGroupPair{{GroupID: "sg-lb"}}},
			},
		},
		{
			GroupID: "sg-lb",
			IpPermissions: []models.IpPermission{
				{UserIDGroupPairs: []models.UserIDGroupPair{{GroupID: "sg-edge"}}},
			},
		},
		{GroupID: "sg-edge"},
		{GroupID: "sg-unrelated"},
	}

	got := FilterWithReferences(groups, []string{"sg-web"})

	ids := make(map[string]bool, len(got))
	for _, sg := range got {
		ids[sg.GroupID] = true
	}
	if len(got) != 2 || !ids["sg-web"] || !ids["sg-lb"] {
		t.Errorf("kept %v; want sg-web plus its direct reference sg-lb", ids)
	}
	if ids["sg-edge"] {
		t.Error("sg-edge kept; references must not be chased past one hop")
	}
	if ids["sg-unrelated"] {
		t.Error("sg-unrelated kept; unreferenced groups must be dropped")
	}
}

func TestFilterWithReferences_EmptyIDsMeansNoFilter(t *testing.T) {
	groups := []models.SecurityGroup{{GroupID: "sg-1"}}
	if got := FilterWithReferences(groups, nil); len(got) != 0 {
		t.Errorf("got %d groups; an empty id set keeps nothing (callers skip the filter)", len(got))
	}
}
