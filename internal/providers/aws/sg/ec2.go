package awssg

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/pankaj-dahiya-devops/sg-mapper/internal/models"
)

// listSecurityGroups pages through all security groups in the region and
// converts them into records. Missing optional fields get the conventional
// defaults: -1 for absent ports, "-1" for an absent protocol. Both IPv4 and
// IPv6 CIDR ranges are included.
func listSecurityGroups(ctx context.Context, client ec2SGAPIClient, region string) ([]models.SecurityGroup, error) {
	var groups []models.SecurityGroup

	paginator := ec2svc.NewDescribeSecurityGroupsPaginator(client, &ec2svc.DescribeSecurityGroupsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe security groups in %s: %w", region, err)
		}
		for _, sg := range page.SecurityGroups {
			groups = append(groups, convertSecurityGroup(sg, region))
		}
	}
	return groups, nil
}

// convertSecurityGroup maps one SDK security group into the record shape the
// graph builder consumes.
func convertSecurityGroup(sg ec2types.SecurityGroup, region string) models.SecurityGroup {
	record := models.SecurityGroup{
		GroupID:     aws.ToString(sg.GroupId),
		GroupName:   aws.ToString(sg.GroupName),
		Description: aws.ToString(sg.Description),
		VpcID:       aws.ToString(sg.VpcId),
		Region:      region,
	}

	for _, perm := range sg.IpPermissions {
		record.IpPermissions = append(record.IpPermissions, convertPermission(perm))
	}
	return record
}

// convertPermission maps one SDK inbound rule, applying the -1 defaults for
// absent ports and protocol.
func convertPermission(perm ec2types.IpPermission) models.IpPermission {
	rule := models.IpPermission{
		FromPort:   -1,
		ToPort:     -1,
		IpProtocol: "-1",
	}
	if perm.FromPort != nil {
		rule.FromPort = int(aws.ToInt32(perm.FromPort))
	}
	if perm.ToPort != nil {
		rule.ToPort = int(aws.ToInt32(perm.ToPort))
	}
	if perm.IpProtocol != nil {
		rule.IpProtocol = aws.ToString(perm.IpProtocol)
	}

	for _, pair := range perm.UserIdGroupPairs {
		if pair.GroupId == nil {
			continue
		}
		rule.UserIDGroupPairs = append(rule.UserIDGroupPairs, models.UserIDGroupPair{
			GroupID: aws.ToString(pair.GroupId),
			VpcID:   aws.ToString(pair.VpcId),
		})
	}
	for _, ipRange := range perm.IpRanges {
		if ipRange.CidrIp == nil {
			continue
		}
		rule.IpRanges = append(rule.IpRanges, models.IPRange{CidrIP: aws.ToString(ipRange.CidrIp)})
	}
	for _, ipv6Range := range perm.Ipv6Ranges {
		if ipv6Range.CidrIpv6 == nil {
			continue
		}
		rule.IpRanges = append(rule.IpRanges, models.IPRange{CidrIP: aws.ToString(ipv6Range.CidrIpv6)})
	}
	return rule
}
