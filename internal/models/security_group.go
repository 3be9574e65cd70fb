// Package models defines the data structures passed between the AWS
// collection layer, the cache, and the graph builder. Field names mirror the
// EC2 DescribeSecurityGroups response shape so cached JSON stays readable
// next to raw API output.
package models

// SecurityGroup is one EC2 security group as supplied by the collector (live
// or cached). The builder applies defaulting rules for empty fields; callers
// are not required to normalise anything beyond GroupID, which must be set.
type SecurityGroup struct {
	GroupID       string         `json:"group_id"`
	GroupName     string         `json:"group_name"`
	Description   string         `json:"description"`
	VpcID         string         `json:"vpc_id"`
	Region        string         `json:"region"`
	IpPermissions []IpPermission `json:"ip_permissions"`
}

// IpPermission is a single inbound rule. FromPort and ToPort are -1 when the
// rule covers all ports; IpProtocol is "-1" when it covers all protocols.
// Both conventions come straight from the EC2 API.
type IpPermission struct {
	FromPort         int               `json:"from_port"`
	ToPort           int               `json:"to_port"`
	IpProtocol       string            `json:"ip_protocol"`
	UserIDGroupPairs []UserIDGroupPair `json:"user_id_group_pairs,omitempty"`
	IpRanges         []IPRange         `json:"ip_ranges,omitempty"`
}

// UserIDGroupPair references another security group as the traffic source.
// VpcID may be empty when the API does not report the peer VPC.
type UserIDGroupPair struct {
	GroupID string `json:"group_id"`
	VpcID   string `json:"vpc_id,omitempty"`
}

// IPRange is a CIDR-based traffic source. Both IPv4 and IPv6 ranges are
// carried here; the builder treats them identically.
type IPRange struct {
	CidrIP string `json:"cidr_ip"`
}
