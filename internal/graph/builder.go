package graph

import (
	"strconv"

	"github.com/pankaj-dahiya-devops/sg-mapper/internal/models"
	"github.com/pankaj-dahiya-devops/sg-mapper/internal/netinfo"
)

// cidrNodePrefix namespaces address block node keys so a CIDR label can never
// collide with a security group ID.
const cidrNodePrefix = "CIDR: "

// Builder turns security group records into a Graph. One Builder owns one
// mutable graph per unit of work; call Build again (or Clear) between
// unrelated builds. Not safe for concurrent use — batch workers must each own
// their own Builder.
type Builder struct {
	graph       *Graph
	namer       *netinfo.Namer
	highlightID string
}

// NewBuilder returns a Builder that labels CIDR nodes with the given namer.
// A nil namer is allowed and falls back to bare classification.
func NewBuilder(namer *netinfo.Namer) *Builder {
	return &Builder{
		graph: NewGraph(),
		namer: namer,
	}
}

// Graph returns the graph produced by the most recent Build. Empty before the
// first Build call.
func (b *Builder) Graph() *Graph { return b.graph }

// Clear resets the builder to its pre-build state.
func (b *Builder) Clear() {
	b.graph.Clear()
	b.highlightID = ""
}

// Build constructs the graph from records in input order. highlightID marks
// at most one node as highlighted for rendering; pass "" for none. Prior
// state is always discarded first, so a Builder reused across units of work
// never leaks nodes between builds.
//
// Build is total over best-effort data: empty names, missing VPC IDs, and
// rules without sources are defaulted or skipped, never surfaced as errors.
func (b *Builder) Build(records []models.SecurityGroup, highlightID string) {
	b.Clear()
	b.highlightID = highlightID

	for _, record := range records {
		b.addRecord(record)
	}
}

// addRecord inserts the record's own node and processes its inbound rules.
func (b *Builder) addRecord(record models.SecurityGroup) {
	name := record.GroupName
	if name == "" {
		name = "Unknown"
	}
	vpcID := record.VpcID
	if vpcID == "" {
		vpcID = UnknownVPC
	}

	b.graph.AddSecurityGroupNode(SecurityGroupNode{
		ID:            record.GroupID,
		Name:          name,
		Description:   record.Description,
		VpcID:         vpcID,
		IsHighlighted: record.GroupID == b.highlightID,
	})

	for _, perm := range record.IpPermissions {
		b.addPermission(perm, record.GroupID, vpcID)
	}
}

// addPermission processes one inbound rule against the owning group. The edge
// direction models ingress: source (who may connect) points at the group that
// declared the rule (who receives the traffic).
func (b *Builder) addPermission(perm models.IpPermission, targetID, targetVPC string) {
	protocol := perm.IpProtocol
	if protocol == "" {
		protocol = "-1"
	}
	label := netinfo.DisplayProtocol(protocol) + ":" + netinfo.FormatPorts(perm.FromPort, perm.ToPort)
	portRange := strconv.Itoa(perm.FromPort) + "-" + strconv.Itoa(perm.ToPort)

	for _, pair := range perm.UserIDGroupPairs {
		if pair.GroupID == "" {
			continue
		}
		sourceVPC := pair.VpcID
		if sourceVPC == "" {
			sourceVPC = UnknownVPC
		}

		// A reference to a group outside the input set still gets a node:
		// a synthesized placeholder standing in for the unresolved group.
		if !b.graph.HasNode(pair.GroupID) {
			b.graph.AddSecurityGroupNode(SecurityGroupNode{
				ID:            pair.GroupID,
				Name:          "Security Group " + pair.GroupID,
				Description:   "Referenced Security Group",
				VpcID:         sourceVPC,
				IsHighlighted: pair.GroupID == b.highlightID,
			})
		}

		b.graph.AddEdge(Edge{
			Source:    pair.GroupID,
			Target:    targetID,
			Label:     label,
			Protocol:  protocol,
			PortRange: portRange,
			CrossVPC:  sourceVPC != targetVPC && sourceVPC != UnknownVPC,
		})
	}

	for _, ipRange := range perm.IpRanges {
		if ipRange.CidrIP == "" {
			continue
		}
		friendly := b.namer.FriendlyName(ipRange.CidrIP)
		nodeKey := cidrNodePrefix + friendly

		b.graph.AddAddressBlockNode(AddressBlockNode{
			Key:   nodeKey,
			Label: friendly,
		})

		// Address blocks have no container, so their edges are never
		// cross-VPC.
		b.graph.AddEdge(Edge{
			Source:    nodeKey,
			Target:    targetID,
			Label:     label,
			Protocol:  protocol,
			PortRange: portRange,
			CrossVPC:  false,
		})
	}
}
