// Package graph builds the directed relationship graph at the heart of the
// mapper: security groups and CIDR blocks as nodes, permitted inbound traffic
// as edges. Renderers consume the graph through Nodes, Edges, and
// GroupNodesByVPC; nothing else mutates it.
package graph

// NodeKind discriminates the two node variants.
type NodeKind string

const (
	KindSecurityGroup NodeKind = "security_group"
	KindAddressBlock  NodeKind = "cidr"
)

// UnknownVPC is the sentinel container for groups whose VPC the API did not
// report. It is never treated as a boundary for cross-VPC classification.
const UnknownVPC = "Unknown VPC"

// SecurityGroupNode represents one security group, real or synthesized.
type SecurityGroupNode struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	VpcID         string `json:"vpc_id"`
	IsHighlighted bool   `json:"is_highlighted"`
}

// AddressBlockNode represents one deduplicated CIDR source. Key is the node
// identity ("CIDR: " + label); Label is the friendly display name.
type AddressBlockNode struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Node is the tagged union stored in the graph. Exactly one of SecurityGroup
// and AddressBlock is non-nil, matching Kind.
type Node struct {
	Kind          NodeKind           `json:"kind"`
	SecurityGroup *SecurityGroupNode `json:"security_group,omitempty"`
	AddressBlock  *AddressBlockNode  `json:"address_block,omitempty"`
}

// Key returns the node's identity in the graph: the group ID for security
// group nodes, the prefixed label for address block nodes.
func (n Node) Key() string {
	switch n.Kind {
	case KindSecurityGroup:
		return n.SecurityGroup.ID
	case KindAddressBlock:
		return n.AddressBlock.Key
	}
	return ""
}

// Edge is a directed edge from a traffic source (referenced group or CIDR
// block) to the group whose rule permits it. Label carries the display
// protocol ("-1" shown as "All"); Protocol keeps the raw API value for exact
// matching.
type Edge struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	Label     string `json:"label"`
	Protocol  string `json:"protocol"`
	PortRange string `json:"port_range"`
	CrossVPC  bool   `json:"cross_vpc"`
}

// Graph is an insertion-ordered directed graph with unique node keys and at
// most one edge per ordered (source, target) pair. It is owned by a single
// Builder per build call and is not safe for concurrent use.
type Graph struct {
	nodes     map[string]Node
	nodeOrder []string

	edges     []Edge
	edgeIndex map[[2]string]int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	g := &Graph{}
	g.Clear()
	return g
}

// Clear resets the graph to empty. Safe to call repeatedly.
func (g *Graph) Clear() {
	g.nodes = make(map[string]Node)
	g.nodeOrder = nil
	g.edges = nil
	g.edgeIndex = make(map[[2]string]int)
}

// AddSecurityGroupNode inserts or overwrites a security group node keyed by
// its ID. Re-adding an existing ID replaces the attributes without creating
// a duplicate (last write wins).
func (g *Graph) AddSecurityGroupNode(sg SecurityGroupNode) {
	if _, exists := g.nodes[sg.ID]; !exists {
		g.nodeOrder = append(g.nodeOrder, sg.ID)
	}
	g.nodes[sg.ID] = Node{Kind: KindSecurityGroup, SecurityGroup: &sg}
}

// AddAddressBlockNode inserts an address block node keyed by its prefixed
// label. First insertion wins; later inserts of the same key are no-ops
// (the attributes are derived from the key, so nothing is lost).
func (g *Graph) AddAddressBlockNode(ab AddressBlockNode) {
	if _, exists := g.nodes[ab.Key]; exists {
		return
	}
	g.nodeOrder = append(g.nodeOrder, ab.Key)
	g.nodes[ab.Key] = Node{Kind: KindAddressBlock, AddressBlock: &ab}
}

// AddEdge inserts a directed edge. When an edge for the same (source, target)
// pair already exists its attributes are overwritten in place; parallel edges
// are not kept.
func (g *Graph) AddEdge(e Edge) {
	key := [2]string{e.Source, e.Target}
	if i, exists := g.edgeIndex[key]; exists {
		g.edges[i] = e
		return
	}
	g.edgeIndex[key] = len(g.edges)
	g.edges = append(g.edges, e)
}

// HasNode reports whether a node with the given key exists.
func (g *Graph) HasNode(key string) bool {
	_, ok := g.nodes[key]
	return ok
}

// Node returns the node with the given key.
func (g *Graph) Node(key string) (Node, bool) {
	n, ok := g.nodes[key]
	return n, ok
}

// Nodes returns all nodes in insertion order. The returned slice is a copy;
// mutating it does not affect the graph.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodeOrder))
	for _, key := range g.nodeOrder {
		out = append(out, g.nodes[key])
	}
	return out
}

// Edges returns all edges in insertion order. The returned slice is a copy.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// GroupNodesByVPC partitions security group node keys by VPC and separately
// lists address block node keys. Renderers use the partition to draw VPC
// boundaries. Both the map values and the CIDR list preserve node insertion
// order.
func (g *Graph) GroupNodesByVPC() (map[string][]string, []string) {
	vpcGroups := make(map[string][]string)
	var cidrNodes []string

	for _, key := range g.nodeOrder {
		node := g.nodes[key]
		switch node.Kind {
		case KindSecurityGroup:
			vpc := node.SecurityGroup.VpcID
			if vpc == "" {
				vpc = UnknownVPC
			}
			vpcGroups[vpc] = append(vpcGroups[vpc], key)
		case KindAddressBlock:
			cidrNodes = append(cidrNodes, key)
		}
	}
	return vpcGroups, cidrNodes
}
