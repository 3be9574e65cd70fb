package render

import (
	"encoding/json"
	"io"

	"github.com/pankaj-dahiya-devops/sg-mapper/internal/graph"
)

// JSONRenderer dumps the graph as machine-readable JSON for downstream
// tooling. The document carries the node list, the edge list, and the VPC
// partition renderers use for boundary drawing.
type JSONRenderer struct{}

// NewJSONRenderer returns a JSONRenderer.
func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

func (r *JSONRenderer) Name() string { return "json" }
func (r *JSONRenderer) Ext() string  { return ".json" }

// document is the serialised graph format.
type document struct {
	Title     string              `json:"title,omitempty"`
	Nodes     []graph.Node        `json:"nodes"`
	Edges     []graph.Edge        `json:"edges"`
	VPCGroups map[string][]string `json:"vpc_groups"`
	CIDRNodes []string            `json:"cidr_nodes"`
}

// Render implements Renderer.
func (r *JSONRenderer) Render(g *graph.Graph, w io.Writer, title string) error {
	vpcGroups, cidrNodes := g.GroupNodesByVPC()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(document{
		Title:     title,
		Nodes:     g.Nodes(),
		Edges:     g.Edges(),
		VPCGroups: vpcGroups,
		CIDRNodes: cidrNodes,
	})
}
