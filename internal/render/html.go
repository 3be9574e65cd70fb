package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/pankaj-dahiya-devops/sg-mapper/internal/config"
	"github.com/pankaj-dahiya-devops/sg-mapper/internal/graph"
)

// HTMLRenderer writes a self-contained interactive document built on
// vis-network. Nodes are grouped (colored) by VPC, the highlighted group is
// enlarged, and cross-VPC edges are dashed red.
type HTMLRenderer struct {
	settings config.HTMLSettings
	tmpl     *template.Template
}

// NewHTMLRenderer returns an HTMLRenderer with the given settings.
func NewHTMLRenderer(settings config.HTMLSettings) *HTMLRenderer {
	return &HTMLRenderer{
		settings: settings,
		tmpl:     template.Must(template.New("map").Parse(htmlTemplate)),
	}
}

func (r *HTMLRenderer) Name() string { return "html" }
func (r *HTMLRenderer) Ext() string  { return ".html" }

// visNode and visEdge match the vis-network dataset format.
type visNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title,omitempty"`
	Group string `json:"group"`
	Shape string `json:"shape"`
	Size  int    `json:"size,omitempty"`
}

type visEdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Label  string `json:"label"`
	Arrows string `json:"arrows"`
	Dashes bool   `json:"dashes,omitempty"`
	Color  string `json:"color,omitempty"`
}

// Render implements Renderer.
func (r *HTMLRenderer) Render(g *graph.Graph, w io.Writer, title string) error {
	var nodes []visNode
	for _, node := range g.Nodes() {
		switch node.Kind {
		case graph.KindSecurityGroup:
			sg := node.SecurityGroup
			vn := visNode{
				ID:    sg.ID,
				Label: sg.Name + "\n" + sg.ID,
				Title: sg.Description,
				Group: sg.VpcID,
				Shape: "box",
			}
			if sg.IsHighlighted {
				vn.Size = 40
			}
			nodes = append(nodes, vn)
		case graph.KindAddressBlock:
			ab := node.AddressBlock
			nodes = append(nodes, visNode{
				ID:    ab.Key,
				Label: ab.Label,
				Group: "cidr",
				Shape: "ellipse",
			})
		}
	}

	var edges []visEdge
	for _, edge := range g.Edges() {
		ve := visEdge{
			From:   edge.Source,
			To:     edge.Target,
			Label:  edge.Label,
			Arrows: "to",
		}
		if edge.CrossVPC {
			ve.Dashes = true
			ve.Color = "red"
		}
		edges = append(edges, ve)
	}

	nodesJSON, err := json.Marshal(nodes)
	if err != nil {
		return fmt.Errorf("marshal nodes: %w", err)
	}
	edgesJSON, err := json.Marshal(edges)
	if err != nil {
		return fmt.Errorf("marshal edges: %w", err)
	}

	return r.tmpl.Execute(w, map[string]any{
		"Title":   title,
		"Nodes":   template.JS(nodesJSON),
		"Edges":   template.JS(edgesJSON),
		"Physics": r.settings.PhysicsEnabled,
	})
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{if .Title}}{{.Title}}{{else}}Security Group Map{{end}}</title>
  <script src="https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"></script>
  <style>
    body { margin: 0; font-family: sans-serif; }
    #header { padding: 8px 16px; background: #f5f5f5; border-bottom: 1px solid #ddd; }
    #map { width: 100vw; height: calc(100vh - 48px); }
  </style>
</head>
<body>
  <div id="header"><strong>{{if .Title}}{{.Title}}{{else}}Security Group Map{{end}}</strong></div>
  <div id="map"></div>
  <script>
    var nodes = new vis.DataSet({{.Nodes}});
    var edges = new vis.DataSet({{.Edges}});
    var network = new vis.Network(
      document.getElementById("map"),
      { nodes: nodes, edges: edges },
      {
        physics: { enabled: {{if .Physics}}true{{else}}false{{end}} },
        edges: { font: { size: 10, align: "middle" } },
        nodes: { font: { size: 12 } }
      }
    );
  </script>
</body>
</html>
`
