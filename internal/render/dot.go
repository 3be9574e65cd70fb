package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/pankaj-dahiya-devops/sg-mapper/internal/config"
	"github.com/pankaj-dahiya-devops/sg-mapper/internal/graph"
)

// DOTRenderer writes Graphviz source. Security groups are drawn inside one
// cluster per VPC, CIDR sources float outside the clusters, the highlighted
// group gets a filled style, and cross-VPC edges are dashed red.
type DOTRenderer struct {
	settings config.DOTSettings
}

// NewDOTRenderer returns a DOTRenderer with the given settings. Zero-value
// settings fall back to left-to-right layout at 10pt.
func NewDOTRenderer(settings config.DOTSettings) *DOTRenderer {
	if settings.RankDir == "" {
		settings.RankDir = "LR"
	}
	if settings.FontSize <= 0 {
		settings.FontSize = 10
	}
	return &DOTRenderer{settings: settings}
}

func (r *DOTRenderer) Name() string { return "dot" }
func (r *DOTRenderer) Ext() string  { return ".dot" }

// Render implements Renderer.
func (r *DOTRenderer) Render(g *graph.Graph, w io.Writer, title string) error {
	var b strings.Builder

	b.WriteString("digraph security_groups {\n")
	fmt.Fprintf(&b, "  rankdir=%s;\n", r.settings.RankDir)
	fmt.Fprintf(&b, "  node [fontsize=%d];\n", r.settings.FontSize)
	if title != "" {
		fmt.Fprintf(&b, "  label=%s;\n  labelloc=t;\n", dotQuote(title))
	}
	b.WriteString("\n")

	vpcGroups, cidrNodes := g.GroupNodesByVPC()

	for i, vpc := range sortedVPCs(vpcGroups) {
		fmt.Fprintf(&b, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&b, "    label=%s;\n", dotQuote(vpc))
		b.WriteString("    style=dashed;\n")
		for _, key := range vpcGroups[vpc] {
			node, _ := g.Node(key)
			sg := node.SecurityGroup
			attrs := fmt.Sprintf("shape=box, label=%s", dotQuote(sg.Name+"\n"+sg.ID))
			if sg.IsHighlighted {
				attrs += `, style=filled, fillcolor=gold`
			}
			fmt.Fprintf(&b, "    %s [%s];\n", dotQuote(key), attrs)
		}
		b.WriteString("  }\n")
	}

	if len(cidrNodes) > 0 {
		b.WriteString("\n")
		for _, key := range cidrNodes {
			node, _ := g.Node(key)
			fmt.Fprintf(&b, "  %s [shape=ellipse, style=dashed, label=%s];\n",
				dotQuote(key), dotQuote(node.AddressBlock.Label))
		}
	}

	b.WriteString("\n")
	for _, edge := range g.Edges() {
		attrs := fmt.Sprintf("label=%s", dotQuote(edge.Label))
		if edge.CrossVPC {
			attrs += `, color=red, style=dashed`
		}
		fmt.Fprintf(&b, "  %s -> %s [%s];\n", dotQuote(edge.Source), dotQuote(edge.Target), attrs)
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// dotQuote wraps s in double quotes with DOT-safe escaping. Embedded
// newlines become the \n label escape.
func dotQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}
