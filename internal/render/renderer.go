// Package render turns a built graph into an output artifact. Renderers are
// selected by explicit name through the registry, never by inspecting types;
// adding a renderer means implementing Renderer and registering it.
package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/pankaj-dahiya-devops/sg-mapper/internal/config"
	"github.com/pankaj-dahiya-devops/sg-mapper/internal/graph"
)

// Renderer writes one visualization of the graph to w. Implementations must
// treat the graph as read-only.
type Renderer interface {
	// Name is the registry key ("dot", "html", "json").
	Name() string

	// Ext is the file extension for artifacts, including the dot.
	Ext() string

	// Render writes the artifact. Title may be empty.
	Render(g *graph.Graph, w io.Writer, title string) error
}

// Registry maps renderer names to implementations.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry returns a registry pre-populated with all built-in renderers
// configured from cfg.
func NewRegistry(cfg *config.Config) *Registry {
	r := &Registry{renderers: make(map[string]Renderer)}
	r.Register(NewDOTRenderer(cfg.Renderer.DOT))
	r.Register(NewHTMLRenderer(cfg.Renderer.HTML))
	r.Register(NewJSONRenderer())
	return r
}

// Register adds or replaces a renderer under its own name.
func (r *Registry) Register(renderer Renderer) {
	r.renderers[renderer.Name()] = renderer
}

// Get returns the named renderer or an error listing what is available.
func (r *Registry) Get(name string) (Renderer, error) {
	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("unknown renderer %q (available: %v)", name, r.Names())
	}
	return renderer, nil
}

// Names returns the sorted registered renderer names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sortedVPCs returns the VPC partition keys in a stable order, with the
// unknown-VPC bucket last.
func sortedVPCs(vpcGroups map[string][]string) []string {
	vpcs := make([]string, 0, len(vpcGroups))
	for vpc := range vpcGroups {
		if vpc != graph.UnknownVPC {
			vpcs = append(vpcs, vpc)
		}
	}
	sort.Strings(vpcs)
	if _, ok := vpcGroups[graph.UnknownVPC]; ok {
		vpcs = append(vpcs, graph.UnknownVPC)
	}
	return vpcs
}
