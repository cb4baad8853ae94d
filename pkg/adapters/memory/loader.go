package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/adapters/yamlflow"
	"github.com/aretw0/canopy/pkg/registry"
)

// Loader implements ports.FlowLoader over flow documents held in memory.
// Every Load builds a fresh tree.
type Loader struct {
	reg   *registry.Registry
	flows map[string][]byte
}

// NewLoader creates a loader from raw YAML documents keyed by reference.
func NewLoader(reg *registry.Registry, data map[string]string) *Loader {
	flows := make(map[string][]byte, len(data))
	for k, v := range data {
		flows[k] = []byte(v)
	}
	return &Loader{reg: reg, flows: flows}
}

// NewFromNodes creates a loader from node trees.
func NewFromNodes(reg *registry.Registry, nodes map[string]*yamlflow.Node) (*Loader, error) {
	flows := make(map[string][]byte, len(nodes))
	for ref, n := range nodes {
		data, err := yamlflow.Encode(n)
		if err != nil {
			return nil, fmt.Errorf("failed to encode flow %s: %w", ref, err)
		}
		flows[ref] = data
	}
	return &Loader{reg: reg, flows: flows}, nil
}

// Load builds the flow stored under ref.
func (l *Loader) Load(ctx context.Context, ref string) (actor.Actor, error) {
	data, ok := l.flows[ref]
	if !ok {
		return nil, fmt.Errorf("flow not found: %s", ref)
	}
	n, err := yamlflow.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse flow %s: %w", ref, err)
	}
	return yamlflow.Build(ctx, l.reg, n)
}

// ListFlows returns the available references, sorted.
func (l *Loader) ListFlows() []string {
	refs := make([]string, 0, len(l.flows))
	for ref := range l.flows {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}
