package dsl

import (
	"context"
	"fmt"

	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/adapters/memory"
	"github.com/aretw0/canopy/pkg/adapters/yamlflow"
	"github.com/aretw0/canopy/pkg/registry"
)

// Builder collects named flows so they can reference each other through
// external actors.
type Builder struct {
	flows map[string]*NodeBuilder
}

// New creates a new flow builder.
func New() *Builder {
	return &Builder{
		flows: make(map[string]*NodeBuilder),
	}
}

// Add registers root under ref. If ref already exists, it returns the
// existing node.
func (b *Builder) Add(ref string, root *NodeBuilder) *NodeBuilder {
	if nb, ok := b.flows[ref]; ok {
		return nb
	}
	b.flows[ref] = root
	return root
}

// Build compiles the flows into a memory loader.
func (b *Builder) Build(reg *registry.Registry) (*memory.Loader, error) {
	nodes := make(map[string]*yamlflow.Node, len(b.flows))
	for ref, nb := range b.flows {
		nodes[ref] = nb.node
	}

	loader, err := memory.NewFromNodes(reg, nodes)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}

// Instantiate builds a single tree directly.
func Instantiate(ctx context.Context, reg *registry.Registry, root *NodeBuilder) (actor.Actor, error) {
	return yamlflow.Build(ctx, reg, root.node)
}
