package ports

import (
	"context"

	"github.com/aretw0/canopy/pkg/actor"
)

// FlowLoader materializes actor trees.
// It is used by the engine for the main flow and by external actors for the
// flows they reference.
type FlowLoader interface {
	// Load builds the actor tree identified by ref (typically a file path).
	// The returned root has no parent.
	Load(ctx context.Context, ref string) (actor.Actor, error)
}

// FlowLoaderFunc adapts a function to FlowLoader.
type FlowLoaderFunc func(ctx context.Context, ref string) (actor.Actor, error)

func (f FlowLoaderFunc) Load(ctx context.Context, ref string) (actor.Actor, error) {
	return f(ctx, ref)
}
