package yamlflow

import (
	"context"
	"fmt"

	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/registry"
)

// internalSetter is implemented by handlers that own a single private actor.
type internalSetter interface {
	SetInternal(actor.Actor)
}

// Build instantiates the tree described by n with the kinds known to reg.
// Sibling name collisions are resolved by renaming the later actors.
func Build(ctx context.Context, reg *registry.Registry, n *Node) (actor.Actor, error) {
	return build(ctx, reg, n, nil)
}

func build(ctx context.Context, reg *registry.Registry, n *Node, parent actor.Path) (actor.Actor, error) {
	name := n.Name
	if name == "" {
		name = n.Kind
	}
	path := parent.Append(name)
	if n.Kind == "" {
		return nil, fmt.Errorf("%s: missing kind", path)
	}

	a, err := reg.Create(n.Kind, name, n.Options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.SetSkip(n.Skip)

	if len(n.Children) > 0 {
		h, ok := a.(actor.MutableActorHandler)
		if !ok {
			return nil, fmt.Errorf("%s: %s cannot have children", path, n.Kind)
		}
		children := make([]actor.Actor, 0, len(n.Children))
		for _, c := range n.Children {
			child, err := build(ctx, reg, c, path)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		if actor.UniqueNames(children) {
			logging.FromContext(ctx).Warn("duplicate actor names renamed", "path", path.String())
		}
		h.Add(children...)
	}

	if n.Internal != nil {
		setter, ok := a.(internalSetter)
		if !ok {
			return nil, fmt.Errorf("%s: %s cannot have an internal actor", path, n.Kind)
		}
		inner, err := build(ctx, reg, n.Internal, path)
		if err != nil {
			return nil, err
		}
		setter.SetInternal(inner)
	}
	return a, nil
}

// FromActor describes a and its owned subtree as a Node. Actors loaded by
// external actors are not included; they live in their own files.
func FromActor(reg *registry.Registry, a actor.Actor) *Node {
	n := &Node{
		Kind: reg.KindOf(a),
		Name: a.Name(),
		Skip: a.Skip(),
	}
	if opts := actor.Options(a); len(opts) > 0 {
		n.Options = opts
	}
	if h, ok := a.(actor.ActorHandler); ok {
		for i := 0; i < h.Size(); i++ {
			n.Children = append(n.Children, FromActor(reg, h.Get(i)))
		}
	}
	if in, ok := a.(actor.InternalActorHandler); ok && in.InternalActor() != nil {
		n.Internal = FromActor(reg, in.InternalActor())
	}
	return n
}

// Marshal writes the tree rooted at a as a flow document.
func Marshal(reg *registry.Registry, a actor.Actor) ([]byte, error) {
	return Encode(FromActor(reg, a))
}
