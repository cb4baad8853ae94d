package dsl

import "github.com/aretw0/canopy/pkg/adapters/yamlflow"

// NodeBuilder provides a fluent API for configuring one actor of a tree.
type NodeBuilder struct {
	node *yamlflow.Node
}

// Actor starts a node of the given kind. An empty name defaults to the kind
// when the tree is built.
func Actor(kind, name string) *NodeBuilder {
	return &NodeBuilder{node: &yamlflow.Node{Kind: kind, Name: name}}
}

// Set adds an option decoded into the actor's fields.
func (n *NodeBuilder) Set(key string, value any) *NodeBuilder {
	if n.node.Options == nil {
		n.node.Options = make(map[string]any)
	}
	n.node.Options[key] = value
	return n
}

// Skip disables the actor.
func (n *NodeBuilder) Skip() *NodeBuilder {
	n.node.Skip = true
	return n
}

// Add appends children to a handler node.
func (n *NodeBuilder) Add(children ...*NodeBuilder) *NodeBuilder {
	for _, c := range children {
		n.node.Children = append(n.node.Children, c.node)
	}
	return n
}

// Internal sets the wrapped actor of an internal actor handler such as Tee.
func (n *NodeBuilder) Internal(child *NodeBuilder) *NodeBuilder {
	n.node.Internal = child.node
	return n
}

// Node returns the underlying flow node.
func (n *NodeBuilder) Node() *yamlflow.Node {
	return n.node
}

// Shorthands for the control actors.

func Flow(name string, children ...*NodeBuilder) *NodeBuilder {
	return Actor("Flow", name).Add(children...)
}

func Sequence(name string, children ...*NodeBuilder) *NodeBuilder {
	return Actor("Sequence", name).Add(children...)
}

func SubProcess(name string, children ...*NodeBuilder) *NodeBuilder {
	return Actor("SubProcess", name).Add(children...)
}

func SequenceSource(name string, children ...*NodeBuilder) *NodeBuilder {
	return Actor("SequenceSource", name).Add(children...)
}

func Standalones(name string, children ...*NodeBuilder) *NodeBuilder {
	return Actor("Standalones", name).Add(children...)
}

func Branch(name string, children ...*NodeBuilder) *NodeBuilder {
	return Actor("Branch", name).Add(children...)
}

// LocalScope creates a LocalScopeTrigger; configure it with Set using the
// copy_*, propagate_* and *_regexp options.
func LocalScope(name string, children ...*NodeBuilder) *NodeBuilder {
	return Actor("LocalScopeTrigger", name).Add(children...)
}

func Callables(name string, children ...*NodeBuilder) *NodeBuilder {
	return Actor("CallableActors", name).Add(children...)
}

func Tee(name string, internal *NodeBuilder) *NodeBuilder {
	return Actor("Tee", name).Internal(internal)
}
