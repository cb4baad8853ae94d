package yamlflow

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Node is the file form of an actor and its owned subtree.
type Node struct {
	Kind     string         `yaml:"kind"`
	Name     string         `yaml:"name,omitempty"`
	Skip     bool           `yaml:"skip,omitempty"`
	Options  map[string]any `yaml:"options,omitempty"`
	Children []*Node        `yaml:"children,omitempty"`
	// Internal is the privately owned actor of a Tee.
	Internal *Node `yaml:"internal,omitempty"`
}

// Decode parses a single flow document. Unknown fields are rejected.
func Decode(data []byte) (*Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var n Node
	if err := dec.Decode(&n); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty flow document")
		}
		return nil, err
	}
	if n.Kind == "" {
		return nil, fmt.Errorf("root node %q has no kind", n.Name)
	}
	return &n, nil
}

// Encode writes n as YAML with two-space indentation.
func Encode(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
