package yamlflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/registry"
)

// Loader implements ports.FlowLoader over YAML files in a directory.
type Loader struct {
	dir string
	reg *registry.Registry
}

// NewLoader creates a loader resolving relative references against dir.
func NewLoader(dir string, reg *registry.Registry) *Loader {
	return &Loader{dir: dir, reg: reg}
}

// Dir returns the directory relative references are resolved against.
func (l *Loader) Dir() string { return l.dir }

func (l *Loader) path(ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(l.dir, ref)
}

// Load reads and instantiates the flow stored in ref.
func (l *Loader) Load(ctx context.Context, ref string) (actor.Actor, error) {
	data, err := os.ReadFile(l.path(ref))
	if err != nil {
		return nil, fmt.Errorf("failed to read flow %s: %w", ref, err)
	}
	n, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse flow %s: %w", ref, err)
	}
	a, err := Build(ctx, l.reg, n)
	if err != nil {
		return nil, fmt.Errorf("failed to build flow %s: %w", ref, err)
	}
	logging.FromContext(ctx).Debug("flow loaded", "ref", ref, "root", a.Name())
	return a, nil
}

// Save writes the tree rooted at a to ref.
func (l *Loader) Save(ref string, a actor.Actor) error {
	data, err := Marshal(l.reg, a)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", a.FullName(), err)
	}
	path := l.path(ref)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
