package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/canopy/pkg/actor"
)

var aspectColors = map[string]string{
	actor.AspectStandalone:  "#a78bfa",
	actor.AspectSource:      "#4ade80",
	actor.AspectTransformer: "#38bdf8",
	actor.AspectSink:        "#fb923c",
}

// TreeRenderer prints actor descriptions as an indented tree.
type TreeRenderer struct {
	Profile termenv.Profile
	// ShowOptions prints the decoded options below each actor.
	ShowOptions bool
}

// NewTreeRenderer uses the color profile of the terminal.
func NewTreeRenderer() *TreeRenderer {
	return &TreeRenderer{Profile: termenv.ColorProfile()}
}

// Render writes root and its subtree to w.
func (r *TreeRenderer) Render(w io.Writer, root *actor.Description) error {
	var sb strings.Builder
	r.line(&sb, root, "", "")
	r.children(&sb, root, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *TreeRenderer) children(sb *strings.Builder, d *actor.Description, prefix string) {
	type entry struct {
		tag string
		d   *actor.Description
	}
	var entries []entry
	for _, c := range d.Children {
		entries = append(entries, entry{"", c})
	}
	if d.Internal != nil {
		entries = append(entries, entry{"internal ", d.Internal})
	}
	if d.External != nil {
		entries = append(entries, entry{"external ", d.External})
	}

	for i, e := range entries {
		branch, next := "├── ", "│   "
		if i == len(entries)-1 {
			branch, next = "└── ", "    "
		}
		r.line(sb, e.d, prefix+branch, e.tag)
		if r.ShowOptions {
			r.options(sb, e.d, prefix+next)
		}
		r.children(sb, e.d, prefix+next)
	}
}

func (r *TreeRenderer) line(sb *strings.Builder, d *actor.Description, prefix, tag string) {
	name := r.Profile.String(d.Name).Bold()
	if color, ok := aspectColors[d.Procedural]; ok {
		name = name.Foreground(r.Profile.Color(color))
	}
	meta := fmt.Sprintf(" %s(%s, %s)", tag, d.Kind, d.Procedural)
	if d.Skip {
		name = r.Profile.String(d.Name).Faint().CrossOut()
		meta += " [disabled]"
	}
	sb.WriteString(prefix + name.String() + r.Profile.String(meta).Faint().String() + "\n")
}

func (r *TreeRenderer) options(sb *strings.Builder, d *actor.Description, prefix string) {
	keys := make([]string, 0, len(d.Options))
	for k := range d.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("%s  %s: %v\n", prefix, k, d.Options[k]))
	}
}
