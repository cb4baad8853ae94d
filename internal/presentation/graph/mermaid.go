package graph

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aretw0/canopy/pkg/actor"
)

// Overlay contains run data to visualize on the graph.
type Overlay struct {
	// Executed holds the full names of actors that executed at least once.
	Executed []string
	// Failed is the full name of the actor whose error ended the run.
	Failed string
}

// GenerateMermaid produces a Mermaid flowchart of an actor tree.
// Handlers become subgraphs whose children are chained in declaration order
// (Branch children are not chained, they run side by side). Shapes follow the
// procedural aspect:
// - Standalone: [[Subroutine]]
// - Source: ([Stadium])
// - Transformer: [Rectangle]
// - Sink: [/Parallelogram/]
func GenerateMermaid(root *actor.Description, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var disabled []string
	writeActor(&sb, root, 1, &disabled)

	if len(disabled) > 0 {
		sb.WriteString("\n    classDef disabled fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray: 5 5,color:#616161;\n")
		for _, id := range disabled {
			sb.WriteString(fmt.Sprintf("    class %s disabled;\n", id))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef executed fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, name := range overlay.Executed {
			id := sanitizeMermaidID(name)
			if !seen[id] && id != "" {
				seen[id] = true
				sb.WriteString(fmt.Sprintf("    class %s executed;\n", id))
			}
		}
		if overlay.Failed != "" {
			sb.WriteString(fmt.Sprintf("    class %s failed;\n", sanitizeMermaidID(overlay.Failed)))
		}
	}

	return sb.String()
}

func writeActor(sb *strings.Builder, d *actor.Description, depth int, disabled *[]string) {
	indent := strings.Repeat("    ", depth)
	id := sanitizeMermaidID(d.FullName)
	label := fmt.Sprintf("%s <br/> <small>%s</small>", escapeLabel(d.Name), d.Kind)
	if d.Skip {
		*disabled = append(*disabled, id)
	}

	if len(d.Children) == 0 {
		opener, closer := "[", "]"
		switch d.Procedural {
		case actor.AspectStandalone:
			opener, closer = "[[", "]]"
		case actor.AspectSource:
			opener, closer = "([", "])"
		case actor.AspectSink:
			opener, closer = "[/", "/]"
		}
		sb.WriteString(fmt.Sprintf("%s%s%s\"%s\"%s\n", indent, id, opener, label, closer))
	} else {
		sb.WriteString(fmt.Sprintf("%ssubgraph %s[\"%s\"]\n", indent, id, label))
		for _, c := range d.Children {
			writeActor(sb, c, depth+1, disabled)
		}
		if d.Kind != "Branch" {
			for i := 1; i < len(d.Children); i++ {
				sb.WriteString(fmt.Sprintf("%s    %s --> %s\n", indent,
					sanitizeMermaidID(d.Children[i-1].FullName),
					sanitizeMermaidID(d.Children[i].FullName)))
			}
		}
		sb.WriteString(indent + "end\n")
	}

	for _, owned := range []*actor.Description{d.Internal, d.External} {
		if owned == nil {
			continue
		}
		writeActor(sb, owned, depth, disabled)
		sb.WriteString(fmt.Sprintf("%s%s -.-> %s\n", indent, id, sanitizeMermaidID(owned.FullName)))
	}
}

func sanitizeMermaidID(id string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return '_'
	}, id)
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
