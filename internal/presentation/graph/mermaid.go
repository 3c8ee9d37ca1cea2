package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/onclick/pkg/action"
	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/world"
)

// Overlay contains dynamic state data to visualize on the graph.
type Overlay struct {
	// Labels maps objects to display names (for example scenario names).
	Labels map[domain.ObjectID]string
	// Fired lists objects whose queue ran at least once.
	Fired  []domain.ObjectID
}

// GenerateMermaid produces a Mermaid flowchart of the clickable objects in w.
// It applies semantic styling:
// - Queue with delegated commands: [[Subroutine]]
// - Queue with only in-process slots: [Rectangle]
// - Empty queue: ((Circle))
// Delegated commands that name another object (press obj#2) become dotted
// edges. Disabled objects and the overlay's fired objects are styled.
func GenerateMermaid(w *world.World, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var disabled []string
	for _, id := range world.Query[action.OnClick](w) {
		q, _ := world.Get[action.OnClick](w, id)
		safeID := mermaidID(id)

		opener, closer := "[", "]"
		delegated := false
		for _, k := range q.Kinds() {
			if k == domain.SlotDelegated {
				delegated = true
			}
		}
		switch {
		case q.Len() == 0:
			opener, closer = "((", "))"
		case delegated:
			opener, closer = "[[", "]]"
		}

		name := id.String()
		if overlay != nil && overlay.Labels[id] != "" {
			name = overlay.Labels[id]
		}
		label := name
		if q.Len() > 0 {
			label = fmt.Sprintf("%s <br/> %s", name, summarize(q.Kinds()))
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		for _, cmd := range q.Commands() {
			for _, target := range referencedObjects(cmd) {
				if !w.Exists(target) {
					continue
				}
				verb := strings.ReplaceAll(strings.Fields(cmd)[0], "\"", "'")
				fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", safeID, verb, mermaidID(target))
			}
		}

		if w.IsDisabled(id) {
			disabled = append(disabled, safeID)
		}
	}

	if len(disabled) > 0 || overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef disabled fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:4,color:#000;\n")
		sb.WriteString("    classDef fired fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		for _, id := range disabled {
			fmt.Fprintf(&sb, "    class %s disabled;\n", id)
		}
	}
	if overlay != nil {
		seen := make(map[domain.ObjectID]bool)
		for _, id := range overlay.Fired {
			if seen[id] || !w.Exists(id) {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s fired;\n", mermaidID(id))
		}
	}

	return sb.String()
}

// summarize renders slot kinds as "2x system, delegated", preserving order
// of first appearance.
func summarize(kinds []domain.SlotKind) string {
	var order []domain.SlotKind
	counts := make(map[domain.SlotKind]int)
	for _, k := range kinds {
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	parts := make([]string, len(order))
	for i, k := range order {
		if counts[k] > 1 {
			parts[i] = fmt.Sprintf("%dx %s", counts[k], k)
		} else {
			parts[i] = string(k)
		}
	}
	return strings.Join(parts, ", ")
}

func referencedObjects(cmd string) []domain.ObjectID {
	var out []domain.ObjectID
	for _, f := range strings.Fields(cmd) {
		if !strings.HasPrefix(f, "obj#") {
			continue
		}
		if id, err := domain.ParseObjectID(f); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func mermaidID(id domain.ObjectID) string {
	return fmt.Sprintf("obj_%d", uint64(id))
}
