package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/harrison/todotree/internal/models"
	"github.com/harrison/todotree/internal/tags"
)

// TagJSON is one entry of `tags --json`
type TagJSON struct {
	Name        string          `json:"name"`
	Priority    models.Priority `json:"priority"`
	Description string          `json:"description,omitempty"`
}

// RenderTags lists tag definitions, grouped by priority in text mode
func RenderTags(w io.Writer, defs []tags.Definition, asJSON, colored bool) error {
	if asJSON {
		out := make([]TagJSON, len(defs))
		for i, d := range defs {
			out[i] = TagJSON{Name: d.Name, Priority: d.Priority, Description: d.Description}
		}
		return writeJSON(w, out)
	}

	pal := newPalette(colored)
	var b strings.Builder
	b.WriteString("Active tags:\n")

	for _, prio := range models.AllPriorities {
		var group []tags.Definition
		for _, d := range defs {
			if d.Priority == prio {
				group = append(group, d)
			}
		}
		if len(group) == 0 {
			continue
		}

		fmt.Fprintf(&b, "\n  %s\n", pal.tag(prio.String(), prio))
		for _, d := range group {
			fmt.Fprintf(&b, "    %s", pal.tag(fmt.Sprintf("%-10s", d.Name), d.Priority))
			if d.Description != "" {
				b.WriteString(" " + d.Description)
			}
			b.WriteString("\n")
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
