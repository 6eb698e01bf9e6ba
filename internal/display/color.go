package display

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/todotree/internal/models"
)

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ColorEnabled decides whether output to w should be colored. Color is off
// when disabled explicitly, when NO_COLOR is set, or when w is not a terminal.
func ColorEnabled(w io.Writer, disabled bool) bool {
	if disabled {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return IsTerminal(w)
}

// palette colors tag labels and priority markers by priority. Nothing else
// in the output is colored. Each color is switched on or off individually
// so rendering never depends on color.NoColor.
type palette struct {
	priority map[models.Priority]*color.Color
}

func newPalette(enabled bool) *palette {
	p := &palette{
		priority: map[models.Priority]*color.Color{
			models.PriorityCritical: color.New(color.FgRed, color.Bold),
			models.PriorityHigh:     color.New(color.FgYellow, color.Bold),
			models.PriorityMedium:   color.New(color.FgCyan, color.Bold),
			models.PriorityLow:      color.New(color.FgGreen, color.Bold),
		},
	}

	for _, c := range p.priority {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// tag colors a tag label or priority marker by its priority
func (p *palette) tag(name string, prio models.Priority) string {
	c, ok := p.priority[prio]
	if !ok {
		c = p.priority[models.PriorityMedium]
	}
	return c.Sprint(name)
}
