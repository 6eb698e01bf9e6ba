package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Warning is a stderr notice about the configuration, printed before a scan.
type Warning struct {
	Title  string
	Detail []string // one indented line each
	Source string   // config file the warning is about, if any
	Hint   string
}

// Display writes w to out, in yellow when out is a color terminal.
//
//	⚠️  Warning: <Title>
//	    <Detail...>
//	    in <Source>
//	    hint: <Hint>
func (w Warning) Display(out io.Writer) {
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️  Warning: %s\n", w.Title)
	for _, line := range w.Detail {
		fmt.Fprintf(&b, "    %s\n", line)
	}
	if w.Source != "" {
		fmt.Fprintf(&b, "    in %s\n", w.Source)
	}
	if w.Hint != "" {
		fmt.Fprintf(&b, "    hint: %s\n", w.Hint)
	}

	c := color.New(color.FgYellow)
	if ColorEnabled(out, false) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	fmt.Fprint(out, c.Sprint(b.String()))
}

// WarnInactivePriorities reports priority overrides naming tags outside the
// active set. configFile is the file they came from, or "".
func WarnInactivePriorities(names []string, configFile string) Warning {
	return Warning{
		Title:  "Priority configured for inactive tags",
		Detail: []string{"Ignored: " + strings.Join(names, ", ")},
		Source: configFile,
		Hint:   `add the tags with --add-tag or remove them from "priorities"`,
	}
}
