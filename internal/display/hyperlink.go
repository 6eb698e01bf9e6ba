package display

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// hyperlinkTerminals are TERM_PROGRAM values known to render OSC 8 links
var hyperlinkTerminals = []string{
	"iTerm.app",
	"WezTerm",
	"Hyper",
	"Tabby",
	"Alacritty",
	"vscode",
	"VSCodium",
	"ghostty",
}

// SupportsHyperlinks reports whether w is a terminal that renders OSC 8
// hyperlinks. Detection is based on the environment of well-known terminals;
// unknown terminals get plain text.
func SupportsHyperlinks(w io.Writer) bool {
	if !IsTerminal(w) {
		return false
	}
	return hyperlinksFromEnv(os.Getenv)
}

func hyperlinksFromEnv(getenv func(string) string) bool {
	if program := getenv("TERM_PROGRAM"); program != "" {
		for _, t := range hyperlinkTerminals {
			if strings.Contains(program, t) {
				return true
			}
		}
	}
	switch getenv("COLORTERM") {
	case "truecolor", "24bit":
		return true
	}
	return getenv("VTE_VERSION") != "" || getenv("KONSOLE_VERSION") != ""
}

// fileURL builds the link target for an absolute path and line
func fileURL(abs string, line int) string {
	return "file://" + abs + ":" + strconv.Itoa(line)
}

// link wraps text in an OSC 8 hyperlink when enabled. The visible text is
// unchanged either way.
func link(enabled bool, abs string, line int, text string) string {
	if !enabled {
		return text
	}
	return ansi.SetHyperlink(fileURL(abs, line)) + text + ansi.ResetHyperlink()
}
