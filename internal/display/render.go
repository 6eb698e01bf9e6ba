package display

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/harrison/todotree/internal/aggregator"
	"github.com/harrison/todotree/internal/models"
)

// Mode selects the output format
type Mode int

const (
	// ModeTree renders a two-level tree grouped by file or tag
	ModeTree Mode = iota
	// ModeFlat renders one line per item
	ModeFlat
	// ModeJSON renders the stable JSON document
	ModeJSON
)

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case ModeFlat:
		return "flat"
	case ModeJSON:
		return "json"
	default:
		return "tree"
	}
}

// Tree glyphs
const (
	branch     = "├── "
	lastBranch = "└── "
	pipe       = "│   "
	space      = "    "
)

// Options configures a Renderer
type Options struct {
	Mode Mode
	// Root is the scan root; paths are shown relative to it
	Root string
	// Color enables ANSI colors (ignored in JSON mode)
	Color bool
	// Hyperlinks wraps paths and line numbers in OSC 8 links (ignored in JSON mode)
	Hyperlinks bool
	// HideSummary suppresses the trailing summary in text modes
	HideSummary bool
}

// Renderer turns an aggregated report into output
type Renderer struct {
	opts Options
	pal  *palette
}

// NewRenderer creates a renderer
func NewRenderer(opts Options) *Renderer {
	if opts.Mode == ModeJSON {
		opts.Color = false
		opts.Hyperlinks = false
	}
	return &Renderer{opts: opts, pal: newPalette(opts.Color)}
}

// Render writes the report to w
func (r *Renderer) Render(w io.Writer, report *aggregator.Report) error {
	if r.opts.Mode == ModeJSON {
		return r.renderJSON(w, report)
	}

	bw := bufio.NewWriter(w)
	if report.Empty() {
		fmt.Fprintln(bw, "No TODO items found.")
	} else {
		switch {
		case r.opts.Mode == ModeFlat:
			r.renderFlat(bw, report)
		case report.GroupBy == aggregator.ByTag:
			r.renderTreeByTag(bw, report)
		default:
			r.renderTreeByFile(bw, report)
		}
	}

	if !r.opts.HideSummary {
		fmt.Fprintln(bw)
		r.renderSummary(bw, report)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Renderer) renderTreeByFile(w io.Writer, report *aggregator.Report) {
	for gi, g := range report.Groups {
		lastGroup := gi == len(report.Groups)-1
		fmt.Fprintf(w, "%s%s (%d)\n",
			glyph(lastGroup, lastBranch, branch),
			link(r.opts.Hyperlinks, g.Key, 1, r.displayPath(g.Key)),
			len(g.Items))

		indent := glyph(lastGroup, space, pipe)
		for ii, item := range g.Items {
			lastItem := ii == len(g.Items)-1
			lineLabel := link(r.opts.Hyperlinks, item.Path, item.Line, fmt.Sprintf("L%d", item.Line))

			var b strings.Builder
			b.WriteString(indent)
			b.WriteString(glyph(lastItem, lastBranch, branch))
			b.WriteString("[" + lineLabel + "] ")
			b.WriteString(r.pal.tag(item.Tag, item.Priority))
			if item.Author != "" {
				b.WriteString(" " + item.FormatAuthor())
			}
			b.WriteString(":")
			if item.Message != "" {
				b.WriteString(" " + item.Message)
			}
			fmt.Fprintln(w, b.String())
		}
	}
}

func (r *Renderer) renderTreeByTag(w io.Writer, report *aggregator.Report) {
	for gi, g := range report.Groups {
		lastGroup := gi == len(report.Groups)-1
		prio := models.PriorityMedium
		if len(g.Items) > 0 {
			prio = g.Items[0].Priority
		}
		fmt.Fprintf(w, "%s%s (%d)\n", glyph(lastGroup, lastBranch, branch), r.pal.tag(g.Key, prio), len(g.Items))

		indent := glyph(lastGroup, space, pipe)
		for ii, item := range g.Items {
			lastItem := ii == len(g.Items)-1
			loc := link(r.opts.Hyperlinks, item.Path, item.Line, r.displayPath(item.Path))
			fmt.Fprintf(w, "%s%s%s:%d - %s\n",
				indent,
				glyph(lastItem, lastBranch, branch),
				loc,
				item.Line,
				item.Message)
		}
	}
}

func (r *Renderer) renderFlat(w io.Writer, report *aggregator.Report) {
	for _, f := range report.Files {
		display := r.displayPath(f.Path)
		for _, item := range f.Items {
			fmt.Fprintf(w, "%s:%d:%d [%s] %s\n",
				link(r.opts.Hyperlinks, item.Path, item.Line, display),
				item.Line, item.Column,
				r.pal.tag(item.Tag, item.Priority),
				item.Message)
		}
	}
}

func (r *Renderer) renderSummary(w io.Writer, report *aggregator.Report) {
	s := report.Summary
	fmt.Fprintf(w, "Found %d TODO items in %d files (%d files scanned)\n",
		s.TotalCount, s.FilesWithItems, s.FilesScanned)

	if len(s.TagCounts) == 0 {
		return
	}

	prio := tagPriorities(report)
	parts := make([]string, 0, len(s.TagCounts))
	for _, tag := range s.SortedTags() {
		parts = append(parts, fmt.Sprintf("%s: %d", r.pal.tag(tag, prio[tag]), s.TagCounts[tag]))
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(parts, ", "))
}

// displayPath returns path relative to the root with forward slashes
func (r *Renderer) displayPath(path string) string {
	return RelativePath(r.opts.Root, path)
}

// RelativePath returns path relative to root using "/" separators. Paths
// outside root are returned unchanged.
func RelativePath(root, path string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func tagPriorities(report *aggregator.Report) map[string]models.Priority {
	prio := make(map[string]models.Priority)
	for _, f := range report.Files {
		for _, item := range f.Items {
			prio[item.Tag] = item.Priority
		}
	}
	return prio
}

func glyph(last bool, ifLast, otherwise string) string {
	if last {
		return ifLast
	}
	return otherwise
}
