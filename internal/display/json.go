package display

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/harrison/todotree/internal/aggregator"
	"github.com/harrison/todotree/internal/models"
)

// JSONOutput is the machine-readable scan document. Field names and order
// are a compatibility contract with editor integrations.
type JSONOutput struct {
	Files   []JSONFile  `json:"files"`
	Summary JSONSummary `json:"summary"`
}

// JSONFile lists the items of one file
type JSONFile struct {
	Path  string     `json:"path"`
	Items []JSONItem `json:"items"`
}

// JSONItem is one tagged comment
type JSONItem struct {
	Tag      string          `json:"tag"`
	Message  string          `json:"message"`
	Line     int             `json:"line"`
	Column   int             `json:"column"`
	Author   string          `json:"author,omitempty"`
	Priority models.Priority `json:"priority"`
}

// JSONSummary holds the summary counts
type JSONSummary struct {
	TotalCount     int            `json:"total_count"`
	FilesWithTodos int            `json:"files_with_todos"`
	FilesScanned   int            `json:"files_scanned"`
	TagCounts      map[string]int `json:"tag_counts"`
}

// NewJSONOutput converts a report. Files are always listed in path order,
// whatever the grouping; paths are relative to root.
func NewJSONOutput(report *aggregator.Report, root string) JSONOutput {
	out := JSONOutput{
		Files: make([]JSONFile, 0, len(report.Files)),
		Summary: JSONSummary{
			TotalCount:     report.Summary.TotalCount,
			FilesWithTodos: report.Summary.FilesWithItems,
			FilesScanned:   report.Summary.FilesScanned,
			TagCounts:      report.Summary.TagCounts,
		},
	}
	if out.Summary.TagCounts == nil {
		out.Summary.TagCounts = map[string]int{}
	}

	for _, f := range report.Files {
		jf := JSONFile{Path: RelativePath(root, f.Path), Items: make([]JSONItem, len(f.Items))}
		for i, item := range f.Items {
			jf.Items[i] = JSONItem{
				Tag:      item.Tag,
				Message:  item.Message,
				Line:     item.Line,
				Column:   item.Column,
				Author:   item.Author,
				Priority: item.Priority,
			}
		}
		out.Files = append(out.Files, jf)
	}
	return out
}

func (r *Renderer) renderJSON(w io.Writer, report *aggregator.Report) error {
	return writeJSON(w, NewJSONOutput(report, r.opts.Root))
}

// writeJSON writes v indented by two spaces with a trailing newline
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
