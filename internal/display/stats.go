package display

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/harrison/todotree/internal/models"
)

const barWidth = 20

// StatsOutput is the JSON form of the stats command
type StatsOutput struct {
	TotalItems     int            `json:"total_items"`
	FilesWithTodos int            `json:"files_with_todos"`
	FilesScanned   int            `json:"files_scanned"`
	TagCounts      map[string]int `json:"tag_counts"`
	ItemsPerFile   float64        `json:"items_per_file"`
}

// RenderStats writes summary statistics. priorities colors the tag names
// and may be nil.
func RenderStats(w io.Writer, s models.Summary, priorities func(string) models.Priority, asJSON, colored bool) error {
	if asJSON {
		counts := s.TagCounts
		if counts == nil {
			counts = map[string]int{}
		}
		return writeJSON(w, StatsOutput{
			TotalItems:     s.TotalCount,
			FilesWithTodos: s.FilesWithItems,
			FilesScanned:   s.FilesScanned,
			TagCounts:      counts,
			ItemsPerFile:   s.AvgItemsPerFile(),
		})
	}

	pal := newPalette(colored)
	var b strings.Builder

	b.WriteString("TODO Statistics\n\n")
	fmt.Fprintf(&b, "  Total items:        %d\n", s.TotalCount)
	fmt.Fprintf(&b, "  Files with TODOs:   %d\n", s.FilesWithItems)
	fmt.Fprintf(&b, "  Files scanned:      %d\n", s.FilesScanned)
	if s.FilesWithItems > 0 {
		fmt.Fprintf(&b, "  Avg items per file: %.2f\n", s.AvgItemsPerFile())
	}

	b.WriteString("\nBy Tag:\n")

	// Most frequent first; ties alphabetical
	tags := s.SortedTags()
	sort.SliceStable(tags, func(i, j int) bool { return s.TagCounts[tags[i]] > s.TagCounts[tags[j]] })

	for _, tag := range tags {
		count := s.TagCounts[tag]
		pct := s.TagPercentage(count)
		filled := int(pct / 100 * barWidth)
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

		prio := models.PriorityMedium
		if priorities != nil {
			prio = priorities(tag)
		}
		label := pal.tag(fmt.Sprintf("%-8s", tag), prio)
		fmt.Fprintf(&b, "  %s %4d (%5.1f%%) %s\n", label, count, pct, bar)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
