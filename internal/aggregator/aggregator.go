// Package aggregator groups scan results, orders them and computes the
// summary counts.
package aggregator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harrison/todotree/internal/models"
)

// GroupBy selects the top level of the report tree
type GroupBy int

const (
	// ByFile groups items under their source file
	ByFile GroupBy = iota
	// ByTag groups items under their tag
	ByTag
)

// String returns "file" or "tag"
func (g GroupBy) String() string {
	if g == ByTag {
		return "tag"
	}
	return "file"
}

// SortOrder selects the ordering of items within a group
type SortOrder int

const (
	// SortFile orders by path, then line
	SortFile SortOrder = iota
	// SortTag orders by tag, then path and line
	SortTag
	// SortLine orders by line, then path
	SortLine
	// SortPriority orders most urgent first, then by line and path
	SortPriority
)

var sortNames = map[SortOrder]string{
	SortFile:     "file",
	SortTag:      "tag",
	SortLine:     "line",
	SortPriority: "priority",
}

// String returns the flag spelling of the sort order
func (s SortOrder) String() string {
	if name, ok := sortNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SortOrder(%d)", int(s))
}

// ParseSortOrder parses "file", "tag", "line" or "priority" (case-insensitive).
// An empty string selects SortFile.
func ParseSortOrder(s string) (SortOrder, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortFile, nil
	}
	for order, name := range sortNames {
		if name == s {
			return order, nil
		}
	}
	return SortFile, fmt.Errorf("invalid sort order %q (want file, tag, line or priority)", s)
}

// Group is one node of the report tree
type Group struct {
	// Key is a file path for ByFile and a tag name for ByTag
	Key   string
	Items []models.Item
}

// Report is the aggregated view handed to the renderer
type Report struct {
	GroupBy GroupBy
	Order   SortOrder
	// Groups are ordered by path (ByFile) or alphabetically by tag (ByTag)
	Groups []Group
	// Files holds every file with items in path order, items sorted by Order
	Files   []models.FileResult
	Summary models.Summary
}

// Aggregate builds a report from per-file results. filesScanned is the count
// reported by the scanner, including files without items. The input is not
// modified.
func Aggregate(files []models.FileResult, filesScanned int, groupBy GroupBy, order SortOrder) *Report {
	byPath := make([]models.FileResult, 0, len(files))
	for _, f := range files {
		if len(f.Items) == 0 {
			continue
		}
		items := append([]models.Item(nil), f.Items...)
		sortItems(items, order)
		byPath = append(byPath, models.FileResult{Path: f.Path, Items: items})
	}
	sort.SliceStable(byPath, func(i, j int) bool { return byPath[i].Path < byPath[j].Path })

	report := &Report{
		GroupBy: groupBy,
		Order:   order,
		Files:   byPath,
		Summary: Summarize(byPath, filesScanned),
	}

	switch groupBy {
	case ByTag:
		report.Groups = groupByTag(byPath, order)
	default:
		report.Groups = make([]Group, len(byPath))
		for i, f := range byPath {
			report.Groups[i] = Group{Key: f.Path, Items: f.Items}
		}
	}

	return report
}

func groupByTag(files []models.FileResult, order SortOrder) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, f := range files {
		for _, item := range f.Items {
			i, ok := index[item.Tag]
			if !ok {
				i = len(groups)
				index[item.Tag] = i
				groups = append(groups, Group{Key: item.Tag})
			}
			groups[i].Items = append(groups[i].Items, item)
		}
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	for i := range groups {
		sortItems(groups[i].Items, order)
	}
	return groups
}

// sortItems orders items in place. Every order falls through to the full
// (path, line, column) key so the result never depends on input order.
func sortItems(items []models.Item, order SortOrder) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch order {
		case SortTag:
			if a.Tag != b.Tag {
				return a.Tag < b.Tag
			}
		case SortLine:
			if a.Line != b.Line {
				return a.Line < b.Line
			}
		case SortPriority:
			if a.Priority != b.Priority {
				return a.Priority > b.Priority
			}
			if a.Line != b.Line {
				return a.Line < b.Line
			}
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// Summarize counts items in a single pass. It panics if the counts are
// inconsistent, which can only happen through a programming error.
func Summarize(files []models.FileResult, filesScanned int) models.Summary {
	s := models.Summary{
		FilesScanned: filesScanned,
		TagCounts:    make(map[string]int),
	}

	seen := make(map[string]bool, len(files))
	for _, f := range files {
		for _, item := range f.Items {
			s.TotalCount++
			s.TagCounts[item.Tag]++
		}
		if len(f.Items) > 0 && !seen[f.Path] {
			seen[f.Path] = true
			s.FilesWithItems++
		}
	}

	checkSummary(s)
	return s
}

func checkSummary(s models.Summary) {
	sum := 0
	for _, n := range s.TagCounts {
		sum += n
	}
	if sum != s.TotalCount {
		panic(fmt.Sprintf("aggregator: tag counts sum to %d, total is %d", sum, s.TotalCount))
	}
	if s.FilesWithItems > s.FilesScanned {
		panic(fmt.Sprintf("aggregator: %d files with items but only %d scanned", s.FilesWithItems, s.FilesScanned))
	}
}

// Items returns every item in group order
func (r *Report) Items() []models.Item {
	var items []models.Item
	for _, g := range r.Groups {
		items = append(items, g.Items...)
	}
	return items
}

// Empty reports whether the report holds no items
func (r *Report) Empty() bool {
	return r.Summary.TotalCount == 0
}

// FilterTag returns the files restricted to items whose tag equals tag,
// ignoring case. Files left without items are dropped.
func FilterTag(files []models.FileResult, tag string) []models.FileResult {
	var out []models.FileResult
	for _, f := range files {
		var items []models.Item
		for _, item := range f.Items {
			if strings.EqualFold(item.Tag, tag) {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			out = append(out, models.FileResult{Path: f.Path, Items: items})
		}
	}
	return out
}
