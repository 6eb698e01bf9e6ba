package models

import "sort"

// Item is one tagged comment found during a scan
type Item struct {
	Tag      string   // Canonical tag name (e.g., "TODO")
	Author   string   // Text inside TODO(author), empty when absent
	Message  string   // Trimmed text after the tag
	Path     string   // Absolute path of the file containing the item
	Line     int      // 1-based line number
	Column   int      // 1-based column of the tag's first character
	Priority Priority // Priority of Tag in the active registry
}

// FormatAuthor returns "(author)" or an empty string
func (i Item) FormatAuthor() string {
	if i.Author == "" {
		return ""
	}
	return "(" + i.Author + ")"
}

// FileResult holds the items found in a single file, in ascending line order
type FileResult struct {
	Path  string
	Items []Item
}

// Summary holds aggregate counts for a scan
type Summary struct {
	TotalCount     int            // Number of items found
	FilesWithItems int            // Distinct files containing at least one item
	FilesScanned   int            // Files read, including those with no items
	TagCounts      map[string]int // Items per tag
}

// AvgItemsPerFile returns the mean number of items per file that has any
func (s Summary) AvgItemsPerFile() float64 {
	if s.FilesWithItems == 0 {
		return 0
	}
	return float64(s.TotalCount) / float64(s.FilesWithItems)
}

// TagPercentage returns count as a percentage of TotalCount
func (s Summary) TagPercentage(count int) float64 {
	if s.TotalCount == 0 {
		return 0
	}
	return float64(count) / float64(s.TotalCount) * 100
}

// SortedTags returns the tags in TagCounts in alphabetical order
func (s Summary) SortedTags() []string {
	tags := make([]string, 0, len(s.TagCounts))
	for tag := range s.TagCounts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
