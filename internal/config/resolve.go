package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/harrison/todotree/internal/aggregator"
	"github.com/harrison/todotree/internal/display"
	"github.com/harrison/todotree/internal/fileutil"
	"github.com/harrison/todotree/internal/tags"
)

// ScanConfig is the fully resolved input of one scan. The core packages
// receive everything through it and never read config files or the
// environment themselves.
type ScanConfig struct {
	Root     string
	Registry *tags.Registry
	Walk     fileutil.WalkOptions
	GroupBy  aggregator.GroupBy
	Sort     aggregator.SortOrder
	Mode     display.Mode

	// Color and Hyperlinks are decided for the writer passed to Resolve
	Color      bool
	Hyperlinks bool

	Threads int

	// ConfigFile is the file the settings came from ("" for defaults)
	ConfigFile string

	// InactivePriorities lists priority overrides naming tags that are not active
	InactivePriorities []string
}

// ResolveRoot turns a user-supplied scan path into an absolute directory.
// An empty path means the working directory.
func ResolveRoot(path string) (string, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", abs)
	}
	return abs, nil
}

// Resolve builds the ScanConfig for a scan of root whose report goes to out.
func (c *Config) Resolve(root, configFile string, out io.Writer) (*ScanConfig, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	registry, err := tags.NewRegistry(c.Tags, c.Priorities, c.CaseSensitive)
	if err != nil {
		return nil, err
	}

	order, err := aggregator.ParseSortOrder(c.Sort)
	if err != nil {
		return nil, err
	}

	// Validated here so a bad glob is fatal before the walk starts
	if _, err := fileutil.NewFilter(c.Include, c.Exclude); err != nil {
		return nil, err
	}

	sc := &ScanConfig{
		Root:     root,
		Registry: registry,
		Walk: fileutil.WalkOptions{
			Include:        slices.Clone(c.Include),
			Exclude:        slices.Clone(c.Exclude),
			MaxDepth:       c.MaxDepth,
			IncludeHidden:  c.Hidden,
			FollowSymlinks: c.FollowLinks,
			NoIgnore:       c.NoIgnore,
		},
		GroupBy:    aggregator.ByFile,
		Sort:       order,
		Mode:       display.ModeTree,
		Threads:    c.Threads,
		ConfigFile: configFile,
	}

	if c.GroupByTag {
		sc.GroupBy = aggregator.ByTag
	}

	switch {
	case c.JSON:
		sc.Mode = display.ModeJSON
	case c.Flat:
		sc.Mode = display.ModeFlat
	}

	if sc.Mode != display.ModeJSON {
		sc.Color = display.ColorEnabled(out, c.NoColor)
		sc.Hyperlinks = sc.Color && display.SupportsHyperlinks(out)
	}

	for name := range c.Priorities {
		if !containsFold(registry.Names(), name) {
			sc.InactivePriorities = append(sc.InactivePriorities, name)
		}
	}
	slices.Sort(sc.InactivePriorities)

	return sc, nil
}

// containsFold reports whether names holds name ignoring case. Priority keys
// are case-insensitive even when tag matching is not.
func containsFold(names []string, name string) bool {
	return slices.ContainsFunc(names, func(n string) bool {
		return strings.EqualFold(n, name)
	})
}
