package fileutil

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter applies user include and exclude globs to walk-relative paths.
//
// Patterns use doublestar syntax. A pattern without a "/" is matched against
// the base name only, so "*.rs" selects Rust files at any depth. A pattern
// with a "/" is matched against the full slash-separated path relative to the
// walk root, as in "target/**" or "src/*/gen.go".
type Filter struct {
	include []string
	exclude []string
}

// NewFilter validates and normalizes the patterns
func NewFilter(include, exclude []string) (*Filter, error) {
	inc, err := normalizePatterns(include, "include")
	if err != nil {
		return nil, err
	}
	exc, err := normalizePatterns(exclude, "exclude")
	if err != nil {
		return nil, err
	}
	return &Filter{include: inc, exclude: exc}, nil
}

func normalizePatterns(patterns []string, label string) ([]string, error) {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = strings.TrimPrefix(p, "./")
		p = strings.TrimSuffix(p, "/")
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid %s pattern %q", label, p)
		}
		out = append(out, p)
	}
	return out, nil
}

// Excluded reports whether rel matches any exclude pattern. Excludes apply to
// directories as well as files, so an excluded directory is never entered.
func (f *Filter) Excluded(rel string) bool {
	return matchAny(f.exclude, rel)
}

// Included reports whether a file passes the include patterns. With no
// include patterns every file is included.
func (f *Filter) Included(rel string) bool {
	if len(f.include) == 0 {
		return true
	}
	return matchAny(f.include, rel)
}

// Allows reports whether a file at rel should be yielded. Exclusion wins
// over inclusion.
func (f *Filter) Allows(rel string) bool {
	return f.Included(rel) && !f.Excluded(rel)
}

func matchAny(patterns []string, rel string) bool {
	base := path.Base(rel)
	for _, p := range patterns {
		target := rel
		if !strings.Contains(p, "/") {
			target = base
		}
		if matched, err := doublestar.Match(p, target); err == nil && matched {
			return true
		}
	}
	return false
}
