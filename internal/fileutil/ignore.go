package fileutil

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ignoreFiles are read from every directory visited, in this order
var ignoreFiles = []string{".gitignore", ".ignore"}

// ignoreStack holds the ignore patterns in effect for one directory.
// Patterns later in the slice take priority, so deeper directories override
// their parents the way git does.
type ignoreStack struct {
	patterns []gitignore.Pattern
	matcher  gitignore.Matcher
}

func newIgnoreStack(patterns []gitignore.Pattern) *ignoreStack {
	return &ignoreStack{patterns: patterns, matcher: gitignore.NewMatcher(patterns)}
}

// push returns a stack extended with the patterns of dir. The receiver is not
// modified. domain is the path of dir relative to the repository root.
func (s *ignoreStack) push(dir string, domain []string) (*ignoreStack, []error) {
	var added []gitignore.Pattern
	var errs []error
	for _, name := range ignoreFiles {
		ps, err := readIgnoreFile(filepath.Join(dir, name), domain)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		added = append(added, ps...)
	}
	if len(added) == 0 {
		return s, errs
	}

	combined := make([]gitignore.Pattern, 0, len(s.patterns)+len(added))
	combined = append(combined, s.patterns...)
	combined = append(combined, added...)
	return newIgnoreStack(combined), errs
}

// ignored reports whether the repository-relative path parts are ignored
func (s *ignoreStack) ignored(parts []string, isDir bool) bool {
	if len(s.patterns) == 0 {
		return false
	}
	return s.matcher.Match(parts, isDir)
}

// readIgnoreFile parses a gitignore-format file. A missing file yields no
// patterns and no error.
func readIgnoreFile(path string, domain []string) ([]gitignore.Pattern, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read ignore file %s: %w", path, err)
	}
	defer f.Close()

	var ps []gitignore.Pattern
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, domain))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ignore file %s: %w", path, err)
	}
	return ps, nil
}

// repoRoot returns the nearest directory at or above dir holding a .git
// entry, or "" when dir is not inside a repository
func repoRoot(dir string) string {
	for {
		if _, err := os.Lstat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// globalExcludesFile is git's default core.excludesFile
func globalExcludesFile() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "git", "ignore")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "git", "ignore")
}

// baseIgnore holds the patterns in effect before the walk root is entered,
// matched against paths relative to the repository root. prefix is the walk
// root relative to that repository root (empty outside a repository).
type baseIgnore struct {
	patterns []gitignore.Pattern
	prefix   []string
}

// baseIgnorePatterns loads, lowest priority first: the system and global git
// excludes files, the repository's .git/info/exclude, and the ignore files of
// every directory from the repository root down to, but not including, root.
func baseIgnorePatterns(root string) (baseIgnore, []error) {
	var base baseIgnore
	var errs []error

	rootFS := osfs.New("/")
	if system, err := gitignore.LoadSystemPatterns(rootFS); err == nil {
		base.patterns = append(base.patterns, system...)
	} else {
		errs = append(errs, fmt.Errorf("failed to load system gitignore: %w", err))
	}
	global, err := gitignore.LoadGlobalPatterns(rootFS)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to load global gitignore: %w", err))
	} else if len(global) == 0 {
		if path := globalExcludesFile(); path != "" {
			global, err = readIgnoreFile(path, nil)
			if err != nil {
				errs = append(errs, err)
			}
		}
	}
	base.patterns = append(base.patterns, global...)

	repo := repoRoot(root)
	if repo == "" {
		return base, errs
	}

	gitDir := filepath.Join(repo, ".git")
	if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
		exclude, err := readIgnoreFile(filepath.Join(gitDir, "info", "exclude"), nil)
		if err != nil {
			errs = append(errs, err)
		}
		base.patterns = append(base.patterns, exclude...)
	}

	rel, err := filepath.Rel(repo, root)
	if err != nil || rel == "." {
		return base, errs
	}
	base.prefix = strings.Split(filepath.ToSlash(rel), "/")

	for depth := range base.prefix {
		domain := slices.Clone(base.prefix[:depth])
		dir := filepath.Join(append([]string{repo}, domain...)...)
		for _, name := range ignoreFiles {
			ps, err := readIgnoreFile(filepath.Join(dir, name), domain)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			base.patterns = append(base.patterns, ps...)
		}
	}

	return base, errs
}
