package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrSymlinkCycle is recorded when a followed symlink points back at the walk
// root or one of the directories currently being walked
var ErrSymlinkCycle = errors.New("symlink cycle detected")

// WalkOptions configures which files a Walker yields
type WalkOptions struct {
	// Include limits files to those matching at least one glob (empty = all)
	Include []string
	// Exclude drops files and directories matching any glob. Always wins over Include.
	Exclude []string
	// MaxDepth limits descent (0 = unlimited, 1 = root directory only)
	MaxDepth int
	// IncludeHidden yields dotfiles and enters dot directories (.git is always skipped)
	IncludeHidden bool
	// FollowSymlinks follows symbolic links to files and directories
	FollowSymlinks bool
	// NoIgnore disables .gitignore, .ignore and git exclude files
	NoIgnore bool
}

// Walker lazily traverses a directory tree
type Walker struct {
	root     string
	realRoot string
	opts     WalkOptions
	filter   *Filter
	base     *ignoreStack
	prefix   []string // root relative to its repository root, for ignore matching

	errs     []error
	consumed bool
}

// NewWalker prepares a walk of root. Invalid roots and malformed glob
// patterns are fatal; everything discovered during the walk is recorded as
// a warning instead (see Errors).
func NewWalker(root string, opts WalkOptions) (*Walker, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	filter, err := NewFilter(opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}

	realRoot, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", root, err)
	}

	w := &Walker{
		root:     abs,
		realRoot: realRoot,
		opts:     opts,
		filter:   filter,
		base:     newIgnoreStack(nil),
	}

	if !opts.NoIgnore {
		base, errs := baseIgnorePatterns(abs)
		w.base = newIgnoreStack(base.patterns)
		w.prefix = base.prefix
		w.errs = append(w.errs, errs...)
	}

	return w, nil
}

// Root returns the absolute walk root
func (w *Walker) Root() string {
	return w.root
}

// Errors returns the non-fatal errors recorded so far
func (w *Walker) Errors() []error {
	return slices.Clone(w.errs)
}

// Paths returns the sequence of absolute file paths under the root. The
// sequence is single-pass: iterating it a second time yields nothing. Entries
// are visited depth-first in lexical order, so the result is deterministic
// for an unchanged tree. Stopping early is safe.
func (w *Walker) Paths() iter.Seq[string] {
	return func(yield func(string) bool) {
		if w.consumed {
			return
		}
		w.consumed = true
		w.walkDir(w.root, nil, 1, w.base, []string{w.realRoot}, yield)
	}
}

// repoPath prefixes root-relative parts with the root's position in its
// repository, the form ignore patterns are matched in
func (w *Walker) repoPath(parts []string) []string {
	if len(w.prefix) == 0 {
		return parts
	}
	return append(slices.Clip(w.prefix), parts...)
}

// walkDir visits the entries of dir, whose children are at the given depth.
// rel holds the path components of dir relative to the root and ancestors
// the resolved paths of every directory on the current branch. It returns
// false once the consumer has stopped.
func (w *Walker) walkDir(dir string, rel []string, depth int, ignores *ignoreStack, ancestors []string, yield func(string) bool) bool {
	if !w.opts.NoIgnore {
		var errs []error
		ignores, errs = ignores.push(dir, w.repoPath(rel))
		w.errs = append(w.errs, errs...)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.errs = append(w.errs, fmt.Errorf("error accessing %s: %w", dir, err))
		return true
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == ".git" {
			continue
		}
		if strings.HasPrefix(name, ".") && !w.opts.IncludeHidden {
			continue
		}

		full := filepath.Join(dir, name)
		parts := append(slices.Clip(rel), name)
		relPath := strings.Join(parts, "/")

		isDir := entry.IsDir()
		realDir := ""
		if entry.Type()&fs.ModeSymlink != 0 {
			if !w.opts.FollowSymlinks {
				continue
			}
			target, info, ok := w.resolveLink(full)
			if !ok {
				continue
			}
			if info.IsDir() {
				if slices.Contains(ancestors, target) {
					w.errs = append(w.errs, fmt.Errorf("skipping %s: %w", full, ErrSymlinkCycle))
					continue
				}
				isDir = true
				realDir = target
			} else if !info.Mode().IsRegular() {
				continue
			}
		} else if !isDir && !entry.Type().IsRegular() {
			continue
		}

		if !w.opts.NoIgnore && ignores.ignored(w.repoPath(parts), isDir) {
			continue
		}

		if isDir {
			if w.filter.Excluded(relPath) {
				continue
			}
			if w.opts.MaxDepth > 0 && depth >= w.opts.MaxDepth {
				continue
			}
			if realDir == "" {
				realDir = filepath.Join(ancestors[len(ancestors)-1], name)
			}
			if !w.walkDir(full, parts, depth+1, ignores, append(slices.Clip(ancestors), realDir), yield) {
				return false
			}
			continue
		}

		if !w.filter.Allows(relPath) {
			continue
		}
		if !yield(full) {
			return false
		}
	}

	return true
}

// resolveLink follows a symlink and stats its target. Broken links are
// recorded as warnings.
func (w *Walker) resolveLink(path string) (string, fs.FileInfo, bool) {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		w.errs = append(w.errs, fmt.Errorf("failed to resolve symlink %s: %w", path, err))
		return "", nil, false
	}
	info, err := os.Stat(target)
	if err != nil {
		w.errs = append(w.errs, fmt.Errorf("failed to resolve symlink %s: %w", path, err))
		return "", nil, false
	}
	return target, info, true
}
