// Package fileutil provides the directory walker that decides which files a
// scan visits.
//
// # Purpose
//
// The walker turns a root directory plus user options into a lazy,
// deterministic sequence of absolute file paths. It is the only place in
// todotree that touches directory listings; everything downstream works on
// the paths it yields.
//
// # Key Features
//
//   - Lazy, single-pass traversal exposed as an iter.Seq[string]
//   - Git ignore semantics: .gitignore and .ignore files in every directory,
//     including those above the root up to the enclosing repository root,
//     .git/info/exclude, and the global and system excludes files
//   - Include and exclude globs with ** support (exclude always wins)
//   - Depth limit, hidden-file policy and optional symlink following with
//     cycle detection
//   - Error tolerance: unreadable directories, broken links and cycles are
//     collected as warnings and the walk continues
//
// # Main Components
//
// WalkOptions - Configuration for a walk:
//   - Include / Exclude: doublestar globs relative to the root
//   - MaxDepth: 0 = unlimited, 1 = root directory only
//   - IncludeHidden: also yield dotfiles (the .git directory is always skipped)
//   - FollowSymlinks: follow links to files and directories
//   - NoIgnore: disable all ignore files
//
// Walker - Created with NewWalker; Paths returns the sequence, Errors the
// warnings recorded while iterating.
//
// # Usage Examples
//
//	w, err := fileutil.NewWalker(".", fileutil.WalkOptions{
//	    Exclude:  []string{"target/**"},
//	    MaxDepth: 3,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for path := range w.Paths() {
//	    fmt.Println(path)
//	}
//	for _, err := range w.Errors() {
//	    log.Printf("warning: %v", err)
//	}
//
// # Ordering
//
// Directory entries are read with os.ReadDir, which sorts by name, and
// visited depth-first. The output order is therefore stable for an unchanged
// tree, though callers that compare results should still sort them.
package fileutil
