package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files under root. Parent directories are created as needed.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// walkRel runs a walk and returns the yielded paths relative to root, sorted
func walkRel(t *testing.T, root string, opts WalkOptions) ([]string, []error) {
	t.Helper()
	w, err := NewWalker(root, opts)
	require.NoError(t, err)

	var rel []string
	for p := range w.Paths() {
		require.True(t, filepath.IsAbs(p), "expected absolute path, got %s", p)
		r, err := filepath.Rel(w.Root(), p)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	sort.Strings(rel)
	return rel, w.Errors()
}

func TestWalkAllFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.go":             "",
		"sub/b.py":         "",
		"sub/deep/c.rs":    "",
		"sub/deep/d.unknw": "",
	})

	got, _ := walkRel(t, root, WalkOptions{NoIgnore: true})
	assert.Equal(t, []string{"a.go", "sub/b.py", "sub/deep/c.rs", "sub/deep/d.unknw"}, got)
}

func TestWalkGitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":       "vendor/\n*.gen.go\n# comment\n\n",
		"a.go":             "",
		"a.gen.go":         "",
		"vendor/dep.go":    "",
		"pkg/vendor/x.go":  "",
		"pkg/keep.go":      "",
		"pkg/model.gen.go": "",
	})

	got, _ := walkRel(t, root, WalkOptions{})
	assert.Equal(t, []string{"a.go", "pkg/keep.go"}, got)

	got, _ = walkRel(t, root, WalkOptions{NoIgnore: true})
	assert.Equal(t, []string{"a.gen.go", "a.go", "pkg/keep.go", "pkg/model.gen.go", "pkg/vendor/x.go", "vendor/dep.go"}, got)
}

func TestWalkNestedGitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":     "*.log\n",
		"sub/.gitignore": "secret.txt\n!keep.log\n",
		"secret.txt":     "",
		"other.log":      "",
		"sub/secret.txt": "",
		"sub/keep.log":   "",
		"sub/drop.log":   "",
	})

	got, _ := walkRel(t, root, WalkOptions{})
	assert.Equal(t, []string{"secret.txt", "sub/keep.log"}, got)
}

func TestWalkIgnoreFileAndGitInfoExclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".ignore":           "scratch/\n",
		".git/info/exclude": "local.go\n",
		".git/HEAD":         "ref: refs/heads/main\n",
		"main.go":           "",
		"local.go":          "",
		"scratch/tmp.go":    "",
	})

	got, _ := walkRel(t, root, WalkOptions{})
	assert.Equal(t, []string{"main.go"}, got)
}

// isolateGitConfig keeps the developer's global git excludes out of a test
func isolateGitConfig(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	return home
}

func TestWalkSubdirectoryOfRepo(t *testing.T) {
	isolateGitConfig(t)
	repo := t.TempDir()
	writeTree(t, repo, map[string]string{
		".git/HEAD":           "ref: refs/heads/main\n",
		".git/info/exclude":   "secret.go\n",
		".gitignore":          "*.gen.go\n/sub/pinned.go\n",
		"sub/.gitignore":      "scratch/\n",
		"sub/a.go":            "",
		"sub/a.gen.go":        "",
		"sub/secret.go":       "",
		"sub/pinned.go":       "",
		"sub/scratch/x.go":    "",
		"sub/inner/pinned.go": "",
	})

	tests := []struct {
		root string
		want []string
	}{
		{root: ".", want: []string{"sub/a.go", "sub/inner/pinned.go"}},
		{root: "sub", want: []string{"a.go", "inner/pinned.go"}},
		{root: "sub/inner", want: []string{"pinned.go"}},
	}

	for _, tt := range tests {
		t.Run(tt.root, func(t *testing.T) {
			got, errs := walkRel(t, filepath.Join(repo, filepath.FromSlash(tt.root)), WalkOptions{})
			assert.Equal(t, tt.want, got)
			assert.Empty(t, errs)
		})
	}

	got, _ := walkRel(t, filepath.Join(repo, "sub"), WalkOptions{NoIgnore: true})
	assert.Equal(t, []string{"a.gen.go", "a.go", "inner/pinned.go", "pinned.go", "scratch/x.go", "secret.go"}, got)
}

func TestWalkGlobalExcludesFile(t *testing.T) {
	home := isolateGitConfig(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.go": "", "c.xdg.go": ""})

	writeTree(t, home, map[string]string{".config/git/ignore": "*.xdg.go\n"})
	got, _ := walkRel(t, root, WalkOptions{})
	assert.Equal(t, []string{"a.go"}, got, "~/.config/git/ignore applies without core.excludesFile")

	xdg := t.TempDir()
	writeTree(t, xdg, map[string]string{"git/ignore": "a.go\n"})
	t.Setenv("XDG_CONFIG_HOME", xdg)
	got, _ = walkRel(t, root, WalkOptions{})
	assert.Equal(t, []string{"c.xdg.go"}, got, "$XDG_CONFIG_HOME/git/ignore replaces the home default")

	got, _ = walkRel(t, root, WalkOptions{NoIgnore: true})
	assert.Equal(t, []string{"a.go", "c.xdg.go"}, got)
}

func TestWalkHiddenFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":          "",
		".env":             "",
		".config/app.toml": "",
		".git/config":      "",
	})

	got, _ := walkRel(t, root, WalkOptions{})
	assert.Equal(t, []string{"main.go"}, got)

	got, _ = walkRel(t, root, WalkOptions{IncludeHidden: true})
	assert.Equal(t, []string{".config/app.toml", ".env", "main.go"}, got, ".git must never be entered")
}

func TestWalkMaxDepth(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.go":       "",
		"d1/b.go":    "",
		"d1/d2/c.go": "",
	})

	tests := []struct {
		depth int
		want  []string
	}{
		{depth: 0, want: []string{"a.go", "d1/b.go", "d1/d2/c.go"}},
		{depth: 1, want: []string{"a.go"}},
		{depth: 2, want: []string{"a.go", "d1/b.go"}},
		{depth: 3, want: []string{"a.go", "d1/b.go", "d1/d2/c.go"}},
	}

	for _, tt := range tests {
		got, _ := walkRel(t, root, WalkOptions{MaxDepth: tt.depth})
		assert.Equal(t, tt.want, got, "max depth %d", tt.depth)
	}
}

func TestWalkIncludeExclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":          "",
		"main_test.go":     "",
		"lib.rs":           "",
		"target/gen.rs":    "// FIXME: x\n",
		"target/sub/x.go":  "",
		"pkg/util.go":      "",
		"src/a/b/deep.go":  "",
		"src/top.go":       "",
		"docs/readme.md":   "",
		"docs/api/spec.md": "",
	})

	tests := []struct {
		name string
		opts WalkOptions
		want []string
	}{
		{
			name: "exclude directory glob",
			opts: WalkOptions{Exclude: []string{"target/**"}},
			want: []string{"docs/api/spec.md", "docs/readme.md", "lib.rs", "main.go", "main_test.go", "pkg/util.go", "src/a/b/deep.go", "src/top.go"},
		},
		{
			name: "include base name glob",
			opts: WalkOptions{Include: []string{"*.rs"}},
			want: []string{"lib.rs", "target/gen.rs"},
		},
		{
			name: "exclude wins over include",
			opts: WalkOptions{Include: []string{"*.go"}, Exclude: []string{"*_test.go", "target"}},
			want: []string{"main.go", "pkg/util.go", "src/a/b/deep.go", "src/top.go"},
		},
		{
			name: "include path glob",
			opts: WalkOptions{Include: []string{"src/**/*.go"}},
			want: []string{"src/a/b/deep.go", "src/top.go"},
		},
		{
			name: "multiple includes are OR-combined",
			opts: WalkOptions{Include: []string{"*.md", "lib.rs"}},
			want: []string{"docs/api/spec.md", "docs/readme.md", "lib.rs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.NoIgnore = true
			got, _ := walkRel(t, root, tt.opts)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewWalkerErrors(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"file.go": ""})

	_, err := NewWalker(filepath.Join(root, "missing"), WalkOptions{})
	assert.Error(t, err)

	_, err = NewWalker(filepath.Join(root, "file.go"), WalkOptions{})
	assert.ErrorContains(t, err, "not a directory")

	_, err = NewWalker(root, WalkOptions{Include: []string{"[unclosed"}})
	assert.ErrorContains(t, err, "invalid include pattern")
}

func TestWalkSinglePass(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.go": "", "b.go": "", "c.go": ""})

	w, err := NewWalker(root, WalkOptions{})
	require.NoError(t, err)

	var first []string
	for p := range w.Paths() {
		first = append(first, p)
		break
	}
	assert.Len(t, first, 1, "iteration should stop early")
	assert.Empty(t, slices.Collect(w.Paths()), "a consumed walker yields nothing")
}

func TestWalkSymlinks(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.go":     "",
		"lib/b.go": "",
	})
	if err := os.Symlink(filepath.Join(root, "lib"), filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "a.go"), filepath.Join(root, "alias.go")))

	got, _ := walkRel(t, root, WalkOptions{NoIgnore: true})
	assert.Equal(t, []string{"a.go", "lib/b.go"}, got)

	got, errs := walkRel(t, root, WalkOptions{NoIgnore: true, FollowSymlinks: true})
	assert.Equal(t, []string{"a.go", "alias.go", "lib/b.go", "link/b.go"}, got)
	assert.Empty(t, errs)
}

func TestWalkSymlinkCycle(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.go":     "",
		"sub/b.go": "",
	})
	if err := os.Symlink(root, filepath.Join(root, "sub", "loop")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "sub"), filepath.Join(root, "sub", "self")))

	got, errs := walkRel(t, root, WalkOptions{NoIgnore: true, FollowSymlinks: true})
	assert.Equal(t, []string{"a.go", "sub/b.go"}, got)

	require.Len(t, errs, 2)
	for _, err := range errs {
		assert.True(t, errors.Is(err, ErrSymlinkCycle), "unexpected error: %v", err)
	}
}

func TestWalkBrokenSymlink(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.go": ""})
	if err := os.Symlink(filepath.Join(root, "gone.go"), filepath.Join(root, "dangling.go")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	got, errs := walkRel(t, root, WalkOptions{NoIgnore: true, FollowSymlinks: true})
	assert.Equal(t, []string{"a.go"}, got)
	assert.Len(t, errs, 1)
}

func TestWalkUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.go":        "",
		"locked/b.go": "",
		"z/c.go":      "",
	})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	got, errs := walkRel(t, root, WalkOptions{NoIgnore: true})
	assert.Equal(t, []string{"a.go", "z/c.go"}, got, "walk continues past unreadable directories")
	assert.NotEmpty(t, errs)
}
