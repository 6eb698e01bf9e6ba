package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ProjectFiles are the per-directory config names, in lookup order
var ProjectFiles = []string{".todorc", ".todorc.json", ".todorc.yaml", ".todorc.yml", ".todorc.toml"}

// GlobalFiles are the config names looked up in GlobalDir, in lookup order
var GlobalFiles = []string{"config.json", "config.yaml", "config.yml", "config.toml"}

// GlobalDir returns the directory holding the user's global config.
// Priority order:
//  1. TODO_TREE_HOME environment variable (if set)
//  2. <os.UserConfigDir>/todo-tree
func GlobalDir() (string, error) {
	if home := os.Getenv("TODO_TREE_HOME"); home != "" {
		return home, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return filepath.Join(dir, "todo-tree"), nil
}

// Discover finds the config file that applies to a scan of root: the first
// ProjectFiles entry present in root or any of its parents, nearest first,
// then the first GlobalFiles entry in GlobalDir. It returns "" when there
// is none.
func Discover(root string) (string, error) {
	current, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", root, err)
	}

	for {
		if path, err := firstExisting(current, ProjectFiles); path != "" || err != nil {
			return path, err
		}

		parent := filepath.Dir(current)
		if parent == current {
			// Reached filesystem root
			break
		}
		current = parent
	}

	global, err := GlobalDir()
	if err != nil {
		// No global location on this platform; not an error for discovery
		return "", nil
	}
	return firstExisting(global, GlobalFiles)
}

// ProjectFile returns the first ProjectFiles entry present in dir, or "".
func ProjectFile(dir string) (string, error) {
	return firstExisting(dir, ProjectFiles)
}

func firstExisting(dir string, names []string) (string, error) {
	for _, name := range names {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		switch {
		case err == nil && !info.IsDir():
			return path, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, fs.ErrPermission):
			return "", fmt.Errorf("failed to check config file %s: %w", path, err)
		}
	}
	return "", nil
}

// Load returns the effective file configuration for a scan of root along
// with the file it came from. explicit (from --config) wins over discovery
// and must exist. With no file at all the defaults are returned and path
// is empty.
func Load(root, explicit string) (cfg *Config, path string, err error) {
	if explicit != "" {
		cfg, err := LoadConfig(explicit)
		if err != nil {
			return nil, explicit, err
		}
		return cfg, explicit, nil
	}

	path, err = Discover(root)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return DefaultConfig(), "", nil
	}

	cfg, err = LoadConfig(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
