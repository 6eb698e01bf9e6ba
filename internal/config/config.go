package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/harrison/todotree/internal/models"
	"github.com/harrison/todotree/internal/tags"
)

// ErrConfigExists is returned by Init when the target file is already present
var ErrConfigExists = errors.New("config file already exists")

// Format is a config file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat converts a --format value into a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unknown config format %q (want json, yaml or toml)", s)
	}
}

// FileName returns the project config file name for the format
func (f Format) FileName() string {
	switch f {
	case FormatYAML:
		return ".todorc.yaml"
	case FormatTOML:
		return ".todorc.toml"
	default:
		return ".todorc.json"
	}
}

// FileNameFor joins dir with the project file name for the format
func FileNameFor(dir string, f Format) string {
	return filepath.Join(dir, f.FileName())
}

// FormatOf picks the encoding from a file extension. Files without a known
// extension (such as .todorc) report ok=false and are read as JSON with a YAML
// fallback, and written as JSON.
func FormatOf(path string) (format Format, ok bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	default:
		return FormatJSON, false
	}
}

// Config represents the contents of a .todorc file
type Config struct {
	// Tags to search for; empty selects the defaults
	Tags []string `json:"tags" yaml:"tags" toml:"tags"`

	// Include restricts scanning to files matching these globs
	Include []string `json:"include" yaml:"include" toml:"include"`

	// Exclude skips files and directories matching these globs
	Exclude []string `json:"exclude" yaml:"exclude" toml:"exclude"`

	// JSON defaults output to JSON
	JSON bool `json:"json" yaml:"json" toml:"json"`

	// Flat defaults output to one line per item
	Flat bool `json:"flat" yaml:"flat" toml:"flat"`

	// NoColor disables colored output
	NoColor bool `json:"no_color" yaml:"no_color" toml:"no_color"`

	// CaseSensitive requires tags to match exactly
	CaseSensitive bool `json:"case_sensitive" yaml:"case_sensitive" toml:"case_sensitive"`

	// Priorities reclassifies tags (tag -> critical|high|medium|low)
	Priorities map[string]models.Priority `json:"priorities,omitempty" yaml:"priorities,omitempty" toml:"priorities,omitempty"`

	// MaxDepth limits directory depth (0 = unlimited)
	MaxDepth int `json:"max_depth,omitempty" yaml:"max_depth,omitempty" toml:"max_depth,omitempty"`

	// Hidden includes dotfiles and dot-directories
	Hidden bool `json:"hidden,omitempty" yaml:"hidden,omitempty" toml:"hidden,omitempty"`

	// FollowLinks follows symbolic links
	FollowLinks bool `json:"follow_links,omitempty" yaml:"follow_links,omitempty" toml:"follow_links,omitempty"`

	// NoIgnore disables .gitignore and .ignore handling
	NoIgnore bool `json:"no_ignore,omitempty" yaml:"no_ignore,omitempty" toml:"no_ignore,omitempty"`

	// Sort is the item order within groups (file, tag, line, priority)
	Sort string `json:"sort,omitempty" yaml:"sort,omitempty" toml:"sort,omitempty"`

	// GroupByTag groups tree output by tag instead of file
	GroupByTag bool `json:"group_by_tag,omitempty" yaml:"group_by_tag,omitempty" toml:"group_by_tag,omitempty"`

	// Threads sets the scanner worker count (0 or 1 = sequential)
	Threads int `json:"threads,omitempty" yaml:"threads,omitempty" toml:"threads,omitempty"`
}

// DefaultConfig returns the configuration written by init
func DefaultConfig() *Config {
	return &Config{
		Tags:    tags.DefaultNames(),
		Include: []string{},
		Exclude: []string{},
	}
}

// LoadConfig loads configuration from the specified file path.
// Unlike discovery, a missing file is an error: the path was asked for.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Decode(data, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses config data using the encoding implied by path
func Decode(data []byte, path string) (*Config, error) {
	cfg := &Config{}
	format, known := FormatOf(path)

	if !known {
		if err := json.Unmarshal(data, cfg); err == nil {
			return cfg, nil
		}
		cfg = &Config{}
		format = FormatYAML
	}

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Encode serializes the config in the given format. Missing lists are
// written as empty lists.
func (c *Config) Encode(format Format) ([]byte, error) {
	c = c.Clone()
	for _, list := range []*[]string{&c.Tags, &c.Include, &c.Exclude} {
		if *list == nil {
			*list = []string{}
		}
	}

	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatTOML:
		return toml.Marshal(c)
	default:
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	for _, name := range c.Tags {
		if err := tags.ValidateName(strings.TrimSpace(name)); err != nil {
			return fmt.Errorf("tags: %w", err)
		}
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be >= 0, got %d", c.MaxDepth)
	}
	if c.Threads < 0 {
		return fmt.Errorf("threads must be >= 0, got %d", c.Threads)
	}
	return nil
}

// Clone returns a deep copy
func (c *Config) Clone() *Config {
	out := *c
	out.Tags = slices.Clone(c.Tags)
	out.Include = slices.Clone(c.Include)
	out.Exclude = slices.Clone(c.Exclude)
	out.Priorities = maps.Clone(c.Priorities)
	return &out
}

// Overrides carries command-line values. Nil slices and pointers leave the
// config untouched.
type Overrides struct {
	Tags       []string
	AddTags    []string
	RemoveTags []string
	Include    []string
	Exclude    []string

	JSON          bool
	Flat          bool
	NoColor       bool
	CaseSensitive bool
	Hidden        bool
	FollowLinks   bool
	NoIgnore      bool
	GroupByTag    bool

	MaxDepth *int
	Threads  *int
	Sort     string
}

// MergeWithFlags merges CLI flags into the configuration.
// --tags and --include replace the configured lists, --exclude extends its
// list, and boolean flags can only switch a feature on.
func (c *Config) MergeWithFlags(o Overrides) {
	if len(o.Tags) > 0 {
		c.Tags = o.Tags
	}
	if len(o.AddTags) > 0 || len(o.RemoveTags) > 0 {
		base := c.Tags
		if len(base) == 0 {
			base = tags.DefaultNames()
		}
		caseSensitive := c.CaseSensitive || o.CaseSensitive
		c.Tags = tags.ApplyDelta(base, o.AddTags, o.RemoveTags, caseSensitive)
	}
	if len(o.Include) > 0 {
		c.Include = o.Include
	}
	if len(o.Exclude) > 0 {
		c.Exclude = append(c.Exclude, o.Exclude...)
	}

	c.JSON = c.JSON || o.JSON
	c.Flat = c.Flat || o.Flat
	c.NoColor = c.NoColor || o.NoColor
	c.CaseSensitive = c.CaseSensitive || o.CaseSensitive
	c.Hidden = c.Hidden || o.Hidden
	c.FollowLinks = c.FollowLinks || o.FollowLinks
	c.NoIgnore = c.NoIgnore || o.NoIgnore
	c.GroupByTag = c.GroupByTag || o.GroupByTag

	if o.MaxDepth != nil {
		c.MaxDepth = *o.MaxDepth
	}
	if o.Threads != nil {
		c.Threads = *o.Threads
	}
	if o.Sort != "" {
		c.Sort = o.Sort
	}
}

// Init writes the default configuration into dir and returns the new file's
// path. An existing file is only replaced when force is set.
func Init(dir string, format Format, force bool) (string, error) {
	path := FileNameFor(dir, format)
	if _, err := os.Stat(path); err == nil && !force {
		return path, fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return path, fmt.Errorf("failed to check %s: %w", path, err)
	}

	if err := Save(path, DefaultConfig()); err != nil {
		return path, err
	}
	return path, nil
}
