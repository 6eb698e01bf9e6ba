package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/harrison/todotree/internal/config"
	"github.com/harrison/todotree/internal/display"
	"github.com/harrison/todotree/internal/tags"
)

// errUnchanged aborts a config edit that would not change anything
var errUnchanged = errors.New("config unchanged")

// NewTagsCommand creates the tags command
func NewTagsCommand(v *viper.Viper) *cobra.Command {
	var (
		add    string
		remove string
		reset  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Show or edit the active tags",
		Long: `Show the active tags with their priorities, or edit the tag list.

Edits are saved to the config file given with --config, else to the
.todorc file in the current directory (created as .todorc.json if none
exists).

Examples:
  todotree tags
  todotree tags --add SAFETY
  todotree tags --remove idea
  todotree tags --reset`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			explicit := v.GetString("config")
			cfg, _, err := config.Load(dir, explicit)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			switch {
			case add != "":
				return addTag(cmd, dir, explicit, cfg, add)
			case remove != "":
				return removeTag(cmd, dir, explicit, cfg, remove)
			case reset:
				return resetTags(cmd, dir, explicit, cfg)
			}

			registry, err := tags.NewRegistry(cfg.Tags, cfg.Priorities, cfg.CaseSensitive)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			out := cmd.OutOrStdout()
			colored := !asJSON && display.ColorEnabled(out, cfg.NoColor || v.GetBool("no-color"))
			return display.RenderTags(out, registry.Definitions(), asJSON, colored)
		},
	}

	cmd.Flags().StringVar(&add, "add", "", "Add a tag (stored upper-case)")
	cmd.Flags().StringVar(&remove, "remove", "", "Remove a tag (case-insensitive)")
	cmd.Flags().BoolVar(&reset, "reset", false, "Reset the tag list to the defaults")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	cmd.MarkFlagsMutuallyExclusive("add", "remove", "reset")

	return cmd
}

func addTag(cmd *cobra.Command, dir, explicit string, base *config.Config, name string) error {
	name = strings.TrimSpace(name)
	if err := tags.ValidateName(name); err != nil {
		return err
	}
	tag := strings.ToUpper(name)

	err := editTags(dir, explicit, base, func(list []string) ([]string, error) {
		if slices.ContainsFunc(list, equalFold(name)) {
			return nil, errUnchanged
		}
		return append(list, tag), nil
	})
	if errors.Is(err, errUnchanged) {
		fmt.Fprintf(cmd.OutOrStdout(), "Tag already exists: %s\n", name)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added tag: %s\n", tag)
	return nil
}

func removeTag(cmd *cobra.Command, dir, explicit string, base *config.Config, name string) error {
	name = strings.TrimSpace(name)
	err := editTags(dir, explicit, base, func(list []string) ([]string, error) {
		kept := slices.DeleteFunc(slices.Clone(list), equalFold(name))
		if len(kept) == len(list) {
			return nil, errUnchanged
		}
		if len(kept) == 0 {
			return nil, fmt.Errorf("cannot remove %s: at least one tag must remain", name)
		}
		return kept, nil
	})
	if errors.Is(err, errUnchanged) {
		fmt.Fprintf(cmd.OutOrStdout(), "Tag not found: %s\n", name)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed tag: %s\n", name)
	return nil
}

func resetTags(cmd *cobra.Command, dir, explicit string, base *config.Config) error {
	err := editTags(dir, explicit, base, func([]string) ([]string, error) {
		return tags.DefaultNames(), nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Tags reset to defaults")
	return nil
}

// editTags rewrites the tag list of the config file tag edits are saved to.
// An empty list in the file stands for the defaults.
func editTags(dir, explicit string, base *config.Config, fn func([]string) ([]string, error)) error {
	path, err := config.SaveTarget(dir, explicit)
	if err != nil {
		return err
	}
	_, err = config.Edit(path, base, func(c *config.Config) error {
		list := c.Tags
		if len(list) == 0 {
			list = tags.DefaultNames()
		}
		updated, err := fn(list)
		if err != nil {
			return err
		}
		c.Tags = updated
		return nil
	})
	return err
}

func equalFold(name string) func(string) bool {
	return func(s string) bool { return strings.EqualFold(s, name) }
}
