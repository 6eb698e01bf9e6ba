package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/todotree/internal/config"
)

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	var (
		format string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default .todorc config file",
		Long: `Create a .todorc config file with the default settings in the current
directory.

Examples:
  todotree init                    # .todorc.json
  todotree init --format yaml      # .todorc.yaml
  todotree init --format toml --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := config.ParseFormat(format)
			if err != nil {
				return err
			}
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			path, err := config.Init(dir, f, force)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created configuration file: %s\n", path)
			fmt.Fprintf(out, "\nYou can customize the following settings:\n")
			fmt.Fprintf(out, "  - tags: List of tags to search for\n")
			fmt.Fprintf(out, "  - include: File patterns to include\n")
			fmt.Fprintf(out, "  - exclude: File patterns to exclude\n")
			fmt.Fprintf(out, "  - json: Default to JSON output\n")
			fmt.Fprintf(out, "  - flat: Default to flat output\n")
			fmt.Fprintf(out, "  - priorities: Priority per tag (critical, high, medium, low)\n")
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Config file format: json, yaml or toml")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
