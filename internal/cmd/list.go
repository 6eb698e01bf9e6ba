package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/harrison/todotree/internal/config"
	"github.com/harrison/todotree/internal/pipeline"
)

// NewListCommand creates the list command
func NewListCommand(v *viper.Viper) *cobra.Command {
	var (
		tagList       []string
		include       []string
		exclude       []string
		filter        string
		asJSON        bool
		caseSensitive bool
	)

	cmd := &cobra.Command{
		Use:   "list [path]",
		Short: "List tagged comments one per line",
		Long: `List tagged comments as path:line:column [TAG] message, one per line.

Examples:
  todotree list
  todotree list --filter fixme      # Only FIXME items
  todotree list src --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := config.Overrides{
				Tags:          tagList,
				Include:       include,
				Exclude:       exclude,
				JSON:          asJSON,
				Flat:          true,
				CaseSensitive: caseSensitive,
			}
			p, err := newPipeline(cmd, v, pathArg(args), o)
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd)
			defer stop()

			return p.Run(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), pipeline.RunOptions{FilterTag: filter})
		},
	}

	cmd.Flags().StringSliceVarP(&tagList, "tags", "t", nil, "Tags to search for (comma-separated)")
	cmd.Flags().StringSliceVarP(&include, "include", "i", nil, "Only scan files matching these globs")
	cmd.Flags().StringSliceVarP(&exclude, "exclude", "e", nil, "Skip files and directories matching these globs")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only show items with this tag (case-insensitive)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "Match tags case-sensitively")

	return cmd
}
