package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/harrison/todotree/internal/config"
)

// NewStatsCommand creates the stats command
func NewStatsCommand(v *viper.Viper) *cobra.Command {
	var (
		tagList []string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "stats [path]",
		Short: "Show counts of tagged comments",
		Long: `Show the number of tagged comments, the files containing them and how
the items are distributed across tags.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPipeline(cmd, v, pathArg(args), config.Overrides{Tags: tagList})
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd)
			defer stop()

			return p.Stats(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), asJSON)
		},
	}

	cmd.Flags().StringSliceVarP(&tagList, "tags", "t", nil, "Tags to count (comma-separated)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}
