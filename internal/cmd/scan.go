package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/harrison/todotree/internal/config"
	"github.com/harrison/todotree/internal/pipeline"
)

// scanFlags holds the scan options shared by the root and scan commands
type scanFlags struct {
	tags       []string
	addTags    []string
	removeTags []string
	include    []string
	exclude    []string

	json          bool
	flat          bool
	caseSensitive bool
	hidden        bool
	followLinks   bool
	noIgnore      bool
	groupByTag    bool

	depth   int
	threads int
	sort    string
}

func (f *scanFlags) register(fl *pflag.FlagSet) {
	fl.StringSliceVarP(&f.tags, "tags", "t", nil, "Tags to search for, replacing the configured set (comma-separated)")
	fl.StringSliceVar(&f.addTags, "add-tag", nil, "Add tags to the configured set")
	fl.StringSliceVar(&f.removeTags, "remove-tag", nil, "Remove tags from the configured set")
	fl.StringSliceVarP(&f.include, "include", "i", nil, "Only scan files matching these globs")
	fl.StringSliceVarP(&f.exclude, "exclude", "e", nil, "Skip files and directories matching these globs")
	fl.BoolVar(&f.json, "json", false, "Output JSON")
	fl.BoolVar(&f.flat, "flat", false, "Output one line per item")
	fl.BoolVar(&f.caseSensitive, "case-sensitive", false, "Match tags case-sensitively")
	fl.BoolVar(&f.hidden, "hidden", false, "Include hidden files and directories")
	fl.BoolVar(&f.followLinks, "follow-links", false, "Follow symbolic links")
	fl.BoolVar(&f.noIgnore, "no-ignore", false, "Do not honor .gitignore and .ignore files")
	fl.BoolVar(&f.groupByTag, "group-by-tag", false, "Group tree output by tag instead of file")
	fl.IntVarP(&f.depth, "depth", "d", 0, "Maximum directory depth (0 = unlimited)")
	fl.IntVar(&f.threads, "threads", 0, "Scanner worker count (0 or 1 = sequential)")
	fl.StringVar(&f.sort, "sort", "", "Item order: file, tag, line or priority (default: file)")
}

// overrides converts the flags into config overrides. Depth and threads only
// override the config file when given explicitly.
func (f *scanFlags) overrides(cmd *cobra.Command) config.Overrides {
	o := config.Overrides{
		Tags:          f.tags,
		AddTags:       f.addTags,
		RemoveTags:    f.removeTags,
		Include:       f.include,
		Exclude:       f.exclude,
		JSON:          f.json,
		Flat:          f.flat,
		CaseSensitive: f.caseSensitive,
		Hidden:        f.hidden,
		FollowLinks:   f.followLinks,
		NoIgnore:      f.noIgnore,
		GroupByTag:    f.groupByTag,
		Sort:          f.sort,
	}
	if cmd.Flags().Changed("depth") {
		o.MaxDepth = &f.depth
	}
	if cmd.Flags().Changed("threads") {
		o.Threads = &f.threads
	}
	return o
}

// NewScanCommand creates the scan command
func NewScanCommand(v *viper.Viper) *cobra.Command {
	f := &scanFlags{}
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a directory for tagged comments",
		Long: `Scan a directory for tagged comments and print them grouped by file
(or by tag with --group-by-tag), followed by a summary.

This is the default command: "todotree src" is the same as "todotree scan src".

Examples:
  todotree scan                         # Tree output for the current directory
  todotree scan --exclude "target/**"   # Skip build output
  todotree scan -t TODO --add-tag SAFETY
  todotree scan --threads 8 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, v, f, args)
		},
	}
	f.register(cmd.Flags())
	return cmd
}

// runScan implements the scan command logic
func runScan(cmd *cobra.Command, v *viper.Viper, f *scanFlags, args []string) error {
	p, err := newPipeline(cmd, v, pathArg(args), f.overrides(cmd))
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	return p.Run(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), pipeline.RunOptions{})
}

// newPipeline loads the configuration for path, applies o and the global
// flags, and resolves it for a scan printed to the command's stdout.
func newPipeline(cmd *cobra.Command, v *viper.Viper, path string, o config.Overrides) (*pipeline.Pipeline, error) {
	root, err := config.ResolveRoot(path)
	if err != nil {
		return nil, err
	}

	cfg, file, err := config.Load(root, v.GetString("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	o.NoColor = o.NoColor || v.GetBool("no-color")
	cfg.MergeWithFlags(o)

	sc, err := cfg.Resolve(root, file, cmd.OutOrStdout())
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return pipeline.New(sc, newLogger(cmd, v)), nil
}
