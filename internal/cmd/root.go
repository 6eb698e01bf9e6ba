package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/harrison/todotree/internal/logger"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// globalFlags are the persistent flags every subcommand reads through viper,
// so each can also be set as TODO_TREE_<NAME>.
var globalFlags = []string{"no-color", "verbose", "config"}

// NewRootCommand creates and returns the root cobra command for todotree.
// Without a subcommand it scans the given path (default ".").
func NewRootCommand() *cobra.Command {
	v := viper.New()
	scan := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "todotree [path]",
		Short: "Find TODO, FIXME and other tagged comments in a source tree",
		Long: `todotree walks a directory tree, finds tagged comments such as TODO,
FIXME and BUG in source files and prints them as a tree, a flat list or JSON.

.gitignore and .ignore rules are honored. Settings are read from the nearest
.todorc file (JSON, YAML or TOML) in the scan root or its parents, then from
the global config directory. CLI flags override configuration file settings.

Examples:
  todotree                          # Scan the current directory
  todotree src --tags TODO,FIXME    # Only TODO and FIXME in src/
  todotree --flat --sort priority   # One line per item, most urgent first
  todotree --json > todos.json      # Machine-readable output
  todotree stats                    # Counts per tag`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, v, scan, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.Bool("no-color", false, "Disable colored output")
	pf.BoolP("verbose", "v", false, "Show config, worker and timing diagnostics on stderr")
	pf.String("config", "", "Path to config file (default: nearest .todorc)")

	v.SetEnvPrefix("TODO_TREE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, name := range globalFlags {
		_ = v.BindPFlag(name, pf.Lookup(name))
	}

	scan.register(cmd.Flags())

	// Add subcommands
	cmd.AddCommand(NewScanCommand(v))
	cmd.AddCommand(NewListCommand(v))
	cmd.AddCommand(NewTagsCommand(v))
	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewStatsCommand(v))

	return cmd
}

// newLogger creates the stderr diagnostics logger: warnings only, or
// everything down to debug with --verbose.
func newLogger(cmd *cobra.Command, v *viper.Viper) logger.Logger {
	level := "warn"
	if v.GetBool("verbose") {
		level = "debug"
	}
	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), level)
	if v.GetBool("no-color") {
		log.SetColor(false)
	}
	return log
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// pathArg returns the optional [path] argument
func pathArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}
