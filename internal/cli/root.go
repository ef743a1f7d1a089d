// Package cli holds the debugdeck commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"debugdeck/internal/config"
)

// Version information - set at build time via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configFile string
	dbPath     string
	logLevel   string
}

// NewRootCmd builds the command tree. The root command runs the TUI.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "debugdeck",
		Short: "Floating debug panels in the terminal",
		Long: `debugdeck opens a terminal desktop of floating panels: a console that
collects logs, a browser for the local key-value store, an inspector for
the panels themselves and a command runner.

Drag panels by their header, resize them from the bottom-right corner and
press SPC for the command menu.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.configFile, "config", "", "config file (default ./debugdeck.yaml)")
	root.PersistentFlags().StringVar(&g.dbPath, "db", "", "key-value database path")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	addRunFlags(root, g)
	root.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newDBCmd(g),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "debugdeck %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
		},
	}
}

// loadConfig loads configuration with the flags that were set on cmd
// taking precedence.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	l := config.NewLoader()
	if g.configFile != "" {
		l.SetConfigFile(g.configFile)
	}
	if g.dbPath != "" {
		l.SetOverride("database.path", g.dbPath)
	}
	if g.logLevel != "" {
		l.SetOverride("log.level", g.logLevel)
	}
	cfg, err := l.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// SetVersionInfo sets version information from build flags
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
