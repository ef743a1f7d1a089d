package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"debugdeck/internal/config"
)

func newInitCmd() *cobra.Command {
	var force, global bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write the default configuration to ./debugdeck.yaml, or with --global to
~/.config/debugdeck/config.yaml. An existing file is kept unless --force
is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.ProjectConfigFile
			if global {
				path = config.GlobalConfigPath()
				if path == "" {
					return fmt.Errorf("home directory unknown")
				}
			}
			return runInit(cmd, path, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")
	cmd.Flags().BoolVar(&global, "global", false, "Write the global config instead")
	return cmd
}

func runInit(cmd *cobra.Command, path string, force bool) error {
	out := cmd.OutOrStdout()
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(out, "Config %s already exists, skipping\n", path)
		return nil
	}
	if err := config.WriteDefault(path); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	fmt.Fprintf(out, "%s %s\n", color.GreenString("Created"), path)
	return nil
}
