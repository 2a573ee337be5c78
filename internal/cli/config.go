package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/waabox/plugforge/internal/config"
)

func (a *app) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the plugforge config file",
	}
	cmd.AddCommand(a.newConfigInitCommand())
	return cmd
}

func (a *app) newConfigInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", a.configPath)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("checking %s: %w", a.configPath, err)
			}

			// The token is left out so GITHUB_TOKEN never ends up on disk.
			var cfg config.Config
			cfg.GitHub.ClientID = a.cfg.ClientIDOrDefault()
			cfg.GitHub.RedirectPort = a.cfg.RedirectPortOrDefault()
			cfg.Templates = a.cfg.Templates
			cfg.Generate.PackageManager = a.cfg.PackageManagerOrDefault()
			cfg.Generate.IDE = a.cfg.IDEOrDefault()
			cfg.Generate.Framework = a.cfg.FrameworkOrDefault()
			if err := config.Save(a.configPath, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", a.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
