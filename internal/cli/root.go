// Package cli wires the plugforge command tree.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/waabox/plugforge/internal/auth"
	"github.com/waabox/plugforge/internal/config"
	"github.com/waabox/plugforge/internal/logging"
)

// app carries state shared by every command of one invocation.
type app struct {
	version    string
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger

	// openBrowser and sleep are replaced in tests.
	openBrowser func(url string) error
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewRootCommand builds the plugforge command tree.
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(&app{
		version:     version,
		openBrowser: auth.OpenBrowser,
		sleep:       sleepContext,
	})
}

func newRootCommand(a *app) *cobra.Command {
	a.logger = zap.NewNop()
	root := &cobra.Command{
		Use:   "plugforge",
		Short: "Scaffold audio plugin projects from template repositories",
		Long: `plugforge creates an audio plugin project: it clones a plugin template,
attaches a GUI repository, writes project-config.json, installs GUI
dependencies and emits IDE project files. It authenticates against GitHub
with the browser (authorization code) or device flow.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger
			cfg, err := config.LoadFrom(a.configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			a.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging on stderr")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultConfigPath(), "Path to the TOML config file")

	root.AddCommand(
		a.newLoginCommand(),
		a.newWhoamiCommand(),
		a.newRepoCommand(),
		a.newGenerateCommand(),
		a.newVersionCommand(),
		a.newConfigCommand(),
	)
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, version string) error {
	return NewRootCommand(version).ExecuteContext(ctx)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
