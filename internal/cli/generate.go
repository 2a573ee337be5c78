package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/waabox/plugforge/internal/domain"
	"github.com/waabox/plugforge/internal/generator"
	"github.com/waabox/plugforge/internal/git"
	"github.com/waabox/plugforge/internal/process"
	"github.com/waabox/plugforge/internal/tui"
)

type generateOptions struct {
	framework        string
	pluginName       string
	pluginID         string
	company          string
	manufacturerCode string
	pluginCode       string
	subtypeCode      string
	pluginRepo       string
	guiRepo          string
	ide              string
	packageManager   string
	local            bool
	plain            bool
}

func (a *app) newGenerateCommand() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate <target-directory>",
		Short: "Generate a plugin project",
		Long: `Generate a plugin project in <target-directory>, which must not exist or be
empty. The plugin template is cloned, the GUI repository is attached as a
submodule (or as plain files with --local, which also drops the template
history), project-config.json is written, GUI dependencies are installed and
IDE files are emitted. The first failing step aborts the run; nothing is
rolled back.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.pluginName, "name", "", "Plugin display name")
	f.StringVar(&opts.pluginID, "id", "", "Plugin identifier (used in file and target names)")
	f.StringVar(&opts.company, "company", "", "Company name")
	f.StringVar(&opts.manufacturerCode, "manufacturer-code", "", "Four character manufacturer code")
	f.StringVar(&opts.pluginCode, "plugin-code", "", "Four character plugin code")
	f.StringVar(&opts.subtypeCode, "subtype-code", "", "Four character subtype code")
	f.StringVar(&opts.framework, "framework", "", "GUI framework: vue, react, angular, vanilla, svelte, custom (default from config, then react)")
	f.StringVar(&opts.pluginRepo, "plugin-repo", "", "Plugin template repository URL (default from config)")
	f.StringVar(&opts.guiRepo, "gui-repo", "", "GUI repository URL (default from config)")
	f.StringVar(&opts.ide, "ide", "", "IDE files to emit: vscode, clion, visual-studio, xcode, cli, all (default from config, then vscode)")
	f.StringVar(&opts.packageManager, "package-manager", "", "Command used to install GUI dependencies (default from config, then npm)")
	f.BoolVar(&opts.local, "local", false, "Drop template history and embed the GUI as plain files")
	f.BoolVar(&opts.plain, "plain", false, "Print one line per step instead of the interactive progress view")
	return cmd
}

// projectConfig merges flags over config defaults.
func (a *app) projectConfig(target string, opts generateOptions) (domain.ProjectConfig, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("resolving %s: %w", target, err)
	}
	cfg := domain.ProjectConfig{
		Framework:        domain.Framework(firstNonEmpty(opts.framework, a.cfg.FrameworkOrDefault())),
		PluginName:       opts.pluginName,
		PluginID:         opts.pluginID,
		Company:          opts.company,
		ManufacturerCode: opts.manufacturerCode,
		PluginCode:       opts.pluginCode,
		SubtypeCode:      opts.subtypeCode,
		PluginRepoURL:    firstNonEmpty(opts.pluginRepo, a.cfg.Templates.PluginRepo),
		GUIRepoURL:       firstNonEmpty(opts.guiRepo, a.cfg.Templates.GUIRepo),
		TargetDirectory:  abs,
		IDE:              domain.IDE(firstNonEmpty(opts.ide, a.cfg.IDEOrDefault())),
		LocalOnly:        opts.local,
	}
	return cfg, nil
}

func (a *app) runGenerate(cmd *cobra.Command, target string, opts generateOptions) error {
	cfg, err := a.projectConfig(target, opts)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	interactive := !opts.plain && isTerminal(out)

	runner := process.NewExecRunner(a.logger)
	repo := git.NewClient(runner, a.logger)
	repo.Token = a.cfg.GitHub.Token
	if !interactive {
		runner.Stderr = cmd.ErrOrStderr()
		repo.Progress = cmd.ErrOrStderr()
	}
	gen := generator.New(repo, runner, a.logger)
	gen.PackageManager = firstNonEmpty(opts.packageManager, a.cfg.PackageManagerOrDefault())

	if interactive {
		err = tui.Run(cmd.Context(), cfg.PluginName, gen.Plan(cfg), func(ctx context.Context, observe domain.Observer) error {
			return gen.Generate(ctx, cfg, observe)
		})
	} else {
		err = gen.Generate(cmd.Context(), cfg, tui.PlainObserver(out))
	}
	if err != nil {
		return err
	}

	a.printSummary(out, cfg)
	return nil
}

func (a *app) printSummary(out io.Writer, cfg domain.ProjectConfig) {
	fmt.Fprintf(out, "\nProject %s created in %s\n", cfg.PluginName, cfg.TargetDirectory)
	if !cfg.LocalOnly {
		if origin, err := git.DetectRepository(cfg.TargetDirectory); err == nil {
			fmt.Fprintf(out, "Origin: %s/%s\n", origin.Owner, origin.Name)
		} else {
			a.logger.Debug("origin not detected", zap.Error(err))
		}
	}
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintf(out, "  cd %s\n", cfg.TargetDirectory)
	if cfg.IDE.Includes(domain.IDEVSCode) {
		fmt.Fprintf(out, "  code %s\n", generator.WorkspaceFile(cfg))
	}
	fmt.Fprintln(out, "  cmake -B build plugin")
	fmt.Fprintln(out, "  cmake --build build")
	if cfg.LocalOnly {
		fmt.Fprintln(out, "  git commit -m \"Initial commit\"")
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
