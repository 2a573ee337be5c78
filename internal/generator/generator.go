// Package generator runs the ordered project-generation pipeline.
package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/waabox/plugforge/internal/domain"
	"github.com/waabox/plugforge/internal/process"
)

const (
	guiDir     = "gui"
	guiTempDir = "gui-temp"
)

// RepositoryClient is the set of working-tree operations the pipeline needs.
// *git.Client implements it.
type RepositoryClient interface {
	Clone(ctx context.Context, url string, dir string) error
	RemoveHistory(dir string) error
	Init(dir string) error
	Add(dir string, path string) error
	SubmoduleAdd(ctx context.Context, dir string, url string, path string) error
	SubmoduleUpdate(ctx context.Context, dir string) error
}

// Generator turns a ProjectConfig into a project directory.
type Generator struct {
	repo   RepositoryClient
	runner process.Runner
	logger *zap.Logger

	// PackageManager installs GUI dependencies; defaults to npm.
	PackageManager string
	// GOOS overrides runtime.GOOS when deciding platform-specific IDE steps.
	GOOS string
}

// New creates a Generator.
func New(repo RepositoryClient, runner process.Runner, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{repo: repo, runner: runner, logger: logger, PackageManager: "npm"}
}

type step struct {
	id      string
	start   string
	done    string
	perform func(ctx context.Context, cfg domain.ProjectConfig) error
}

// Generate runs every step for cfg in order and reports progress to observe.
// Each step emits in-progress then completed. The first failing step aborts the
// run: a final update with step "error" is emitted and the error is returned.
// Completed steps are not rolled back, so the target directory may be left
// partially generated.
func (g *Generator) Generate(ctx context.Context, cfg domain.ProjectConfig, observe domain.Observer) error {
	if observe == nil {
		observe = func(domain.ProgressUpdate) {}
	}
	logger := g.logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("plugin_id", cfg.PluginID),
		zap.Bool("local_only", cfg.LocalOnly),
	)

	if err := cfg.Validate(); err != nil {
		return g.fail(observe, logger, err)
	}

	for _, s := range g.steps(cfg, logger) {
		observe(domain.ProgressUpdate{Step: s.id, Status: domain.StatusInProgress, Message: s.start})
		logger.Debug("step started", zap.String("step", s.id))
		if err := s.perform(ctx, cfg); err != nil {
			return g.fail(observe, logger, fmt.Errorf("%s: %w", s.id, err))
		}
		observe(domain.ProgressUpdate{Step: s.id, Status: domain.StatusCompleted, Message: s.done})
	}
	logger.Info("project generated", zap.String("target", cfg.TargetDirectory))
	return nil
}

// Plan returns the step identifiers Generate runs for cfg, in order.
func (g *Generator) Plan(cfg domain.ProjectConfig) []string {
	steps := g.steps(cfg, g.logger)
	ids := make([]string, 0, len(steps))
	for _, s := range steps {
		ids = append(ids, s.id)
	}
	return ids
}

func (g *Generator) fail(observe domain.Observer, logger *zap.Logger, err error) error {
	logger.Error("project generation failed", zap.Error(err))
	observe(domain.ProgressUpdate{
		Step:    domain.StepError,
		Status:  domain.StatusError,
		Message: "Project generation failed",
		Error:   err.Error(),
	})
	return err
}

func (g *Generator) steps(cfg domain.ProjectConfig, logger *zap.Logger) []step {
	steps := []step{{
		id:    domain.StepClonePlugin,
		start: "Cloning plugin template...",
		done:  "Plugin template cloned",
		perform: func(ctx context.Context, cfg domain.ProjectConfig) error {
			return g.repo.Clone(ctx, cfg.PluginRepoURL, cfg.TargetDirectory)
		},
	}}
	if cfg.LocalOnly {
		steps = append(steps, step{
			id:      domain.StepInitGit,
			start:   "Initializing new Git repository...",
			done:    "Git repository initialized",
			perform: g.reinitialize,
		})
	}
	return append(steps,
		step{
			id:      domain.StepAddSubmodule,
			start:   "Adding GUI submodule...",
			done:    "GUI submodule added",
			perform: g.attachGUI,
		},
		step{
			id:    domain.StepConfigure,
			start: "Updating project configuration...",
			done:  "Project configured",
			perform: func(_ context.Context, cfg domain.ProjectConfig) error {
				return writeProjectConfig(cfg)
			},
		},
		step{
			id:    domain.StepInstallGUI,
			start: "Installing GUI dependencies...",
			done:  "GUI dependencies installed",
			perform: func(ctx context.Context, cfg domain.ProjectConfig) error {
				return g.runner.Run(ctx, filepath.Join(cfg.TargetDirectory, guiDir), g.packageManager(), "install")
			},
		},
		step{
			id:    domain.StepIDEConfig,
			start: "Generating IDE configurations...",
			done:  "IDE configurations generated",
			perform: func(ctx context.Context, cfg domain.ProjectConfig) error {
				return g.writeIDEConfig(ctx, cfg, logger)
			},
		},
	)
}

// reinitialize detaches the clone from the template history.
func (g *Generator) reinitialize(_ context.Context, cfg domain.ProjectConfig) error {
	if err := g.repo.RemoveHistory(cfg.TargetDirectory); err != nil {
		return err
	}
	return g.repo.Init(cfg.TargetDirectory)
}

// attachGUI embeds the GUI repository at gui/: as plain tracked files in local
// mode, as a submodule otherwise.
func (g *Generator) attachGUI(ctx context.Context, cfg domain.ProjectConfig) error {
	if !cfg.LocalOnly {
		if err := g.repo.SubmoduleAdd(ctx, cfg.TargetDirectory, cfg.GUIRepoURL, guiDir); err != nil {
			return err
		}
		return g.repo.SubmoduleUpdate(ctx, cfg.TargetDirectory)
	}

	tempPath := filepath.Join(cfg.TargetDirectory, guiTempDir)
	guiPath := filepath.Join(cfg.TargetDirectory, guiDir)
	if err := g.repo.Clone(ctx, cfg.GUIRepoURL, tempPath); err != nil {
		return err
	}
	if err := g.repo.RemoveHistory(tempPath); err != nil {
		return err
	}
	if err := os.RemoveAll(guiPath); err != nil {
		return fmt.Errorf("removing %s: %w", guiPath, err)
	}
	if err := os.Rename(tempPath, guiPath); err != nil {
		return fmt.Errorf("moving GUI template into place: %w", err)
	}
	return g.repo.Add(cfg.TargetDirectory, guiDir)
}

func (g *Generator) packageManager() string {
	if g.PackageManager != "" {
		return g.PackageManager
	}
	return "npm"
}

func (g *Generator) goos() string {
	if g.GOOS != "" {
		return g.GOOS
	}
	return runtime.GOOS
}
