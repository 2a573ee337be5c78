package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/waabox/plugforge/internal/domain"
)

type workspaceFolder struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

type codeWorkspace struct {
	Folders  []workspaceFolder `json:"folders"`
	Settings map[string]any    `json:"settings"`
}

type launchConfiguration struct {
	Type          string `json:"type"`
	Project       string `json:"project"`
	ProjectTarget string `json:"projectTarget"`
	Name          string `json:"name"`
}

type launchVS struct {
	Version        string                `json:"version"`
	Defaults       map[string]any        `json:"defaults"`
	Configurations []launchConfiguration `json:"configurations"`
}

// WorkspaceFile returns the VS Code workspace file name for cfg.
func WorkspaceFile(cfg domain.ProjectConfig) string {
	return cfg.PluginID + ".code-workspace"
}

// writeIDEConfig emits the artifacts of every IDE cfg.IDE covers.
// Targets without artifacts (clion, cli) and Xcode off macOS are skipped.
func (g *Generator) writeIDEConfig(ctx context.Context, cfg domain.ProjectConfig, logger *zap.Logger) error {
	if cfg.IDE.Includes(domain.IDEVSCode) {
		if err := writeCodeWorkspace(cfg); err != nil {
			return err
		}
	}
	if cfg.IDE.Includes(domain.IDEVisualStudio) {
		if err := writeLaunchVS(cfg); err != nil {
			return err
		}
	}
	if cfg.IDE.Includes(domain.IDEXcode) {
		if g.goos() != "darwin" {
			logger.Debug("skipping Xcode project generation", zap.String("goos", g.goos()))
			return nil
		}
		pluginDir := filepath.Join(cfg.TargetDirectory, "plugin")
		if err := g.runner.Run(ctx, pluginDir, "cmake", "-G", "Xcode", "-B", "build-xcode"); err != nil {
			return err
		}
	}
	return nil
}

func writeCodeWorkspace(cfg domain.ProjectConfig) error {
	ws := codeWorkspace{
		Folders: []workspaceFolder{
			{Path: "gui", Name: "GUI"},
			{Path: "plugin", Name: "Plugin"},
			{Path: ".", Name: cfg.PluginName},
		},
		Settings: map[string]any{},
	}
	data, err := json.MarshalIndent(ws, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding workspace: %w", err)
	}
	return writeFile(filepath.Join(cfg.TargetDirectory, WorkspaceFile(cfg)), data)
}

func writeLaunchVS(cfg domain.ProjectConfig) error {
	vsDir := filepath.Join(cfg.TargetDirectory, "plugin", ".vs")
	if err := os.MkdirAll(vsDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", vsDir, err)
	}
	launch := launchVS{
		Version:  "0.2.1",
		Defaults: map[string]any{},
		Configurations: []launchConfiguration{{
			Type:          "default",
			Project:       "CMakeLists.txt",
			ProjectTarget: cfg.PluginID + "_Standalone.exe",
			Name:          cfg.PluginName + " Standalone",
		}},
	}
	data, err := json.MarshalIndent(launch, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding launch configuration: %w", err)
	}
	return writeFile(filepath.Join(vsDir, "launch.vs.json"), data)
}
