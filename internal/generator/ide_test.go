package generator_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waabox/plugforge/internal/domain"
	"github.com/waabox/plugforge/internal/generator"
)

func generateWithIDE(t *testing.T, ide domain.IDE, goos string) (domain.ProjectConfig, *fakeRunner) {
	t.Helper()
	cfg := projectConfig(filepath.Join(t.TempDir(), "fuzzbox"))
	cfg.IDE = ide
	runner := &fakeRunner{}
	g := generator.New(&fakeRepo{}, runner, nil)
	g.GOOS = goos
	require.NoError(t, g.Generate(context.Background(), cfg, nil))
	return cfg, runner
}

func TestIDEConfig_VSCodeWorkspaceFolders(t *testing.T) {
	cfg, _ := generateWithIDE(t, domain.IDEVSCode, "linux")

	data, err := os.ReadFile(filepath.Join(cfg.TargetDirectory, "FuzzBox.code-workspace"))
	require.NoError(t, err)
	var ws struct {
		Folders []struct {
			Path string `json:"path"`
			Name string `json:"name"`
		} `json:"folders"`
	}
	require.NoError(t, json.Unmarshal(data, &ws))
	require.Len(t, ws.Folders, 3)
	assert.Equal(t, "gui", ws.Folders[0].Path)
	assert.Equal(t, "plugin", ws.Folders[1].Path)
	assert.Equal(t, ".", ws.Folders[2].Path)
	assert.Equal(t, "Fuzz Box", ws.Folders[2].Name)
	assert.NoFileExists(t, filepath.Join(cfg.TargetDirectory, "plugin", ".vs", "launch.vs.json"))
}

func TestIDEConfig_VisualStudioLaunchTarget(t *testing.T) {
	cfg, _ := generateWithIDE(t, domain.IDEVisualStudio, "windows")

	data, err := os.ReadFile(filepath.Join(cfg.TargetDirectory, "plugin", ".vs", "launch.vs.json"))
	require.NoError(t, err)
	var launch struct {
		Version        string `json:"version"`
		Configurations []struct {
			Type          string `json:"type"`
			Project       string `json:"project"`
			ProjectTarget string `json:"projectTarget"`
			Name          string `json:"name"`
		} `json:"configurations"`
	}
	require.NoError(t, json.Unmarshal(data, &launch))
	assert.Equal(t, "0.2.1", launch.Version)
	require.Len(t, launch.Configurations, 1)
	assert.Equal(t, "CMakeLists.txt", launch.Configurations[0].Project)
	assert.Equal(t, "FuzzBox_Standalone.exe", launch.Configurations[0].ProjectTarget)
	assert.Equal(t, "Fuzz Box Standalone", launch.Configurations[0].Name)
	assert.NoFileExists(t, filepath.Join(cfg.TargetDirectory, "FuzzBox.code-workspace"))
}

func TestIDEConfig_XcodeRunsCMakeOnDarwin(t *testing.T) {
	cfg, runner := generateWithIDE(t, domain.IDEXcode, "darwin")

	require.Len(t, runner.calls, 2)
	cmake := runner.calls[1]
	assert.Equal(t, "cmake", cmake.name)
	assert.Equal(t, []string{"-G", "Xcode", "-B", "build-xcode"}, cmake.args)
	assert.Equal(t, filepath.Join(cfg.TargetDirectory, "plugin"), cmake.dir)
}

func TestIDEConfig_UnsupportedCombinationsAreSkipped(t *testing.T) {
	for _, tc := range []struct {
		ide  domain.IDE
		goos string
	}{
		{domain.IDEXcode, "linux"},
		{domain.IDECLion, "linux"},
		{domain.IDECLI, "darwin"},
	} {
		t.Run(string(tc.ide)+"-"+tc.goos, func(t *testing.T) {
			cfg, runner := generateWithIDE(t, tc.ide, tc.goos)
			assert.Len(t, runner.calls, 1, "only the GUI install runs")
			assert.NoFileExists(t, filepath.Join(cfg.TargetDirectory, "FuzzBox.code-workspace"))
		})
	}
}
