package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Framework is the GUI framework the generated project uses.
type Framework string

const (
	FrameworkVue     Framework = "vue"
	FrameworkReact   Framework = "react"
	FrameworkAngular Framework = "angular"
	FrameworkVanilla Framework = "vanilla"
	FrameworkSvelte  Framework = "svelte"
	FrameworkCustom  Framework = "custom"
)

// Frameworks lists every supported framework.
var Frameworks = []Framework{FrameworkVue, FrameworkReact, FrameworkAngular, FrameworkVanilla, FrameworkSvelte, FrameworkCustom}

// IDE is the development environment to emit project files for.
type IDE string

const (
	IDEVSCode       IDE = "vscode"
	IDECLion        IDE = "clion"
	IDEVisualStudio IDE = "visual-studio"
	IDEXcode        IDE = "xcode"
	IDECLI          IDE = "cli"
	IDEAll          IDE = "all"
)

// IDEs lists every supported IDE target.
var IDEs = []IDE{IDEVSCode, IDECLion, IDEVisualStudio, IDEXcode, IDECLI, IDEAll}

// Includes reports whether this IDE selection covers target.
func (i IDE) Includes(target IDE) bool {
	return i == target || i == IDEAll
}

// ProjectConfig holds the user-supplied scaffold parameters.
// It is passed by value into the generator and never mutated there.
type ProjectConfig struct {
	Framework        Framework
	PluginName       string
	PluginID         string
	Company          string
	ManufacturerCode string
	PluginCode       string
	SubtypeCode      string
	PluginRepoURL    string
	GUIRepoURL       string
	TargetDirectory  string
	IDE              IDE
	// LocalOnly detaches the project from template history and embeds the GUI
	// as plain tracked files instead of a submodule.
	LocalOnly bool
}

// Validate checks that required fields are present and enums are known.
// It does not inspect the target directory; a conflicting directory makes the
// clone step fail instead.
func (c ProjectConfig) Validate() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"plugin name", c.PluginName},
		{"plugin id", c.PluginID},
		{"company", c.Company},
		{"manufacturer code", c.ManufacturerCode},
		{"plugin code", c.PluginCode},
		{"subtype code", c.SubtypeCode},
		{"plugin repository", c.PluginRepoURL},
		{"gui repository", c.GUIRepoURL},
		{"target directory", c.TargetDirectory},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrInvalidProjectConfig, strings.Join(missing, ", "))
	}
	if !knownFramework(c.Framework) {
		return fmt.Errorf("%w: unknown framework %q", ErrInvalidProjectConfig, c.Framework)
	}
	if !knownIDE(c.IDE) {
		return fmt.Errorf("%w: unknown ide %q", ErrInvalidProjectConfig, c.IDE)
	}
	return nil
}

func knownFramework(f Framework) bool {
	for _, k := range Frameworks {
		if k == f {
			return true
		}
	}
	return false
}

func knownIDE(i IDE) bool {
	for _, k := range IDEs {
		if k == i {
			return true
		}
	}
	return false
}

// ErrInvalidProjectConfig wraps validation failures reported before generation starts.
var ErrInvalidProjectConfig = errors.New("invalid project config")
