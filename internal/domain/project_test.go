package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/waabox/plugforge/internal/domain"
)

func validConfig() domain.ProjectConfig {
	return domain.ProjectConfig{
		Framework:        domain.FrameworkReact,
		PluginName:       "Fuzz Box",
		PluginID:         "FuzzBox",
		Company:          "Acme Audio",
		ManufacturerCode: "Acme",
		PluginCode:       "Fzbx",
		SubtypeCode:      "Fzb1",
		PluginRepoURL:    "https://github.com/acme/plugin-template.git",
		GUIRepoURL:       "https://github.com/acme/gui-template.git",
		TargetDirectory:  "/tmp/fuzzbox",
		IDE:              domain.IDEVSCode,
	}
}

func TestProjectConfig_ValidAccepted(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProjectConfig_MissingFieldsListed(t *testing.T) {
	cfg := validConfig()
	cfg.PluginID = ""
	cfg.TargetDirectory = "  "
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing fields, got nil")
	}
	if !errors.Is(err, domain.ErrInvalidProjectConfig) {
		t.Errorf("expected ErrInvalidProjectConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "plugin id") || !strings.Contains(err.Error(), "target directory") {
		t.Errorf("expected both missing fields in message, got '%s'", err.Error())
	}
}

func TestProjectConfig_UnknownFrameworkRejected(t *testing.T) {
	cfg := validConfig()
	cfg.Framework = "jquery"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown framework, got nil")
	}
}

func TestProjectConfig_UnknownIDERejected(t *testing.T) {
	cfg := validConfig()
	cfg.IDE = "emacs"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown ide, got nil")
	}
}

func TestIDE_AllIncludesEveryTarget(t *testing.T) {
	for _, target := range []domain.IDE{domain.IDEVSCode, domain.IDEVisualStudio, domain.IDEXcode} {
		if !domain.IDEAll.Includes(target) {
			t.Errorf("expected 'all' to include %s", target)
		}
	}
	if domain.IDEVSCode.Includes(domain.IDEXcode) {
		t.Error("expected vscode not to include xcode")
	}
}
