package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// GitHubConfig holds authentication configuration for GitHub.
type GitHubConfig struct {
	ClientID string `toml:"client_id"`
	// Token is a user-supplied personal access token. When set, commands
	// authenticate with it directly instead of running an OAuth flow.
	Token        string `toml:"token"`
	OAuthURL     string `toml:"oauth_url"`
	APIURL       string `toml:"api_url"`
	RedirectPort int    `toml:"redirect_port"`
}

// TemplatesConfig holds the default template repositories used by generate.
type TemplatesConfig struct {
	PluginRepo string `toml:"plugin_repo"`
	GUIRepo    string `toml:"gui_repo"`
}

// GenerateConfig holds defaults for the generate command.
type GenerateConfig struct {
	PackageManager string `toml:"package_manager"`
	IDE            string `toml:"ide"`
	Framework      string `toml:"framework"`
}

// Config holds all plugforge configuration.
type Config struct {
	GitHub    GitHubConfig    `toml:"github"`
	Templates TemplatesConfig `toml:"templates"`
	Generate  GenerateConfig  `toml:"generate"`
}

// defaultClientID is the public client ID of the plugforge OAuth App.
// It is non-confidential (no secret required) so it is safe to distribute with the binary.
const (
	defaultClientID       = "Ov23liGOQXZjTVm1T4ab"
	defaultRedirectPort   = 3000
	defaultPackageManager = "npm"
	defaultIDE            = "vscode"
	defaultFramework      = "react"
)

// ClientIDOrDefault returns GitHub.ClientID if set, otherwise the embedded public client ID.
func (c Config) ClientIDOrDefault() string {
	if c.GitHub.ClientID != "" {
		return c.GitHub.ClientID
	}
	return defaultClientID
}

// RedirectPortOrDefault returns GitHub.RedirectPort if set, otherwise 3000.
func (c Config) RedirectPortOrDefault() int {
	if c.GitHub.RedirectPort > 0 {
		return c.GitHub.RedirectPort
	}
	return defaultRedirectPort
}

// PackageManagerOrDefault returns Generate.PackageManager if set, otherwise npm.
func (c Config) PackageManagerOrDefault() string {
	if c.Generate.PackageManager != "" {
		return c.Generate.PackageManager
	}
	return defaultPackageManager
}

// IDEOrDefault returns Generate.IDE if set, otherwise vscode.
func (c Config) IDEOrDefault() string {
	if c.Generate.IDE != "" {
		return c.Generate.IDE
	}
	return defaultIDE
}

// FrameworkOrDefault returns Generate.Framework if set, otherwise react.
func (c Config) FrameworkOrDefault() string {
	if c.Generate.Framework != "" {
		return c.Generate.Framework
	}
	return defaultFramework
}

// LoadFrom reads configuration from the given TOML file path.
// If the file does not exist, it returns an empty config without error.
// Environment variables always take precedence over file values:
//   - GITHUB_TOKEN        overrides github.token
//   - PLUGFORGE_CLIENT_ID overrides github.client_id
func LoadFrom(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decoding %s: %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// DefaultConfigPath returns the default path for the plugforge config file.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "plugforge", "config.toml")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		cfg.GitHub.Token = v
	}
	if v := os.Getenv("PLUGFORGE_CLIENT_ID"); v != "" {
		cfg.GitHub.ClientID = v
	}
}

// Save writes cfg to the given TOML file path, creating parent directories as needed.
// Existing file contents are overwritten. Permissions on the written file are 0600.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	if encErr := toml.NewEncoder(f).Encode(cfg); encErr != nil {
		f.Close()
		return encErr
	}
	return f.Close()
}
