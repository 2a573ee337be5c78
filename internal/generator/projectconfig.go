package generator

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/waabox/plugforge/internal/domain"
)

// ProjectConfigFile is the name of the configuration file written at the project root.
const ProjectConfigFile = "project-config.json"

//go:embed schema/project-config.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

// ProjectDocument is the on-disk shape of project-config.json.
type ProjectDocument struct {
	Plugin PluginSection `json:"plugin"`
	GUI    GUISection    `json:"gui"`
}

// PluginSection identifies the plugin.
type PluginSection struct {
	Name    string      `json:"name"`
	ID      string      `json:"id"`
	Company string      `json:"company"`
	Codes   PluginCodes `json:"codes"`
}

// PluginCodes are the four-character codes hosts use to identify the plugin.
type PluginCodes struct {
	Manufacturer string `json:"manufacturer"`
	Plugin       string `json:"plugin"`
	Subtype      string `json:"subtype"`
}

// GUISection records the GUI framework and where it came from.
type GUISection struct {
	Framework  domain.Framework `json:"framework"`
	Repository string           `json:"repository"`
}

// NewProjectDocument builds the project-config.json document for cfg.
func NewProjectDocument(cfg domain.ProjectConfig) ProjectDocument {
	return ProjectDocument{
		Plugin: PluginSection{
			Name:    cfg.PluginName,
			ID:      cfg.PluginID,
			Company: cfg.Company,
			Codes: PluginCodes{
				Manufacturer: cfg.ManufacturerCode,
				Plugin:       cfg.PluginCode,
				Subtype:      cfg.SubtypeCode,
			},
		},
		GUI: GUISection{
			Framework:  cfg.Framework,
			Repository: cfg.GUIRepoURL,
		},
	}
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("project-config.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("project-config.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// ValidateProjectDocument checks raw project-config.json bytes against the schema.
func ValidateProjectDocument(data []byte) error {
	schema, err := getSchema()
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parsing project config: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("project config does not match schema: %w", err)
	}
	return nil
}

// writeProjectConfig writes project-config.json into the target directory.
func writeProjectConfig(cfg domain.ProjectConfig) error {
	data, err := json.MarshalIndent(NewProjectDocument(cfg), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding project config: %w", err)
	}
	if err := ValidateProjectDocument(data); err != nil {
		return err
	}
	return writeFile(filepath.Join(cfg.TargetDirectory, ProjectConfigFile), data)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
