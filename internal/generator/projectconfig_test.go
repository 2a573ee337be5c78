package generator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/waabox/plugforge/internal/generator"
)

func TestValidateProjectDocument_AcceptsGeneratedShape(t *testing.T) {
	doc := `{
  "plugin": {"name": "Fuzz Box", "id": "FuzzBox", "company": "Acme",
             "codes": {"manufacturer": "Acme", "plugin": "Fzbx", "subtype": "Fzb1"}},
  "gui": {"framework": "vue", "repository": "https://github.com/acme/gui.git"}
}`
	assert.NoError(t, generator.ValidateProjectDocument([]byte(doc)))
}

func TestValidateProjectDocument_RejectsUnknownFramework(t *testing.T) {
	doc := `{
  "plugin": {"name": "Fuzz Box", "id": "FuzzBox", "company": "Acme",
             "codes": {"manufacturer": "Acme", "plugin": "Fzbx", "subtype": "Fzb1"}},
  "gui": {"framework": "jquery", "repository": "https://github.com/acme/gui.git"}
}`
	assert.Error(t, generator.ValidateProjectDocument([]byte(doc)))
}

func TestValidateProjectDocument_RejectsMissingCodes(t *testing.T) {
	doc := `{
  "plugin": {"name": "Fuzz Box", "id": "FuzzBox", "company": "Acme", "codes": {"manufacturer": "Acme"}},
  "gui": {"framework": "vue", "repository": "https://github.com/acme/gui.git"}
}`
	assert.Error(t, generator.ValidateProjectDocument([]byte(doc)))
}

func TestValidateProjectDocument_RejectsMalformedJSON(t *testing.T) {
	assert.Error(t, generator.ValidateProjectDocument([]byte(`{"plugin":`)))
}
