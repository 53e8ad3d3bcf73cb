package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runValidateWith(t *testing.T, schema, doc string) (string, error) {
	t.Helper()
	schemaPath, jsonPath = schema, doc
	t.Cleanup(func() { schemaPath, jsonPath = "", "" })

	var out bytes.Buffer
	validateCmd.SetOut(&out)
	t.Cleanup(func() { validateCmd.SetOut(nil) })

	err := runValidate(validateCmd, nil)
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateCommand_EmbeddedSchema(t *testing.T) {
	doc := writeTemp(t, "career.json", `{"skills": ["Go"], "timeline": [{"title": "Engineer", "dateRange": "2020 - Present", "description": "Builds things."}]}`)

	output, err := runValidateWith(t, "career", doc)
	require.NoError(t, err)
	assert.Contains(t, output, "Validation passed")
}

func TestValidateCommand_Failure(t *testing.T) {
	doc := writeTemp(t, "career.json", `{"skills": "Go"}`)

	output, err := runValidateWith(t, "career", doc)
	require.Error(t, err)
	assert.Equal(t, "validation failed", err.Error())
	assert.Contains(t, output, "Validation failed")
	assert.Contains(t, output, "timeline")
}

func TestValidateCommand_SchemaFile(t *testing.T) {
	schema := writeTemp(t, "schema.json", `{"type": "object", "required": ["name"]}`)
	doc := writeTemp(t, "doc.json", `{"name": "Ada"}`)

	output, err := runValidateWith(t, schema, doc)
	require.NoError(t, err)
	assert.Contains(t, output, "Validation passed")
}

func TestValidateCommand_MissingFiles(t *testing.T) {
	_, err := runValidateWith(t, "career", "does-not-exist.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = runValidateWith(t, "missing-schema.json", "does-not-exist.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateCommand_RequiredFlags(t *testing.T) {
	for _, name := range []string{"schema", "json"} {
		flag := validateCmd.Flags().Lookup(name)
		require.NotNil(t, flag)
		assert.Equal(t, []string{"true"}, flag.Annotations["cobra_annotation_bash_completion_one_required_flag"])
	}
}
