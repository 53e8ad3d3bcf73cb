package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(ResearchFile, KeySummary)
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "{{.ContextPrompt}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(ResearchFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	result := Format(template, data)
	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", result)
}

func TestFormat_SubstitutedValuesAreNotExpanded(t *testing.T) {
	template := "{{.ContextPrompt}} / {{.Name}}"
	data := map[string]string{
		"ContextPrompt": "literal {{.Name}}",
		"Name":          "Ada",
	}

	assert.Equal(t, "literal {{.Name}} / Ada", Format(template, data))
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"

	assert.Equal(t, template, Format(template, map[string]string{}))
}

func TestRender(t *testing.T) {
	ClearCache()

	prompt, err := Render(KeyRoast, map[string]string{"ContextPrompt": "## Profile Information\nName: Ada"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Name: Ada")
	assert.NotContains(t, prompt, "{{.ContextPrompt}}")
}

func TestList_AllResearchKeysPresent(t *testing.T) {
	ClearCache()

	keys, err := List(ResearchFile)
	require.NoError(t, err)
	for _, key := range ResearchKeys() {
		assert.Contains(t, keys, key)
	}
	assert.IsIncreasing(t, keys)
}

func TestRender_MissingPlaceholder(t *testing.T) {
	ClearCache()

	_, err := Render(KeyContextPrompt, map[string]string{"SearchQuery": "ada", "Name": "Ada"})
	require.Error(t, err)

	var missingErr *MissingPlaceholderError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, KeyContextPrompt, missingErr.Key)
	assert.Equal(t, []string{"Headline", "Results", "Source", "Text"}, missingErr.Missing)
}

func TestRender_EmptyValuesAllowed(t *testing.T) {
	ClearCache()

	prompt, err := Render(KeyProfilePrompt, map[string]string{
		"Name": "Ada", "Headline": "", "URL": "", "Source": "", "Text": "",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Ada")
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, Placeholders("{{.B}} {{.A}} {{.B}} {{ .C }}"))
	assert.Nil(t, Placeholders("no placeholders"))
}

func TestResearchPrompts_Placeholders(t *testing.T) {
	ClearCache()

	want := map[string][]string{
		KeySummary:          {"ContextPrompt"},
		KeyRoast:            {"ContextPrompt"},
		KeyPraise:           {"ContextPrompt"},
		KeyCareer:           {"ContextPrompt"},
		KeyFunFactsResearch: {"ProfilePrompt"},
		KeyFunFactsLLM:      {"ProfilePrompt"},
		KeyContextPrompt:    {"Headline", "Name", "Results", "SearchQuery", "Source", "Text"},
		KeyProfilePrompt:    {"Headline", "Name", "Source", "Text", "URL"},
	}
	for key, placeholders := range want {
		prompt, err := Get(ResearchFile, key)
		require.NoError(t, err)
		assert.Equal(t, placeholders, Placeholders(prompt), key)
	}
}

func TestCaching(t *testing.T) {
	ClearCache()

	prompt1, err := Get(ResearchFile, KeyCareer)
	require.NoError(t, err)

	prompt2, err := Get(ResearchFile, KeyCareer)
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
