package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderOpenAI, config.Provider)
	assert.Equal(t, "gpt-4.1-nano", config.GetModel(TierLite))
	assert.Equal(t, "gpt-4.1-mini", config.GetModel(TierStandard))
	assert.Equal(t, "gpt-4.1", config.GetModel(TierAdvanced))
}

func TestDefaultGeminiConfig(t *testing.T) {
	config := DefaultGeminiConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
}

func TestDefaultConfigFor(t *testing.T) {
	assert.Equal(t, ProviderGemini, DefaultConfigFor(ProviderGemini).Provider)
	assert.Equal(t, ProviderOpenAI, DefaultConfigFor(ProviderOpenAI).Provider)
	assert.Nil(t, DefaultConfigFor("anthropic"))
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	// Unknown tier should fallback to TierStandard, then TierLite
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyModelNameFallsBack(t *testing.T) {
	config := &Config{
		Models: map[ModelTier]string{
			TierAdvanced: "",
			TierStandard: "standard-model",
		},
	}

	assert.Equal(t, "standard-model", config.GetModel(TierAdvanced))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{},
	}

	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestTemperature_DefaultsWhenUnset(t *testing.T) {
	assert.Equal(t, DefaultTemperature, (&Config{}).temperature())
	assert.Equal(t, float32(0.2), (&Config{Temperature: 0.2}).temperature())
}
