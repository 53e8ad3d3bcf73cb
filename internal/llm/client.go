package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates free-form text using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON generates JSON content using the specified model tier
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateStructured generates JSON that conforms to schema
	GenerateStructured(ctx context.Context, prompt string, schema Schema, tier ModelTier) (string, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// Schema describes the JSON document a structured generation must produce.
type Schema struct {
	Name        string
	Description string
	Definition  json.RawMessage // JSON Schema document
	Strict      bool
}

// document returns the schema as a generic map without the keywords that
// structured-output endpoints reject.
func (s Schema) document() (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(s.Definition, &doc); err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", s.Name, err)
	}
	delete(doc, "$schema")
	delete(doc, "title")
	return doc, nil
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderOpenAI:
		client, err := NewOpenAIClient(config, apiKey)
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderGemini:
		client, err := NewGeminiClient(ctx, config, apiKey)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}
