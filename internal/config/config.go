// Package config loads and validates application configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// RESEARCHER_* environment variables (RESEARCHER_LLM__API_KEY -> llm.api_key),
// then the provider-specific variables such as OPENAI_API_KEY for keys that
// are still empty.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jonathan/person-researcher/internal/dossier"
	"github.com/jonathan/person-researcher/internal/fetch"
	"github.com/jonathan/person-researcher/internal/llm"
	"github.com/jonathan/person-researcher/internal/search"
	"github.com/jonathan/person-researcher/internal/telemetry"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables mapped onto config keys.
const EnvPrefix = "RESEARCHER_"

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	LLM       LLMConfig       `koanf:"llm"`
	Search    SearchConfig    `koanf:"search"`
	Fetch     FetchConfig     `koanf:"fetch"`
	Dossier   DossierConfig   `koanf:"dossier"`
	Database  DatabaseConfig  `koanf:"database"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig holds slog settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

// LLMConfig selects the completion provider and its models.
type LLMConfig struct {
	Provider      string  `koanf:"provider"` // openai, gemini
	APIKey        string  `koanf:"api_key"`
	BaseURL       string  `koanf:"base_url"`
	Temperature   float64 `koanf:"temperature"`
	LiteModel     string  `koanf:"lite_model"`
	StandardModel string  `koanf:"standard_model"`
	AdvancedModel string  `koanf:"advanced_model"`
}

// SearchConfig selects the web search provider.
type SearchConfig struct {
	Provider     string `koanf:"provider"` // exa, google
	ExaAPIKey    string `koanf:"exa_api_key"`
	ExaEndpoint  string `koanf:"exa_endpoint"`
	GoogleAPIKey string `koanf:"google_api_key"`
	GoogleCX     string `koanf:"google_cx"`
}

// FetchConfig controls page fetching for search providers without page text.
type FetchConfig struct {
	Timeout    time.Duration `koanf:"timeout"`
	CacheTTL   time.Duration `koanf:"cache_ttl"`
	UseBrowser bool          `koanf:"use_browser"`
}

// DossierConfig bounds the dossier fan-out.
type DossierConfig struct {
	SectionTimeout time.Duration `koanf:"section_timeout"`
	Concurrency    int           `koanf:"concurrency"`
}

// DatabaseConfig configures optional persistence. An empty URL disables it.
type DatabaseConfig struct {
	URL     string `koanf:"url"`
	Migrate bool   `koanf:"migrate"`
}

// TelemetryConfig selects the OpenTelemetry exporter.
type TelemetryConfig struct {
	Exporter     string `koanf:"exporter"` // none, stdout, otlp
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure"`
}

func defaults() map[string]any {
	openai := llm.DefaultOpenAIConfig()
	return map[string]any{
		"server.port":             8080,
		"server.read_timeout":     30 * time.Second,
		"server.write_timeout":    300 * time.Second,
		"server.shutdown_timeout": 30 * time.Second,

		"log.level":  "info",
		"log.format": "text",

		"llm.provider":       string(llm.ProviderOpenAI),
		"llm.temperature":    float64(llm.DefaultTemperature),
		"llm.lite_model":     openai.Models[llm.TierLite],
		"llm.standard_model": openai.Models[llm.TierStandard],
		"llm.advanced_model": openai.Models[llm.TierAdvanced],

		"search.provider": search.ProviderExa,

		"fetch.timeout":     fetch.DefaultOptions().Timeout,
		"fetch.cache_ttl":   fetch.DefaultCacheTTL,
		"fetch.use_browser": false,

		"dossier.section_timeout": dossier.DefaultConfig().SectionTimeout,
		"dossier.concurrency":     dossier.DefaultConfig().Concurrency,

		"database.migrate": true,

		"telemetry.exporter":      telemetry.ExporterNone,
		"telemetry.otlp_endpoint": "localhost:4317",
		"telemetry.otlp_insecure": true,
	}
}

// wellKnownEnv maps conventional environment variables onto config keys.
// They only fill keys that are still empty after the other layers.
var wellKnownEnv = []struct {
	key string
	env string
}{
	{"search.exa_api_key", "EXA_API_KEY"},
	{"search.google_api_key", "GOOGLE_API_KEY"},
	{"search.google_cx", "GOOGLE_CSE_ID"},
	{"database.url", "DATABASE_URL"},
}

// llmKeyEnv names the API key variable of each LLM provider.
var llmKeyEnv = map[string]string{
	string(llm.ProviderOpenAI): "OPENAI_API_KEY",
	string(llm.ProviderGemini): "GEMINI_API_KEY",
}

// Load builds the configuration. path may be empty to skip the YAML file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// 2. Load from ENV (RESEARCHER_LLM__API_KEY -> llm.api_key)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// 3. Conventional variables fill whatever is still empty
	fill := func(key, name string) error {
		if k.String(key) != "" {
			return nil
		}
		if value := os.Getenv(name); value != "" {
			return k.Set(key, value)
		}
		return nil
	}
	for _, e := range wellKnownEnv {
		if err := fill(e.key, e.env); err != nil {
			return nil, err
		}
	}
	if name, ok := llmKeyEnv[k.String("llm.provider")]; ok {
		if err := fill("llm.api_key", name); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyProviderModels()

	return &cfg, nil
}

// envKey maps RESEARCHER_SECTION__KEY to section.key.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// applyProviderModels swaps the default OpenAI model names for the selected
// provider's defaults when the provider is not OpenAI and no model was set.
func (c *Config) applyProviderModels() {
	defaultsFor := llm.DefaultConfigFor(llm.Provider(c.LLM.Provider))
	if defaultsFor == nil || defaultsFor.Provider == llm.ProviderOpenAI {
		return
	}
	openai := llm.DefaultOpenAIConfig()
	swap := func(model *string, tier llm.ModelTier) {
		if *model == "" || *model == openai.Models[tier] {
			*model = defaultsFor.Models[tier]
		}
	}
	swap(&c.LLM.LiteModel, llm.TierLite)
	swap(&c.LLM.StandardModel, llm.TierStandard)
	swap(&c.LLM.AdvancedModel, llm.TierAdvanced)
}

// Validate checks provider names, required keys and numeric ranges.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("config error: 'log.format' must be json or text, got %q", c.Log.Format)
	}

	if llm.DefaultConfigFor(llm.Provider(c.LLM.Provider)) == nil {
		return fmt.Errorf("config error: unsupported LLM provider %q", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("config error: 'llm.api_key' is required (or set %s)", llmKeyEnv[c.LLM.Provider])
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("config error: 'llm.temperature' must be between 0 and 2")
	}

	switch c.Search.Provider {
	case search.ProviderExa:
		if c.Search.ExaAPIKey == "" {
			return fmt.Errorf("config error: 'search.exa_api_key' is required (or set EXA_API_KEY)")
		}
	case search.ProviderGoogle:
		if c.Search.GoogleAPIKey == "" || c.Search.GoogleCX == "" {
			return fmt.Errorf("config error: 'search.google_api_key' and 'search.google_cx' are required (or set GOOGLE_API_KEY and GOOGLE_CSE_ID)")
		}
	default:
		return fmt.Errorf("config error: unsupported search provider %q", c.Search.Provider)
	}

	if c.Dossier.Concurrency < 0 {
		return fmt.Errorf("config error: 'dossier.concurrency' must be non-negative")
	}
	if c.Dossier.SectionTimeout < 0 || c.Fetch.Timeout < 0 || c.Fetch.CacheTTL < 0 {
		return fmt.Errorf("config error: timeouts must be non-negative")
	}

	switch c.Telemetry.Exporter {
	case "", telemetry.ExporterNone, telemetry.ExporterStdout, telemetry.ExporterOTLP:
	default:
		return fmt.Errorf("config error: unsupported telemetry exporter %q", c.Telemetry.Exporter)
	}

	return nil
}

// LLMClientConfig converts the LLM section for llm.NewClient.
func (c *Config) LLMClientConfig() *llm.Config {
	return &llm.Config{
		Provider: llm.Provider(c.LLM.Provider),
		Models: map[llm.ModelTier]string{
			llm.TierLite:     c.LLM.LiteModel,
			llm.TierStandard: c.LLM.StandardModel,
			llm.TierAdvanced: c.LLM.AdvancedModel,
		},
		BaseURL:     c.LLM.BaseURL,
		Temperature: float32(c.LLM.Temperature),
	}
}

// SearchProviderConfig converts the search section for search.NewProvider.
func (c *Config) SearchProviderConfig() search.Config {
	return search.Config{
		Provider:     c.Search.Provider,
		ExaAPIKey:    c.Search.ExaAPIKey,
		ExaEndpoint:  c.Search.ExaEndpoint,
		GoogleAPIKey: c.Search.GoogleAPIKey,
		GoogleCX:     c.Search.GoogleCX,
	}
}

// FetcherConfig converts the fetch section for fetch.NewCachedFetcher.
func (c *Config) FetcherConfig() *fetch.CachedFetcherConfig {
	options := fetch.DefaultOptions()
	if c.Fetch.Timeout > 0 {
		options.Timeout = c.Fetch.Timeout
	}
	return &fetch.CachedFetcherConfig{
		CacheTTL:   c.Fetch.CacheTTL,
		UseBrowser: c.Fetch.UseBrowser,
		Options:    options,
	}
}

// OrchestratorConfig converts the dossier section for dossier.New.
func (c *Config) OrchestratorConfig() dossier.Config {
	return dossier.Config{
		SectionTimeout: c.Dossier.SectionTimeout,
		Concurrency:    c.Dossier.Concurrency,
	}
}

// ExporterConfig converts the telemetry section for telemetry.Init.
func (c *Config) ExporterConfig() telemetry.Config {
	return telemetry.Config{
		Exporter:     c.Telemetry.Exporter,
		OTLPEndpoint: c.Telemetry.OTLPEndpoint,
		OTLPInsecure: c.Telemetry.OTLPInsecure,
	}
}
