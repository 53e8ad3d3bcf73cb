package search

import (
	"context"

	"github.com/pkg/errors"
)

// Provider names accepted by NewProvider
const (
	ProviderExa    = "exa"
	ProviderGoogle = "google"
)

// Config selects and configures a search provider.
type Config struct {
	Provider     string
	ExaAPIKey    string
	ExaEndpoint  string
	GoogleAPIKey string
	GoogleCX     string
}

// NewProvider builds the configured search provider. pages is only used by
// providers that do not return page text themselves.
func NewProvider(ctx context.Context, cfg Config, pages PageFetcher) (Provider, error) {
	switch cfg.Provider {
	case ProviderExa, "":
		var opts []ExaOption
		if cfg.ExaEndpoint != "" {
			opts = append(opts, WithEndpoint(cfg.ExaEndpoint))
		}
		client, err := NewExaClient(cfg.ExaAPIKey, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderGoogle:
		client, err := NewGoogleClient(ctx, cfg.GoogleAPIKey, cfg.GoogleCX, pages)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, errors.Errorf("unsupported search provider %q", cfg.Provider)
	}
}
