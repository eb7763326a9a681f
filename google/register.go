package google

import (
	"github.com/randalmurphal/enc/provider"
)

func init() {
	provider.Register(Name, newFromProviderConfig)
}

// newFromProviderConfig creates a Client from a provider.Config.
// This is the factory function registered with the provider registry.
func newFromProviderConfig(cfg provider.Config) (provider.Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, provider.NewError(Name, "configure", provider.ErrCredentialsNotFound)
	}

	return New(cfg.APIKey, cfg.Model,
		WithBaseURL(cfg.BaseURL),
		WithHTTPClient(cfg.HTTP()),
		WithAudit(cfg.Sink()),
		WithLogger(cfg.Log()),
	), nil
}
