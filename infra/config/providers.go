package config

import (
	"os"
	"strings"

	"github.com/furkanczay/better-pay/provider"
)

// LoadProviders builds the provider configuration from environment
// variables. Each registered provider declares its own env vars via
// GetRequiredConfig, so adding a provider needs no change here; the
// <NAME>_ENABLED switch turns it on.
func LoadProviders() provider.Config {
	return LoadProvidersFromRegistry(provider.DefaultRegistry)
}

// LoadProvidersFromRegistry is LoadProviders over an explicit registry
func LoadProvidersFromRegistry(registry *provider.Registry) provider.Config {
	cfg := provider.Config{
		Providers:       make(map[string]provider.ProviderEntry),
		DefaultProvider: GetEnv("DEFAULT_PROVIDER", ""),
	}

	for _, name := range registry.ProviderNames() {
		p, err := registry.CreateProvider(name)
		if err != nil {
			continue
		}

		entry := provider.ProviderEntry{
			Enabled: GetBoolEnv(strings.ToUpper(name)+"_ENABLED", false),
			Config:  make(map[string]string),
		}
		for _, field := range p.GetRequiredConfig() {
			if value := os.Getenv(field.EnvVar); value != "" {
				entry.Config[field.Key] = value
			}
		}
		cfg.Providers[name] = entry
	}

	return cfg
}
