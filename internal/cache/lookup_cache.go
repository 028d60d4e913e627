package cache

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/familytravel/internal/config"
)

// Cache key prefixes.
const (
	CountryCodeCachePrefix = "country-code-"
)

// LookupCache holds the caches used by the country resolver.
type LookupCache struct {
	// CountryCodes maps normalized user input to a resolved country code.
	CountryCodes *PrefixedCache[string]
}

func NewLookupCache(cfg *config.CacheConfig) *LookupCache {
	if cfg == nil {
		cfg = &config.CacheConfig{Type: config.CacheTypeMemory}
	}
	return &LookupCache{
		CountryCodes: NewPrefixedCache[string](
			newCacheInstanceByType(cfg),
			cfg.Type,
			CountryCodeCachePrefix,
		),
	}
}

// ClearAll drops every cached lookup.
func (l *LookupCache) ClearAll(ctx context.Context) error {
	if err := l.CountryCodes.Clear(ctx); err != nil {
		log.Errorf("failed to clear country code cache: %v", err)
		return err
	}
	log.Debug("Cleared country code cache")
	return nil
}
