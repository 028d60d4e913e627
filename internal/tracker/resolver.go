package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/familytravel/internal/cache"
	"github.com/jon4hz/familytravel/internal/database"
)

// ErrCountryNotFound is returned when no country matches the input.
var ErrCountryNotFound = errors.New("country not found")

// Resolver maps a normalized token to a country code.
type Resolver struct {
	db    database.CountryDB
	cache *cache.PrefixedCache[string]
}

// NewResolver creates a resolver. The cache is optional.
func NewResolver(db database.CountryDB, lookupCache *cache.LookupCache) *Resolver {
	r := &Resolver{db: db}
	if lookupCache != nil {
		r.cache = lookupCache.CountryCodes
	}
	return r
}

// Resolve returns the country code for token.
// Tokens of up to three characters must equal a country code (ignoring case).
// Longer tokens match any country whose name contains them; when several
// countries match, the one with the shortest name wins.
func (r *Resolver) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrCountryNotFound
	}

	if r.cache != nil {
		if code, err := r.cache.Get(ctx, token); err == nil && code != "" {
			log.Debug("Cache hit for country lookup", "token", token, "code", code)
			return code, nil
		}
	}

	code, err := r.lookup(ctx, token)
	if err != nil {
		return "", err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, token, code); err != nil {
			log.Warn("failed to cache country lookup", "token", token, "error", err)
		}
	}
	return code, nil
}

func (r *Resolver) lookup(ctx context.Context, token string) (string, error) {
	if IsCode(token) {
		country, err := r.db.GetCountryByCode(ctx, token)
		if errors.Is(err, database.ErrNotFound) {
			return "", ErrCountryNotFound
		}
		if err != nil {
			return "", fmt.Errorf("failed to look up country code: %w", err)
		}
		return country.Code, nil
	}

	countries, err := r.db.FindCountriesByName(ctx, token)
	if err != nil {
		return "", fmt.Errorf("failed to look up country name: %w", err)
	}
	if len(countries) == 0 {
		return "", ErrCountryNotFound
	}
	if len(countries) > 1 {
		log.Debug("Country name is ambiguous, using shortest match",
			"token", token, "matches", len(countries), "code", countries[0].Code)
	}
	return countries[0].Code, nil
}
