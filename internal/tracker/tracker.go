// Package tracker implements the visited countries bookkeeping of the household.
package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/familytravel/internal/database"
	"github.com/jon4hz/familytravel/internal/session"
)

// ErrNoActiveUser is returned when the active user id matches no stored user.
var ErrNoActiveUser = errors.New("no active user")

// AddResult describes the outcome of adding a country.
type AddResult int

const (
	// AddResultAdded means the visit was stored.
	AddResultAdded AddResult = iota
	// AddResultEmpty means the input was blank and nothing happened.
	AddResultEmpty
	// AddResultUnknownCountry means the input matched no country.
	AddResultUnknownCountry
	// AddResultDuplicate means the user already visited the country.
	AddResultDuplicate
)

func (r AddResult) String() string {
	switch r {
	case AddResultAdded:
		return "added"
	case AddResultEmpty:
		return "empty"
	case AddResultUnknownCountry:
		return "unknown_country"
	case AddResultDuplicate:
		return "duplicate"
	default:
		return fmt.Sprintf("AddResult(%d)", int(r))
	}
}

// Service ties the store, the resolver and the user roster together.
type Service struct {
	db       database.DB
	resolver *Resolver
	roster   *session.Roster
}

// New creates a tracker service.
func New(db database.DB, resolver *Resolver, roster *session.Roster) *Service {
	return &Service{
		db:       db,
		resolver: resolver,
		roster:   roster,
	}
}

// Roster returns the users snapshot maintained by the service.
func (s *Service) Roster() *session.Roster {
	return s.roster
}

// CurrentUser refreshes the roster from the store and returns the user with activeID.
func (s *Service) CurrentUser(ctx context.Context, activeID int64) (*database.User, error) {
	users, err := s.db.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	s.roster.Replace(users)

	user, ok := s.roster.Find(activeID)
	if !ok {
		return nil, ErrNoActiveUser
	}
	return &user, nil
}

// VisitedCountries returns the codes of all countries the user visited.
func (s *Service) VisitedCountries(ctx context.Context, userID int64) ([]string, error) {
	codes, err := s.db.GetVisitedCountryCodes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load visited countries: %w", err)
	}
	return codes, nil
}

// AddCountry normalizes raw, resolves it and records the visit for userID.
// Unknown countries and duplicates are reported through the result; the
// error is only set if the store failed.
func (s *Service) AddCountry(ctx context.Context, userID int64, raw string) (AddResult, error) {
	token := Normalize(raw)
	log.Debug("Input country normalized", "raw", raw, "token", token)
	if token == "" {
		return AddResultEmpty, nil
	}

	code, err := s.resolver.Resolve(ctx, token)
	if errors.Is(err, ErrCountryNotFound) {
		return AddResultUnknownCountry, nil
	}
	if err != nil {
		return 0, err
	}

	err = s.db.AddVisitedCountry(ctx, userID, code)
	if errors.Is(err, database.ErrDuplicate) {
		return AddResultDuplicate, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add visited country: %w", err)
	}

	log.Info("Added visited country", "user", userID, "code", code)
	return AddResultAdded, nil
}

// CreateUser stores a new user. Name and color are taken as given.
func (s *Service) CreateUser(ctx context.Context, name, color string) (*database.User, error) {
	user, err := s.db.CreateUser(ctx, name, color)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	log.Info("Created user", "id", user.ID, "name", user.Name, "color", user.Color)
	return user, nil
}
