package mock

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/jon4hz/familytravel/internal/database"
	"github.com/samber/lo"
)

var _ database.DB = (*MockDB)(nil)

// MockDB is a mock implementation of database.DB for testing.
type MockDB struct {
	mu sync.RWMutex

	users      []database.User
	nextUserID int64

	countries     map[string]database.Country
	nextCountryID int64

	visits map[int64][]string

	// Call counters
	CountryLookups int

	// Error simulation
	PingError                   error
	CreateUserError             error
	GetUserByIDError            error
	GetAllUsersError            error
	GetCountryByCodeError       error
	FindCountriesByNameError    error
	CreateCountriesError        error
	AddVisitedCountryError      error
	GetVisitedCountryCodesError error
}

// NewMockDB creates a new MockDB instance.
func NewMockDB() *MockDB {
	m := &MockDB{}
	m.Reset()
	return m
}

// Reset clears all data and errors from the mock database.
func (m *MockDB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = nil
	m.nextUserID = 1
	m.countries = make(map[string]database.Country)
	m.nextCountryID = 1
	m.visits = make(map[int64][]string)
	m.CountryLookups = 0

	m.PingError = nil
	m.CreateUserError = nil
	m.GetUserByIDError = nil
	m.GetAllUsersError = nil
	m.GetCountryByCodeError = nil
	m.FindCountriesByNameError = nil
	m.CreateCountriesError = nil
	m.AddVisitedCountryError = nil
	m.GetVisitedCountryCodesError = nil
}

func (m *MockDB) Ping(ctx context.Context) error {
	return m.PingError
}

func (m *MockDB) Close() error {
	return nil
}

// User operations

func (m *MockDB) CreateUser(ctx context.Context, name, color string) (*database.User, error) {
	if m.CreateUserError != nil {
		return nil, m.CreateUserError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u := database.User{ID: m.nextUserID, Name: name, Color: color}
	m.nextUserID++
	m.users = append(m.users, u)
	return &u, nil
}

func (m *MockDB) GetUserByID(ctx context.Context, id int64) (*database.User, error) {
	if m.GetUserByIDError != nil {
		return nil, m.GetUserByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := lo.Find(m.users, func(u database.User) bool { return u.ID == id })
	if !ok {
		return nil, database.ErrNotFound
	}
	return &u, nil
}

func (m *MockDB) GetAllUsers(ctx context.Context) ([]database.User, error) {
	if m.GetAllUsersError != nil {
		return nil, m.GetAllUsersError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.users), nil
}

func (m *MockDB) CountUsers(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

// Country operations

func (m *MockDB) GetCountryByCode(ctx context.Context, code string) (*database.Country, error) {
	if m.GetCountryByCodeError != nil {
		return nil, m.GetCountryByCodeError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.CountryLookups++

	c, ok := m.countries[strings.ToUpper(code)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &c, nil
}

func (m *MockDB) FindCountriesByName(ctx context.Context, fragment string) ([]database.Country, error) {
	if m.FindCountriesByNameError != nil {
		return nil, m.FindCountriesByNameError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.CountryLookups++

	needle := strings.ToLower(fragment)
	matches := lo.Filter(lo.Values(m.countries), func(c database.Country, _ int) bool {
		return strings.Contains(strings.ToLower(c.Name), needle)
	})
	slices.SortFunc(matches, func(a, b database.Country) int {
		return cmp.Or(
			cmp.Compare(len(a.Name), len(b.Name)),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.Code, b.Code),
		)
	})
	return matches, nil
}

func (m *MockDB) CountCountries(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.countries)), nil
}

func (m *MockDB) CreateCountries(ctx context.Context, countries []database.Country) error {
	if m.CreateCountriesError != nil {
		return m.CreateCountriesError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range countries {
		code := strings.ToUpper(c.Code)
		if _, exists := m.countries[code]; exists {
			continue
		}
		c.ID = m.nextCountryID
		c.Code = code
		m.nextCountryID++
		m.countries[code] = c
	}
	return nil
}

// Visit operations

func (m *MockDB) AddVisitedCountry(ctx context.Context, userID int64, countryCode string) error {
	if m.AddVisitedCountryError != nil {
		return m.AddVisitedCountryError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.countries[countryCode]; !ok {
		return fmt.Errorf("%w: unknown country %s", database.ErrNotFound, countryCode)
	}
	if lo.Contains(m.visits[userID], countryCode) {
		return fmt.Errorf("%w: %s already visited by user %d", database.ErrDuplicate, countryCode, userID)
	}
	m.visits[userID] = append(m.visits[userID], countryCode)
	return nil
}

func (m *MockDB) GetVisitedCountryCodes(ctx context.Context, userID int64) ([]string, error) {
	if m.GetVisitedCountryCodesError != nil {
		return nil, m.GetVisitedCountryCodesError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	codes := slices.Clone(m.visits[userID])
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}

func (m *MockDB) GetStats(ctx context.Context) (*database.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &database.Stats{
		Users:     int64(len(m.users)),
		Countries: int64(len(m.countries)),
	}
	for _, u := range m.users {
		n := int64(len(m.visits[u.ID]))
		stats.Visits += n
		if n > stats.TopUserVisits {
			top := u
			stats.TopUser = &top
			stats.TopUserVisits = n
		}
	}
	return stats, nil
}
