// Package postgres implements database.DB on top of a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jon4hz/familytravel/internal/database"
)

var _ database.DB = (*Store)(nil)

// Store implements database.DB using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to postgres, runs the migrations and returns the store.
func New(ctx context.Context, cfg *PoolConfig) (*Store, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return NewStore(pool), nil
}

// NewStore wraps an existing pool. The schema must already exist.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) CreateUser(ctx context.Context, name, color string) (*database.User, error) {
	var u database.User
	err := s.pool.QueryRow(ctx,
		"INSERT INTO users (name, color) VALUES ($1, $2) RETURNING id, name, color",
		name, color,
	).Scan(&u.ID, &u.Name, &u.Color)
	if err != nil {
		log.Error("failed to create user", "error", err)
		return nil, mapPostgresError(err)
	}

	log.Debug("Created user", "id", u.ID, "name", u.Name)
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*database.User, error) {
	var u database.User
	err := s.pool.QueryRow(ctx,
		"SELECT id, name, color FROM users WHERE id = $1",
		id,
	).Scan(&u.ID, &u.Name, &u.Color)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return &u, nil
}

func (s *Store) GetAllUsers(ctx context.Context) ([]database.User, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, name, color FROM users ORDER BY id")
	if err != nil {
		return nil, mapPostgresError(err)
	}
	users, err := pgx.CollectRows(rows, pgx.RowToStructByPos[database.User])
	if err != nil {
		log.Error("failed to get all users", "error", err)
		return nil, mapPostgresError(err)
	}
	return users, nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	return s.count(ctx, "users")
}

func (s *Store) GetCountryByCode(ctx context.Context, code string) (*database.Country, error) {
	var c database.Country
	err := s.pool.QueryRow(ctx,
		"SELECT id, country_code, country_name FROM countries WHERE UPPER(country_code) = UPPER($1) LIMIT 1",
		code,
	).Scan(&c.ID, &c.Code, &c.Name)
	if err != nil {
		err = mapPostgresError(err)
		if !errors.Is(err, database.ErrNotFound) {
			log.Error("failed to get country by code", "code", code, "error", err)
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) FindCountriesByName(ctx context.Context, fragment string) ([]database.Country, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, country_code, country_name
		FROM countries
		WHERE LOWER(country_name) LIKE $1 ESCAPE '\'
		ORDER BY LENGTH(country_name), country_name, country_code`,
		database.ContainsPattern(fragment),
	)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	countries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[database.Country])
	if err != nil {
		log.Error("failed to find countries by name", "fragment", fragment, "error", err)
		return nil, mapPostgresError(err)
	}
	return countries, nil
}

func (s *Store) CountCountries(ctx context.Context) (int64, error) {
	return s.count(ctx, "countries")
}

// CreateCountries inserts all countries in a single batch, skipping existing codes.
func (s *Store) CreateCountries(ctx context.Context, countries []database.Country) error {
	if len(countries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range countries {
		batch.Queue(
			"INSERT INTO countries (country_code, country_name) VALUES ($1, $2) ON CONFLICT (country_code) DO NOTHING",
			c.Code, c.Name,
		)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		log.Error("failed to create countries", "error", err)
		return mapPostgresError(err)
	}
	return nil
}

func (s *Store) AddVisitedCountry(ctx context.Context, userID int64, countryCode string) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO user_visited_countries (country_code, user_id) VALUES ($1, $2)",
		countryCode, userID,
	)
	if err != nil {
		err = mapPostgresError(err)
		if !errors.Is(err, database.ErrDuplicate) {
			log.Error("failed to add visited country", "user", userID, "code", countryCode, "error", err)
		}
		return err
	}
	return nil
}

func (s *Store) GetVisitedCountryCodes(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT country_code FROM user_visited_countries WHERE user_id = $1 ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		log.Error("failed to get visited countries", "user", userID, "error", err)
		return nil, mapPostgresError(err)
	}
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}

func (s *Store) GetStats(ctx context.Context) (*database.Stats, error) {
	var stats database.Stats
	var err error

	if stats.Users, err = s.count(ctx, "users"); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if stats.Countries, err = s.count(ctx, "countries"); err != nil {
		return nil, fmt.Errorf("failed to count countries: %w", err)
	}
	if stats.Visits, err = s.count(ctx, "user_visited_countries"); err != nil {
		return nil, fmt.Errorf("failed to count visits: %w", err)
	}

	var top database.User
	err = s.pool.QueryRow(ctx, `
		SELECT u.id, u.name, u.color, COUNT(*) AS visits
		FROM user_visited_countries v
		JOIN users u ON u.id = v.user_id
		GROUP BY u.id, u.name, u.color
		ORDER BY visits DESC, u.id
		LIMIT 1`,
	).Scan(&top.ID, &top.Name, &top.Color, &stats.TopUserVisits)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to find top user: %w", mapPostgresError(err))
	default:
		stats.TopUser = &top
	}

	return &stats, nil
}

// count returns the number of rows in table. table is never user input.
func (s *Store) count(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, mapPostgresError(err)
	}
	return n, nil
}
