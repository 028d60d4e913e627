package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// DB is implemented by every store backend.
type DB interface {
	UserDB
	CountryDB
	VisitDB

	Ping(ctx context.Context) error
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

type UserDB interface {
	CreateUser(ctx context.Context, name, color string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetAllUsers(ctx context.Context) ([]User, error)
	CountUsers(ctx context.Context) (int64, error)
}

type CountryDB interface {
	// GetCountryByCode matches the country code case-insensitively.
	GetCountryByCode(ctx context.Context, code string) (*Country, error)
	// FindCountriesByName returns all countries whose name contains fragment,
	// ignoring case. Shorter names come first, ties are ordered by name and code.
	FindCountriesByName(ctx context.Context, fragment string) ([]Country, error)
	CountCountries(ctx context.Context) (int64, error)
	// CreateCountries inserts countries, skipping codes that already exist.
	CreateCountries(ctx context.Context, countries []Country) error
}

type VisitDB interface {
	// AddVisitedCountry returns ErrDuplicate if the user already visited the country.
	AddVisitedCountry(ctx context.Context, userID int64, countryCode string) error
	GetVisitedCountryCodes(ctx context.Context, userID int64) ([]string, error)
}

// Stats is a summary of the store contents.
type Stats struct {
	Users     int64
	Countries int64
	Visits    int64
	// TopUser is the user with the most visited countries, nil if nobody visited anything.
	TopUser       *User
	TopUserVisits int64
}

var _ DB = (*Client)(nil) // Ensure Client implements DB

// Client wraps the gorm.DB instance.
type Client struct {
	db *gorm.DB
}

// New opens the sqlite database at dbpath and performs migrations.
func New(dbpath string) (*Client, error) {
	db, err := gorm.Open(sqlite.Open(dbpath), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log.StandardLog(), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	// a single connection keeps writes serialized and in-memory databases coherent
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&User{},
		&Country{},
		&VisitedCountry{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Client{db: db}, nil
}

// Ping verifies the database connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying database connection.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetStats returns row counts for all tables and the most travelled user.
func (c *Client) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	db := c.db.WithContext(ctx)

	if err := db.Model(&User{}).Count(&stats.Users).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Model(&Country{}).Count(&stats.Countries).Error; err != nil {
		return nil, fmt.Errorf("failed to count countries: %w", err)
	}
	if err := db.Model(&VisitedCountry{}).Count(&stats.Visits).Error; err != nil {
		return nil, fmt.Errorf("failed to count visits: %w", err)
	}

	var top struct {
		UserID int64
		Visits int64
	}
	res := db.Model(&VisitedCountry{}).
		Select("user_id, COUNT(*) AS visits").
		Group("user_id").
		Order("visits DESC, user_id").
		Limit(1).
		Scan(&top)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to find top user: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		user, err := c.GetUserByID(ctx, top.UserID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		stats.TopUser = user
		stats.TopUserVisits = top.Visits
	}

	return &stats, nil
}

// translateError maps gorm errors to the package sentinels.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		// drivers without error translation only report the constraint in the message
		strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	default:
		return err
	}
}
