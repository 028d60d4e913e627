//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/jon4hz/familytravel/internal/database"
	"github.com/jon4hz/familytravel/internal/database/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgres starts a PostgreSQL container and returns a migrated store.
func setupPostgres(t *testing.T, ctx context.Context) *Store {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "world",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	store, err := New(ctx, &PoolConfig{
		ConnString: fmt.Sprintf("postgres://test:test@%s:%s/world?sslmode=disable", host, port.Port()),
		MaxConns:   4,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

func TestStore_Integration(t *testing.T) {
	ctx := context.Background()
	store := setupPostgres(t, ctx)

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, seed.Run(ctx, store))

	t.Run("seeded users", func(t *testing.T) {
		users, err := store.GetAllUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "Angela", users[0].Name)
		assert.Equal(t, "Jack", users[1].Name)
	})

	t.Run("country by code", func(t *testing.T) {
		country, err := store.GetCountryByCode(ctx, "fr")
		require.NoError(t, err)
		assert.Equal(t, "FR", country.Code)

		_, err = store.GetCountryByCode(ctx, "XX")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("country by name prefers shortest", func(t *testing.T) {
		countries, err := store.FindCountriesByName(ctx, "United")
		require.NoError(t, err)
		require.NotEmpty(t, countries)
		assert.Equal(t, "US", countries[0].Code)
	})

	t.Run("visited countries", func(t *testing.T) {
		user, err := store.CreateUser(ctx, "Sam", "red")
		require.NoError(t, err)

		require.NoError(t, store.AddVisitedCountry(ctx, user.ID, "FR"))
		require.NoError(t, store.AddVisitedCountry(ctx, user.ID, "DE"))

		err = store.AddVisitedCountry(ctx, user.ID, "FR")
		assert.ErrorIs(t, err, database.ErrDuplicate)

		codes, err := store.GetVisitedCountryCodes(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"FR", "DE"}, codes)

		err = store.AddVisitedCountry(ctx, 9999, "FR")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("stats", func(t *testing.T) {
		stats, err := store.GetStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(249), stats.Countries)
		assert.Equal(t, int64(3), stats.Users)
		require.NotNil(t, stats.TopUser)
		assert.Equal(t, "Sam", stats.TopUser.Name)
	})

	t.Run("migrations are idempotent", func(t *testing.T) {
		require.NoError(t, Migrate(ctx, store.pool))
	})
}
