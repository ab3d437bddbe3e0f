package database

import (
	"context"
	"os"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SetupTestDatabase starts a throwaway postgres container and points
// SESSIONS_DATABASE_URL at it. Call it from TestMain before the first
// New(), which caches its connection. The returned teardown terminates
// the container.
func SetupTestDatabase() (func(context.Context) error, error) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("sessions_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, err
	}

	os.Setenv("SESSIONS_DATABASE_URL", connStr)

	return func(ctx context.Context) error {
		return container.Terminate(ctx)
	}, nil
}
