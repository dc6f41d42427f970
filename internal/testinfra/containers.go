// Package testinfra starts throwaway backends for integration tests.
// Every helper skips the test under -short and terminates its container
// through t.Cleanup.
package testinfra

import (
	"context"
	"fmt"
	"testing"

	"github.com/ferdian3456/staffroster/db"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	MinioUser     = "minioadmin"
	MinioPassword = "minioadmin"
)

func skipShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// StartPostgres runs postgres with the documents schema applied and
// returns its connection string.
func StartPostgres(ctx context.Context, t *testing.T) string {
	t.Helper()
	skipShort(t)

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("staffroster_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	require.NoError(t, err, "failed to start postgres")
	t.Cleanup(func() { _ = pgContainer.Terminate(context.Background()) })

	pgURL, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get postgres connection string")

	require.NoError(t, db.Migrate(pgURL), "failed to run migrations")

	t.Logf("PostgreSQL started at: %s", pgURL)
	return pgURL
}

// StartRedis runs redis and returns its host:port address.
func StartRedis(ctx context.Context, t *testing.T) string {
	t.Helper()
	skipShort(t)

	redisContainer, err := redis.Run(ctx,
		"redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections"),
		),
	)
	require.NoError(t, err, "failed to start redis")
	t.Cleanup(func() { _ = redisContainer.Terminate(context.Background()) })

	redisHost, err := redisContainer.Host(ctx)
	require.NoError(t, err)

	redisPort, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)

	redisURL := fmt.Sprintf("%s:%s", redisHost, redisPort.Port())
	t.Logf("Redis started at: %s", redisURL)
	return redisURL
}

// StartMinIO runs a minio server and returns its host:port endpoint.
func StartMinIO(ctx context.Context, t *testing.T) string {
	t.Helper()
	skipShort(t)

	minioContainer, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image: "minio/minio:latest",
				Cmd:   []string{"server", "/data"},
				Env: map[string]string{
					"MINIO_ROOT_USER":     MinioUser,
					"MINIO_ROOT_PASSWORD": MinioPassword,
				},
				ExposedPorts: []string{"9000/tcp"},
				WaitingFor:   wait.ForHTTP("/minio/health/live").WithPort("9000/tcp"),
			},
			Started: true,
		},
	)
	require.NoError(t, err, "failed to start minio")
	t.Cleanup(func() { _ = minioContainer.Terminate(context.Background()) })

	minioHost, err := minioContainer.Host(ctx)
	require.NoError(t, err)

	minioPort, err := minioContainer.MappedPort(ctx, "9000")
	require.NoError(t, err)

	minioURL := fmt.Sprintf("%s:%s", minioHost, minioPort.Port())
	t.Logf("MinIO started at: %s", minioURL)
	return minioURL
}
