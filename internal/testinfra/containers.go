//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	PostgresImage = "postgres:16-alpine"
	RedisImage    = "redis:7-alpine"

	postgresPort = "5432/tcp"
	redisPort    = "6379/tcp"
)

// SkipIfNoDocker skips the test when no Docker daemon is reachable.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := exec.CommandContext(ctx, "docker", "info").Run(); err != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// StartPostgres runs an empty database and returns its DSN. The container is
// terminated when the test ends.
func StartPostgres(t *testing.T) string {
	t.Helper()
	SkipIfNoDocker(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        PostgresImage,
			ExposedPorts: []string{postgresPort},
			Env: map[string]string{
				"POSTGRES_USER":     "hotpot",
				"POSTGRES_PASSWORD": "hotpot",
				"POSTGRES_DB":       "hotpot",
			},
			// Postgres restarts once after init; the second line is the real one.
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort(postgresPort),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("create postgres container: %v", err)
	}
	t.Cleanup(func() { cleanupContainer(t, container) })

	port, err := container.MappedPort(ctx, postgresPort)
	if err != nil {
		t.Fatalf("get mapped port: %v", err)
	}
	return fmt.Sprintf("postgres://hotpot:hotpot@%s:%s/hotpot?sslmode=disable", containerHost(t, ctx, container), port.Port())
}

// StartRedis runs a redis server and returns its host:port.
func StartRedis(t *testing.T) string {
	t.Helper()
	SkipIfNoDocker(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        RedisImage,
			ExposedPorts: []string{redisPort},
			WaitingFor: wait.ForAll(
				wait.ForLog("Ready to accept connections"),
				wait.ForListeningPort(redisPort),
			).WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("create redis container: %v", err)
	}
	t.Cleanup(func() { cleanupContainer(t, container) })

	port, err := container.MappedPort(ctx, redisPort)
	if err != nil {
		t.Fatalf("get mapped port: %v", err)
	}
	return fmt.Sprintf("%s:%s", containerHost(t, ctx, container), port.Port())
}

func containerHost(t *testing.T, ctx context.Context, container testcontainers.Container) string {
	t.Helper()

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("get container host: %v", err)
	}
	return host
}

func cleanupContainer(t *testing.T, container testcontainers.Container) {
	if err := container.Terminate(context.Background()); err != nil {
		t.Logf("Warning: failed to terminate container: %v", err)
	}
}
