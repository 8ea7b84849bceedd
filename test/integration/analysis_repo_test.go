//go:build integration

// Package integration exercises the persistence layer against a real
// PostgreSQL instance.  Run with:
//
//	go test -tags integration ./test/integration/...
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/smartlex/lexml/internal/config"
	"github.com/smartlex/lexml/internal/domain/contract"
	"github.com/smartlex/lexml/internal/infrastructure/database/postgres"
	"github.com/smartlex/lexml/internal/infrastructure/database/postgres/repositories"
	"github.com/smartlex/lexml/internal/infrastructure/monitoring/logging"
)

func startPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "lexml",
				"POSTGRES_PASSWORD": "lexml",
				"POSTGRES_DB":       "lexml_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "lexml",
		Password:        "lexml",
		DBName:          "lexml_test",
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
		MigrationPath:   "../../migrations",
	}
}

func TestAnalysisRepoRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()
	log := logging.NewNopLogger()

	conn, err := postgres.NewConnection(ctx, startPostgres(t), log)
	require.NoError(t, err)
	t.Cleanup(conn.Close)
	require.NoError(t, conn.RunMigrations())

	repo := repositories.NewAnalysisRepo(conn.Pool(), log)

	first := &contract.Record{
		ID:             uuid.NewString(),
		Text:           "the seller shall deliver the goods",
		Classification: contract.LabelValid,
		RiskScore:      8,
		Strength:       contract.StrengthStrong,
		Findings:       []byte(`{"modal_verbs":{"shall":{"count":1,"weight":0.2}}}`),
		CreatedAt:      time.Now().UTC().Add(-time.Minute),
	}
	second := &contract.Record{
		ID:             uuid.NewString(),
		Text:           "this agreement is non-binding and unenforceable",
		Classification: contract.LabelRisky,
		RiskScore:      75,
		Strength:       contract.StrengthWeak,
		Findings:       []byte(`{}`),
		CreatedAt:      time.Now().UTC(),
	}

	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	entries, err := repo.RecentHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, contract.LabelRisky, entries[0].Classification)
	assert.Equal(t, 75, entries[0].RiskScore)
	assert.Equal(t, len(second.Text), entries[0].TextLength)

	assert.Equal(t, first.ID, entries[1].ID)
	assert.Equal(t, contract.StrengthStrong, entries[1].Strength)
}

func TestAnalysisRepoHistoryLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()
	log := logging.NewNopLogger()

	conn, err := postgres.NewConnection(ctx, startPostgres(t), log)
	require.NoError(t, err)
	t.Cleanup(conn.Close)
	require.NoError(t, conn.RunMigrations())

	repo := repositories.NewAnalysisRepo(conn.Pool(), log)

	for i := 0; i < 5; i++ {
		rec := &contract.Record{
			ID:             uuid.NewString(),
			Text:           "contract body",
			Classification: contract.LabelValid,
			RiskScore:      i * 10,
			Strength:       contract.StrengthModerate,
			Findings:       []byte(`{}`),
			CreatedAt:      time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Save(ctx, rec))
	}

	entries, err := repo.RecentHistory(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, 40, entries[0].RiskScore)
}
