//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dmrimawi/patroid/pattern"
	"github.com/dmrimawi/patroid/report"
	"github.com/dmrimawi/patroid/store"
	"github.com/dmrimawi/patroid/subpattern"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("patroid"),
		postgres.WithUsername("patroid"),
		postgres.WithPassword("patroid"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestSaveAndQueryReportRoundTrips(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	s, err := store.Open(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.ApplyDDL(ctx))

	occurrences := map[string][]pattern.Occurrence{
		pattern.Singleton: {{Pattern: pattern.Singleton, Witnesses: map[string]any{"SASS": subpattern.SASS{X: "Registry"}}}},
	}
	r := report.Build(uuid.New(), "demo-project", occurrences, nil)

	started := time.Now().Add(-time.Second)
	finished := time.Now()
	require.NoError(t, s.SaveReport(ctx, r, started, finished))

	latest, found, err := s.LatestRunForProject(ctx, "demo-project")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "demo-project", latest.Project)

	occs, err := s.OccurrencesForRun(ctx, latest.RunID)
	require.NoError(t, err)
	require.Len(t, occs[pattern.Singleton], 1)
}
