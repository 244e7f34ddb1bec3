package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modernapi/modernapi/internal/models"
	"github.com/modernapi/modernapi/internal/rules"
	"github.com/modernapi/modernapi/internal/walker"
)

func writeFile(t *testing.T, root, rel, src string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(src), 0o644))
}

func fixtureProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "api/users.go", `package api

func registerUsers(r Router) {
	r.Get("/users", listUsers)
	r.Post("/v1/users", createUser,
		option.Tags("users"),
		option.ResponseModel(User{}),
	)
}
`)
	writeFile(t, root, "api/orders.go", `package api

func registerOrders(mux *ServeMux) {
	mux.HandleFunc("GET /v1/orders", handleOrders)
}
`)
	writeFile(t, root, "api/broken.go", `package api

func register( {
`)
	writeFile(t, root, "pkg/broken.go", `package pkg

type Unclosed struct {
`)
	return root
}

func newEngine(workers int) *Engine {
	return New(walker.New(nil, nil), rules.Registry(nil), workers, zerolog.Nop())
}

func TestRun_AuditsProject(t *testing.T) {
	root := fixtureProject(t)

	report, err := newEngine(4).Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 3, report.RoutesAnalyzed)
	require.Len(t, report.RouteScores, 3)

	// One warning per malformed file, in path order, nothing fatal.
	require.Len(t, report.Warnings, 2)
	assert.Equal(t, models.WarningParse, report.Warnings[0].Kind)
	assert.Equal(t, "api/broken.go", report.Warnings[0].FilePath)
	assert.Equal(t, "pkg/broken.go", report.Warnings[1].FilePath)

	// Route scores are 45, 90 and 60; the mean is exactly 65.
	assert.Equal(t, 65, report.OverallScore)
}

func TestRun_DeterministicAcrossWorkerCounts(t *testing.T) {
	root := fixtureProject(t)

	serial, err := newEngine(1).Run(context.Background(), root)
	require.NoError(t, err)

	// Worker-completion order varies between runs; nothing ordered may
	// leak into the report, so several parallel runs must all match the
	// serial baseline.
	for run := 0; run < 5; run++ {
		parallel, err := newEngine(8).Run(context.Background(), root)
		require.NoError(t, err)

		assert.Equal(t, serial.OverallScore, parallel.OverallScore)
		require.Equal(t, len(serial.RouteScores), len(parallel.RouteScores))
		for i := range serial.RouteScores {
			assert.Equal(t, serial.RouteScores[i].Route, parallel.RouteScores[i].Route)
			assert.Equal(t, serial.RouteScores[i].Score, parallel.RouteScores[i].Score)
			assert.Equal(t, serial.RouteScores[i].Findings, parallel.RouteScores[i].Findings)
		}
		assert.Equal(t, serial.Breakdown, parallel.Breakdown)
		assert.Equal(t, serial.Warnings, parallel.Warnings)
	}
}

func TestRun_RouteOrdering(t *testing.T) {
	root := fixtureProject(t)

	report, err := newEngine(4).Run(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, report.RouteScores, 3)

	assert.Equal(t, "api/orders.go", report.RouteScores[0].Route.FilePath)
	assert.Equal(t, "api/users.go", report.RouteScores[1].Route.FilePath)
	assert.Equal(t, "api/users.go", report.RouteScores[2].Route.FilePath)
	assert.Less(t, report.RouteScores[1].Route.LineNumber, report.RouteScores[2].Route.LineNumber)
}

func TestRun_MissingRoot(t *testing.T) {
	_, err := newEngine(1).Run(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, walker.ErrRootNotFound)
}

func TestRun_EmptyProjectScoresHundred(t *testing.T) {
	report, err := newEngine(1).Run(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 100, report.OverallScore)
	assert.Zero(t, report.RoutesAnalyzed)
}

func TestRun_CancelledContext(t *testing.T) {
	root := fixtureProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newEngine(1).Run(ctx, root)
	assert.Error(t, err)
}
