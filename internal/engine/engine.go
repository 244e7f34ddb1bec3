// Package engine orchestrates the audit pipeline: walk the project, parse
// each candidate file, evaluate the rubric per route and aggregate the
// result into a ProjectReport.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/modernapi/modernapi/internal/extractor"
	"github.com/modernapi/modernapi/internal/models"
	"github.com/modernapi/modernapi/internal/rules"
	"github.com/modernapi/modernapi/internal/scoring"
	"github.com/modernapi/modernapi/internal/walker"
)

// Engine runs audits. Extraction and scoring are pure and per-file, so
// files are processed on a bounded worker pool; the aggregator re-sorts
// results deterministically, so completion order never leaks into reports.
type Engine struct {
	walker   *walker.Walker
	registry []rules.Rule
	workers  int
	log      zerolog.Logger
}

// New creates an engine. workers <= 0 falls back to serial processing.
func New(w *walker.Walker, registry []rules.Rule, workers int, log zerolog.Logger) *Engine {
	if workers <= 0 {
		workers = 1
	}
	return &Engine{walker: w, registry: registry, workers: workers, log: log}
}

// Run audits the project at root. Only a missing root aborts; unreadable
// and unparsable files degrade to warnings on the report.
func (e *Engine) Run(ctx context.Context, root string) (*models.ProjectReport, error) {
	files, warnings, err := e.walker.Walk(root)
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("root", root).Int("files", len(files)).Msg("scanning project")

	var mu sync.Mutex
	var scores []models.RouteScore

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			fileScores, fileWarnings := e.auditFile(root, file)

			mu.Lock()
			scores = append(scores, fileScores...)
			warnings = append(warnings, fileWarnings...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("audit cancelled: %w", err)
	}

	ids := make([]string, len(e.registry))
	for i, rule := range e.registry {
		ids[i] = rule.ID
	}

	report := scoring.Aggregate(root, scores, ids, warnings)
	e.log.Info().
		Int("routes", report.RoutesAnalyzed).
		Int("score", report.OverallScore).
		Int("warnings", len(report.Warnings)).
		Msg("audit complete")
	return report, nil
}

// auditFile extracts and scores one file. All failures are reported as
// warnings; a bad file contributes zero routes and the run continues.
func (e *Engine) auditFile(root, file string) ([]models.RouteScore, []models.Warning) {
	src, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(file)))
	if err != nil {
		e.log.Warn().Str("file", file).Err(err).Msg("skipping unreadable file")
		return nil, []models.Warning{{
			Kind:     models.WarningFileRead,
			FilePath: file,
			Message:  err.Error(),
		}}
	}

	routes, err := extractor.ExtractFile(file, src)
	if err != nil {
		e.log.Warn().Str("file", file).Err(err).Msg("skipping unparsable file")
		return nil, []models.Warning{{
			Kind:     models.WarningParse,
			FilePath: file,
			Message:  err.Error(),
		}}
	}

	var scores []models.RouteScore
	var warnings []models.Warning
	for _, route := range routes {
		findings, ruleWarnings := rules.Evaluate(route, e.registry, e.log)
		warnings = append(warnings, ruleWarnings...)
		scores = append(scores, scoring.ScoreRoute(route, findings))
	}
	return scores, warnings
}
