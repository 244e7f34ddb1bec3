// Package scoring turns findings into route scores and route scores into
// the project-level maturity score.
package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/modernapi/modernapi/internal/models"
)

// BaseScore is the starting score of every route before penalties apply.
const BaseScore = 100

// ScoreRoute combines a route with its findings. The score is a pure
// function of the findings: clamp(base + sum(points), 0, 100).
func ScoreRoute(route models.Route, findings []models.Finding) models.RouteScore {
	total := BaseScore
	for _, f := range findings {
		total += f.Points
	}
	return models.RouteScore{
		Route:    route,
		Findings: findings,
		Score:    clamp(total, 0, 100),
	}
}

// Aggregate builds the final report from per-route scores. Route and
// warning order in the report depend only on their own fields; the caller
// may hand both in any order, including worker-pool completion order.
func Aggregate(root string, scores []models.RouteScore, registryIDs []string, warnings []models.Warning) *models.ProjectReport {
	sorted := make([]models.RouteScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Route.FilePath != sorted[j].Route.FilePath {
			return sorted[i].Route.FilePath < sorted[j].Route.FilePath
		}
		return sorted[i].Route.LineNumber < sorted[j].Route.LineNumber
	})

	sortedWarnings := make([]models.Warning, len(warnings))
	copy(sortedWarnings, warnings)
	sort.SliceStable(sortedWarnings, func(i, j int) bool {
		a, b := sortedWarnings[i], sortedWarnings[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Message < b.Message
	})

	return &models.ProjectReport{
		Tool:           models.ToolName,
		Version:        models.ToolVersion,
		Ruleset:        models.RulesetName,
		SchemaVersion:  models.SchemaVersion,
		RunID:          uuid.NewString(),
		Root:           root,
		GeneratedAt:    time.Now().UTC(),
		OverallScore:   overallScore(sorted),
		RoutesAnalyzed: len(sorted),
		RouteScores:    sorted,
		Breakdown:      breakdown(sorted, registryIDs),
		Warnings:       sortedWarnings,
	}
}

// overallScore is the arithmetic mean of route scores rounded half-up.
// A project with zero detected routes vacuously passes with 100.
func overallScore(scores []models.RouteScore) int {
	if len(scores) == 0 {
		return 100
	}
	sum := 0
	for _, s := range scores {
		sum += s.Score
	}
	mean := int(math.Floor(float64(sum)/float64(len(scores)) + 0.5))
	return clamp(mean, 0, 100)
}

// breakdown computes the project-wide pass fraction per rule, in rule
// registration order.
func breakdown(scores []models.RouteScore, registryIDs []string) []models.RuleBreakdown {
	passed := make(map[string]int, len(registryIDs))
	total := make(map[string]int, len(registryIDs))
	for _, s := range scores {
		for _, f := range s.Findings {
			total[f.RuleID]++
			if f.Passed {
				passed[f.RuleID]++
			}
		}
	}

	out := make([]models.RuleBreakdown, 0, len(registryIDs))
	for _, id := range registryIDs {
		b := models.RuleBreakdown{RuleID: id, Passed: passed[id], Total: total[id]}
		if b.Total > 0 {
			b.PassRate = float64(b.Passed) / float64(b.Total)
		}
		out = append(out, b)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
