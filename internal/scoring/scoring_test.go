package scoring

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modernapi/modernapi/internal/models"
	"github.com/modernapi/modernapi/internal/rules"
)

var registryIDs = []string{"versioning", "response_model", "has_tags", "has_summary", "has_description"}

func scored(t *testing.T, route models.Route) models.RouteScore {
	t.Helper()
	findings, warnings := rules.Evaluate(route, rules.Registry(nil), zerolog.Nop())
	require.Empty(t, warnings)
	return ScoreRoute(route, findings)
}

func TestScoreRoute_Scenarios(t *testing.T) {
	tests := []struct {
		name  string
		route models.Route
		want  int
	}{
		{
			name:  "bare GET /users",
			route: models.Route{HTTPMethod: "GET", PathTemplate: "/users"},
			want:  45,
		},
		{
			name: "versioned POST with model and tags",
			route: models.Route{
				HTTPMethod:       "POST",
				PathTemplate:     "/v1/users",
				HasResponseModel: true,
				Tags:             []string{"users"},
			},
			want: 90,
		},
		{
			name: "fully documented",
			route: models.Route{
				HTTPMethod:       "GET",
				PathTemplate:     "/v2/orders",
				HasResponseModel: true,
				Tags:             []string{"orders"},
				Summary:          "List orders",
				Description:      "Paginated",
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scored(t, tt.route).Score)
		})
	}
}

func TestScoreRoute_ClampsAtZero(t *testing.T) {
	findings := []models.Finding{
		{RuleID: "a", Points: -80},
		{RuleID: "b", Points: -80},
	}
	rs := ScoreRoute(models.Route{HTTPMethod: "GET", PathTemplate: "/x"}, findings)
	assert.Equal(t, 0, rs.Score)
}

func TestScoreRoute_ClampsAtHundred(t *testing.T) {
	findings := []models.Finding{{RuleID: "a", Points: 40}}
	rs := ScoreRoute(models.Route{HTTPMethod: "GET", PathTemplate: "/x"}, findings)
	assert.Equal(t, 100, rs.Score)
}

func TestAggregate_OverallMeanRoundsHalfUp(t *testing.T) {
	scores := []models.RouteScore{
		{Route: models.Route{FilePath: "a.go", LineNumber: 1}, Score: 45},
		{Route: models.Route{FilePath: "a.go", LineNumber: 2}, Score: 90},
	}

	report := Aggregate("proj", scores, registryIDs, nil)
	// (45 + 90) / 2 = 67.5 rounds up to 68.
	assert.Equal(t, 68, report.OverallScore)
	assert.Equal(t, 2, report.RoutesAnalyzed)
}

func TestAggregate_VacuousPass(t *testing.T) {
	report := Aggregate("proj", nil, registryIDs, nil)
	assert.Equal(t, 100, report.OverallScore)
	assert.Empty(t, report.RouteScores)
	assert.Equal(t, 0, report.RoutesAnalyzed)
}

func TestAggregate_DeterministicOrdering(t *testing.T) {
	// Hand scores over in worker-completion order; the report must come
	// back in (file, line) order.
	scores := []models.RouteScore{
		{Route: models.Route{FilePath: "b.go", LineNumber: 5}, Score: 50},
		{Route: models.Route{FilePath: "a.go", LineNumber: 9}, Score: 60},
		{Route: models.Route{FilePath: "a.go", LineNumber: 3}, Score: 70},
	}

	report := Aggregate("proj", scores, registryIDs, nil)
	require.Len(t, report.RouteScores, 3)
	assert.Equal(t, "a.go", report.RouteScores[0].Route.FilePath)
	assert.Equal(t, 3, report.RouteScores[0].Route.LineNumber)
	assert.Equal(t, "a.go", report.RouteScores[1].Route.FilePath)
	assert.Equal(t, 9, report.RouteScores[1].Route.LineNumber)
	assert.Equal(t, "b.go", report.RouteScores[2].Route.FilePath)

	// The input slice is left untouched.
	assert.Equal(t, "b.go", scores[0].Route.FilePath)
}

func TestAggregate_Breakdown(t *testing.T) {
	scores := []models.RouteScore{
		{
			Route: models.Route{FilePath: "a.go", LineNumber: 1},
			Findings: []models.Finding{
				{RuleID: "versioning", Passed: true},
				{RuleID: "has_tags", Passed: false, Points: -10},
			},
		},
		{
			Route: models.Route{FilePath: "a.go", LineNumber: 2},
			Findings: []models.Finding{
				{RuleID: "versioning", Passed: false, Points: -15},
				{RuleID: "has_tags", Passed: false, Points: -10},
			},
		},
	}

	report := Aggregate("proj", scores, []string{"versioning", "has_tags"}, nil)
	require.Len(t, report.Breakdown, 2)

	versioning := report.Breakdown[0]
	assert.Equal(t, "versioning", versioning.RuleID)
	assert.Equal(t, 1, versioning.Passed)
	assert.Equal(t, 2, versioning.Total)
	assert.InDelta(t, 0.5, versioning.PassRate, 1e-9)

	tags := report.Breakdown[1]
	assert.Equal(t, 0, tags.Passed)
	assert.InDelta(t, 0.0, tags.PassRate, 1e-9)
}

func TestAggregate_WarningOrdering(t *testing.T) {
	// Warnings arrive in worker-completion order; the report must come
	// back sorted by (file, kind, message) so runs stay diffable.
	warnings := []models.Warning{
		{Kind: models.WarningParse, FilePath: "z.go", Message: "expected '}'"},
		{Kind: models.WarningRulePanic, FilePath: "a.go", Message: "rule x failed"},
		{Kind: models.WarningFileRead, FilePath: "a.go", Message: "permission denied"},
		{Kind: models.WarningFileRead, FilePath: "a.go", Message: "i/o error"},
	}

	report := Aggregate("proj", nil, registryIDs, warnings)
	require.Len(t, report.Warnings, 4)

	assert.Equal(t, models.Warning{Kind: models.WarningFileRead, FilePath: "a.go", Message: "i/o error"}, report.Warnings[0])
	assert.Equal(t, models.Warning{Kind: models.WarningFileRead, FilePath: "a.go", Message: "permission denied"}, report.Warnings[1])
	assert.Equal(t, models.Warning{Kind: models.WarningRulePanic, FilePath: "a.go", Message: "rule x failed"}, report.Warnings[2])
	assert.Equal(t, "z.go", report.Warnings[3].FilePath)

	// The input slice is left untouched.
	assert.Equal(t, "z.go", warnings[0].FilePath)
}

func TestAggregate_ReportMetadata(t *testing.T) {
	report := Aggregate("proj", nil, registryIDs, []models.Warning{
		{Kind: models.WarningParse, FilePath: "bad.go", Message: "expected '}'"},
	})

	assert.Equal(t, models.ToolName, report.Tool)
	assert.Equal(t, models.SchemaVersion, report.SchemaVersion)
	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.GeneratedAt.IsZero())
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, models.WarningParse, report.Warnings[0].Kind)
}
