package models

import "time"

// Tool metadata embedded in every report. RuleID strings and the report
// field layout are a stable contract for renderers; renaming either
// requires a SchemaVersion bump.
const (
	ToolName      = "modernapi"
	FormalName    = "API Modernization Audit (Go HTTP routes)"
	ToolVersion   = "0.2.0"
	RulesetName   = "go-http-core"
	SchemaVersion = "1"
)

// DynamicPath marks a route whose path template is computed at runtime
// and could not be read from a string literal.
const DynamicPath = "<dynamic>"

// Route is one detected endpoint declaration. It is created immutably by
// the extractor from a single syntactic match; HTTPMethod and PathTemplate
// are always present (a match missing either is skipped, not emitted).
type Route struct {
	FilePath         string   `json:"file_path"`
	LineNumber       int      `json:"line_number"`
	HTTPMethod       string   `json:"http_method"`
	PathTemplate     string   `json:"path_template"`
	HasResponseModel bool     `json:"has_response_model"`
	Tags             []string `json:"tags,omitempty"`
	Summary          string   `json:"summary,omitempty"`
	Description      string   `json:"description,omitempty"`
}

// Finding is the result of one rule applied to one route.
type Finding struct {
	RuleID  string `json:"rule_id"`
	Passed  bool   `json:"passed"`
	Points  int    `json:"points"`
	Message string `json:"message"`
}

// RouteScore aggregates a route's findings. Score is a pure function of
// the findings: clamp(100 + sum(points), 0, 100).
type RouteScore struct {
	Route    Route     `json:"route"`
	Findings []Finding `json:"findings"`
	Score    int       `json:"score"`

	// Advice is optional free-text from the AI advisor. It never affects
	// Score and is absent unless advice generation ran for this route.
	Advice string `json:"advice,omitempty"`
}

// RuleBreakdown reports how many routes pass a rule project-wide.
// Used for spotting systemic gaps, never for scoring.
type RuleBreakdown struct {
	RuleID   string  `json:"rule_id"`
	Passed   int     `json:"passed"`
	Total    int     `json:"total"`
	PassRate float64 `json:"pass_rate"`
}

// WarningKind classifies non-fatal failures recorded during a run.
type WarningKind string

const (
	WarningFileRead  WarningKind = "file_read_error"
	WarningParse     WarningKind = "parse_error"
	WarningRulePanic WarningKind = "rule_error"
)

// Warning records a per-file or per-rule failure that was isolated
// instead of aborting the audit.
type Warning struct {
	Kind     WarningKind `json:"kind"`
	FilePath string      `json:"file_path,omitempty"`
	Message  string      `json:"message"`
}

// ProjectReport is the immutable output of one audit run, consumed by the
// Markdown/JSON/HTML renderers and the watch server.
type ProjectReport struct {
	Tool          string    `json:"tool"`
	Version       string    `json:"version"`
	Ruleset       string    `json:"ruleset"`
	SchemaVersion string    `json:"schema_version"`
	RunID         string    `json:"run_id"`
	Root          string    `json:"root"`
	GeneratedAt   time.Time `json:"generated_at"`
	AIEnabled     bool      `json:"ai_enabled"`

	OverallScore   int             `json:"overall_score"`
	RoutesAnalyzed int             `json:"routes_analyzed"`
	RouteScores    []RouteScore    `json:"route_scores"`
	Breakdown      []RuleBreakdown `json:"breakdown"`
	Warnings       []Warning       `json:"warnings,omitempty"`
}

// PerfectRoutes counts routes with a full score.
func (r *ProjectReport) PerfectRoutes() int {
	n := 0
	for _, rs := range r.RouteScores {
		if rs.Score == 100 {
			n++
		}
	}
	return n
}

// NeedsImprovement counts routes scoring below 100.
func (r *ProjectReport) NeedsImprovement() int {
	return len(r.RouteScores) - r.PerfectRoutes()
}
