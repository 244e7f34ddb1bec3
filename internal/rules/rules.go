// Package rules applies the modernization rubric to extracted routes.
// Rules are pure functions registered in a fixed, versioned order so that
// finding order and point totals stay reproducible across runs.
package rules

import (
	"fmt"
	"regexp"

	"github.com/modernapi/modernapi/internal/models"
	"github.com/rs/zerolog"
)

// versionPattern matches a version segment anywhere in the path template,
// e.g. /v1/users or /api/v2/orders.
var versionPattern = regexp.MustCompile(`(?i)/v\d+`)

// Rule is one scoring check. Check must be pure and side-effect-free;
// Points is the (negative) delta applied when the check fails.
type Rule struct {
	ID     string
	Points int
	Check  func(models.Route) (passed bool, message string)
}

// Override adjusts one rule from the ruleset configuration. Nil fields
// keep the built-in default.
type Override struct {
	Enabled *bool `yaml:"enabled"`
	Points  *int  `yaml:"points"`
}

// Registry returns the rule list in registration order, with configured
// overrides applied. Point weights are policy, not contract: the defaults
// below are the shipped rubric, the ruleset file can change them.
func Registry(overrides map[string]Override) []Rule {
	builtin := []Rule{
		{ID: "versioning", Points: -15, Check: checkVersioning},
		{ID: "response_model", Points: -20, Check: checkResponseModel},
		{ID: "has_tags", Points: -10, Check: checkTags},
		{ID: "has_summary", Points: -5, Check: checkSummary},
		{ID: "has_description", Points: -5, Check: checkDescription},
	}

	rules := make([]Rule, 0, len(builtin))
	for _, rule := range builtin {
		override, ok := overrides[rule.ID]
		if ok && override.Enabled != nil && !*override.Enabled {
			continue
		}
		if ok && override.Points != nil {
			rule.Points = *override.Points
		}
		rules = append(rules, rule)
	}
	return rules
}

// Evaluate runs every rule against one route, producing one finding per
// rule in registration order. A rule that panics degrades to a failed
// zero-point finding plus a warning; a defective rule must never crash an
// audit.
func Evaluate(route models.Route, registry []Rule, log zerolog.Logger) ([]models.Finding, []models.Warning) {
	findings := make([]models.Finding, 0, len(registry))
	var warnings []models.Warning

	for _, rule := range registry {
		finding, err := evaluateOne(route, rule)
		if err != nil {
			log.Error().
				Str("rule_id", rule.ID).
				Str("file", route.FilePath).
				Int("line", route.LineNumber).
				Err(err).
				Msg("rule evaluation failed")
			warnings = append(warnings, models.Warning{
				Kind:     models.WarningRulePanic,
				FilePath: route.FilePath,
				Message:  fmt.Sprintf("rule %s failed on %s:%d: %v", rule.ID, route.FilePath, route.LineNumber, err),
			})
			finding = models.Finding{
				RuleID:  rule.ID,
				Passed:  false,
				Points:  0,
				Message: "rule evaluation failed",
			}
		}
		findings = append(findings, finding)
	}
	return findings, warnings
}

func evaluateOne(route models.Route, rule Rule) (finding models.Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	passed, message := rule.Check(route)
	finding = models.Finding{
		RuleID:  rule.ID,
		Passed:  passed,
		Message: message,
	}
	if !passed {
		finding.Points = rule.Points
	}
	return finding, nil
}

func checkVersioning(route models.Route) (bool, string) {
	if route.PathTemplate == models.DynamicPath {
		// Ambiguity must never silently penalize: a computed path cannot
		// be checked for a version segment.
		return true, "path template is dynamic; versioning not evaluated"
	}
	if versionPattern.MatchString(route.PathTemplate) {
		return true, "path contains a version segment"
	}
	return false, "missing API versioning in path (e.g. /v1/, /v2/)"
}

func checkResponseModel(route models.Route) (bool, string) {
	if route.HasResponseModel {
		return true, "typed response contract declared"
	}
	return false, "missing typed response model (critical for typing & docs)"
}

func checkTags(route models.Route) (bool, string) {
	if len(route.Tags) > 0 {
		return true, "tags declared"
	}
	return false, "missing tags for OpenAPI grouping"
}

func checkSummary(route models.Route) (bool, string) {
	if route.Summary != "" {
		return true, "summary declared"
	}
	return false, "missing summary for endpoint title"
}

func checkDescription(route models.Route) (bool, string) {
	if route.Description != "" {
		return true, "description declared"
	}
	return false, "missing description for endpoint details"
}
