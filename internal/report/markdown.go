// Package report renders ProjectReport structures. Renderers are pure
// formatting; the engine's only contract to them is field stability.
package report

import (
	"fmt"
	"strings"

	"github.com/modernapi/modernapi/internal/models"
)

// Markdown renders the human-readable audit report.
func Markdown(r *models.ProjectReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n", r.Tool)
	fmt.Fprintf(&b, "## %s\n\n", models.FormalName)
	fmt.Fprintf(&b, "**Tool Version:** %s  \n", r.Version)
	fmt.Fprintf(&b, "**Ruleset:** %s  \n", r.Ruleset)
	fmt.Fprintf(&b, "**AI Advice:** %s  \n", enabledDisabled(r.AIEnabled))
	fmt.Fprintf(&b, "**Repository:** `%s`  \n", r.Root)
	fmt.Fprintf(&b, "**Generated:** %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04 UTC"))
	b.WriteString("---\n\n")

	b.WriteString("## API Maturity Score\n\n")
	fmt.Fprintf(&b, "**Overall Score: %d/100**\n\n", r.OverallScore)
	fmt.Fprintf(&b, "Routes analyzed: %d\n", r.RoutesAnalyzed)
	fmt.Fprintf(&b, "Perfect routes: %d\n", r.PerfectRoutes())
	fmt.Fprintf(&b, "Needs improvement: %d\n\n", r.NeedsImprovement())

	if len(r.Breakdown) > 0 {
		b.WriteString("## Rule Breakdown\n\n")
		b.WriteString("| Rule | Passing | Pass Rate |\n")
		b.WriteString("|---|---|---|\n")
		for _, rb := range r.Breakdown {
			fmt.Fprintf(&b, "| `%s` | %d/%d | %.0f%% |\n", rb.RuleID, rb.Passed, rb.Total, rb.PassRate*100)
		}
		b.WriteString("\n")
	}
	b.WriteString("---\n\n")

	for _, rs := range r.RouteScores {
		fmt.Fprintf(&b, "### `%s %s`\n", rs.Route.HTTPMethod, rs.Route.PathTemplate)
		fmt.Fprintf(&b, "- **File:** `%s:%d`\n", rs.Route.FilePath, rs.Route.LineNumber)
		fmt.Fprintf(&b, "- **Score:** %d/100\n", rs.Score)
		fmt.Fprintf(&b, "- **Issues:** %s\n\n", issueList(rs.Findings))

		if rs.Advice != "" {
			b.WriteString("**Recommended Modernization:**\n\n")
			b.WriteString("```\n")
			b.WriteString(rs.Advice)
			b.WriteString("\n```\n\n")
		}
		b.WriteString("---\n\n")
	}

	if len(r.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range r.Warnings {
			if w.FilePath != "" {
				fmt.Fprintf(&b, "- **%s** `%s`: %s\n", w.Kind, w.FilePath, w.Message)
			} else {
				fmt.Fprintf(&b, "- **%s**: %s\n", w.Kind, w.Message)
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

func issueList(findings []models.Finding) string {
	var issues []string
	for _, f := range findings {
		if !f.Passed {
			issues = append(issues, f.Message)
		}
	}
	if len(issues) == 0 {
		return "None 🎉"
	}
	return strings.Join(issues, ", ")
}

func enabledDisabled(v bool) string {
	if v {
		return "Enabled"
	}
	return "Disabled"
}
