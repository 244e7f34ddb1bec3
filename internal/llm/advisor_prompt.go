package llm

import (
	"fmt"
	"strings"

	"github.com/modernapi/modernapi/internal/models"
)

// BuildAdvicePrompt renders the advisor prompt for one scored route. The
// failing findings are listed explicitly so the model addresses the actual
// rubric gaps instead of inventing new ones.
func BuildAdvicePrompt(rs models.RouteScore) string {
	var failing []string
	for _, f := range rs.Findings {
		if !f.Passed {
			failing = append(failing, fmt.Sprintf("- %s: %s (%d points)", f.RuleID, f.Message, f.Points))
		}
	}
	failingText := "None"
	if len(failing) > 0 {
		failingText = strings.Join(failing, "\n")
	}

	tags := "none"
	if len(rs.Route.Tags) > 0 {
		tags = strings.Join(rs.Route.Tags, ", ")
	}

	return fmt.Sprintf(`You are a senior Go engineer performing a code review.

Improve this HTTP route declaration to follow modern API best practices.

Current route:
- Method: %s
- Path: %s
- File: %s:%d
- Has typed response model: %s
- Tags: %s
- Summary: %s
- Description: %s
- Maturity score: %d/100

Failed checks:
%s

Suggest:
1. Specific issues
2. Recommended fixes
3. A complete improved route registration example in Go

Prioritize: URL versioning, a typed response model, tags, summary/description.
Answer with a single "advice" text field.`,
		rs.Route.HTTPMethod,
		rs.Route.PathTemplate,
		rs.Route.FilePath,
		rs.Route.LineNumber,
		yesNo(rs.Route.HasResponseModel),
		tags,
		orUnset(rs.Route.Summary),
		orUnset(rs.Route.Description),
		rs.Score,
		failingText,
	)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
