// Package llm holds the optional AI advisor: a Genkit flow that takes a
// low-scoring route and its failing findings and returns free-text
// modernization advice. Advice is strictly additive; nothing in this
// package can change a score or abort a run.
package llm

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	genkitcore "github.com/firebase/genkit/go/core"
	"github.com/firebase/genkit/go/genkit"
	"github.com/rs/zerolog"

	"github.com/modernapi/modernapi/internal/models"
)

// AdviceRequest is the input for the advisor flow.
type AdviceRequest struct {
	RouteScore models.RouteScore `json:"route_score"`
}

// AdviceResponse is the structured output of the advisor flow.
type AdviceResponse struct {
	Advice string `json:"advice"`
}

// DefineAdvisorFlow creates the Genkit flow that generates modernization
// advice for one scored route.
func DefineAdvisorFlow(
	g *genkit.Genkit,
	modelName string,
) *genkitcore.Flow[*AdviceRequest, *AdviceResponse, struct{}] {
	return genkit.DefineFlow(
		g,
		"advisorFlow",
		func(ctx context.Context, req *AdviceRequest) (*AdviceResponse, error) {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("context cancelled before advice generation: %w", err)
			}

			prompt := BuildAdvicePrompt(req.RouteScore)

			result, _, err := genkit.GenerateData[AdviceResponse](
				ctx,
				g,
				ai.WithModelName(modelName),
				ai.WithPrompt(prompt),
			)
			if err != nil {
				return nil, fmt.Errorf("advisor LLM failed: %w", err)
			}
			return result, nil
		},
	)
}

// Advisor annotates reports with best-effort advice.
type Advisor struct {
	flow  *genkitcore.Flow[*AdviceRequest, *AdviceResponse, struct{}]
	limit int
	log   zerolog.Logger
}

// NewAdvisor creates an advisor generating advice for at most limit routes
// per report.
func NewAdvisor(g *genkit.Genkit, modelName string, limit int, log zerolog.Logger) *Advisor {
	return &Advisor{
		flow:  DefineAdvisorFlow(g, modelName),
		limit: limit,
		log:   log,
	}
}

// Annotate fills the Advice field on the lowest-scoring routes below 100,
// up to the configured limit. Advisor failures produce a placeholder
// advice string and never propagate; scores are left untouched.
func (a *Advisor) Annotate(ctx context.Context, report *models.ProjectReport) {
	candidates := adviceCandidates(report, a.limit)
	if len(candidates) == 0 {
		return
	}
	a.log.Info().Int("routes", len(candidates)).Msg("generating AI advice")

	for _, idx := range candidates {
		rs := &report.RouteScores[idx]
		resp, err := a.flow.Run(ctx, &AdviceRequest{RouteScore: *rs})
		if err != nil {
			a.log.Warn().
				Str("route", rs.Route.HTTPMethod+" "+rs.Route.PathTemplate).
				Err(err).
				Msg("advice generation failed")
			rs.Advice = fmt.Sprintf("[AI unavailable: %v]", err)
			continue
		}
		rs.Advice = resp.Advice
	}
	report.AIEnabled = true
}

// adviceCandidates returns indexes of the lowest-scoring imperfect routes,
// capped at limit. Ties keep report order so output stays deterministic.
func adviceCandidates(report *models.ProjectReport, limit int) []int {
	var idxs []int
	for i, rs := range report.RouteScores {
		if rs.Score < 100 {
			idxs = append(idxs, i)
		}
	}
	// Stable selection sort by score; candidate lists are tiny.
	for i := 0; i < len(idxs); i++ {
		best := i
		for j := i + 1; j < len(idxs); j++ {
			if report.RouteScores[idxs[j]].Score < report.RouteScores[idxs[best]].Score {
				best = j
			}
		}
		if best != i {
			picked := idxs[best]
			copy(idxs[i+1:best+1], idxs[i:best])
			idxs[i] = picked
		}
	}
	if len(idxs) > limit {
		idxs = idxs[:limit]
	}
	return idxs
}
