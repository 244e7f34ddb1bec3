package llm

import (
	"strings"
	"testing"

	"github.com/modernapi/modernapi/internal/models"
)

func TestBuildAdvicePrompt(t *testing.T) {
	rs := models.RouteScore{
		Route: models.Route{
			FilePath:     "api/users.go",
			LineNumber:   10,
			HTTPMethod:   "GET",
			PathTemplate: "/users",
		},
		Findings: []models.Finding{
			{RuleID: "versioning", Passed: false, Points: -15, Message: "No versioning in URL"},
			{RuleID: "response_model", Passed: false, Points: -20, Message: "No typed response model"},
			{RuleID: "has_tags", Passed: true, Message: "Has tags"},
		},
		Score: 45,
	}

	prompt := BuildAdvicePrompt(rs)

	for _, want := range []string{
		"GET",
		"/users",
		"api/users.go:10",
		"45/100",
		"- versioning: No versioning in URL (-15 points)",
		"- response_model: No typed response model (-20 points)",
		"Summary: (not set)",
		"Tags: none",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "Has tags") {
		t.Error("passing findings must not be listed as failed checks")
	}
}

func TestBuildAdvicePrompt_DocumentedRoute(t *testing.T) {
	rs := models.RouteScore{
		Route: models.Route{
			HTTPMethod:       "POST",
			PathTemplate:     "/v1/users",
			HasResponseModel: true,
			Tags:             []string{"users", "admin"},
			Summary:          "Create user",
		},
		Score: 95,
	}

	prompt := BuildAdvicePrompt(rs)
	if !strings.Contains(prompt, "Tags: users, admin") {
		t.Error("tags should be comma-joined")
	}
	if !strings.Contains(prompt, "Has typed response model: Yes") {
		t.Error("response model flag should render as Yes")
	}
	if !strings.Contains(prompt, "Summary: Create user") {
		t.Error("summary should be rendered verbatim")
	}
}

func TestAdviceCandidates(t *testing.T) {
	report := &models.ProjectReport{
		RouteScores: []models.RouteScore{
			{Route: models.Route{PathTemplate: "/a"}, Score: 80},
			{Route: models.Route{PathTemplate: "/b"}, Score: 100},
			{Route: models.Route{PathTemplate: "/c"}, Score: 45},
			{Route: models.Route{PathTemplate: "/d"}, Score: 80},
			{Route: models.Route{PathTemplate: "/e"}, Score: 60},
		},
	}

	got := adviceCandidates(report, 3)
	want := []int{2, 4, 0}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d: got index %d, want %d", i, got[i], want[i])
		}
	}
}

func TestAdviceCandidates_TiesKeepReportOrder(t *testing.T) {
	report := &models.ProjectReport{
		RouteScores: []models.RouteScore{
			{Route: models.Route{PathTemplate: "/a"}, Score: 70},
			{Route: models.Route{PathTemplate: "/b"}, Score: 70},
			{Route: models.Route{PathTemplate: "/c"}, Score: 70},
		},
	}

	got := adviceCandidates(report, 10)
	for i, idx := range got {
		if idx != i {
			t.Fatalf("tie ordering broken: got %v", got)
		}
	}
}

func TestAdviceCandidates_AllPerfect(t *testing.T) {
	report := &models.ProjectReport{
		RouteScores: []models.RouteScore{
			{Score: 100},
			{Score: 100},
		},
	}
	if got := adviceCandidates(report, 5); len(got) != 0 {
		t.Fatalf("perfect routes must not be candidates, got %v", got)
	}
}
