package report

import (
	"fmt"
	"html/template"
	"io"

	"github.com/modernapi/modernapi/internal/models"
)

// htmlTemplate is a single self-contained page; the watch dashboard and
// the --html output share it.
var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct": func(rate float64) string { return fmt.Sprintf("%.0f%%", rate*100) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Tool}} — API Maturity Report</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
h1 { margin-bottom: 0; }
.score { font-size: 2.5rem; font-weight: bold; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.8rem; text-align: left; }
.route { margin: 1rem 0; padding: 0.8rem; border: 1px solid #ddd; border-radius: 4px; }
.fail { color: #b00; }
.pass { color: #070; }
.warning { color: #960; }
</style>
</head>
<body>
<h1>{{.Tool}}</h1>
<p>{{.Root}} · ruleset {{.Ruleset}} · generated {{.GeneratedAt.Format "2006-01-02 15:04 UTC"}}</p>
<p class="score" id="overall-score">{{.OverallScore}}/100</p>
<p>Routes analyzed: {{.RoutesAnalyzed}}</p>

<h2>Rule Breakdown</h2>
<table id="breakdown">
<tr><th>Rule</th><th>Passing</th><th>Pass rate</th></tr>
{{range .Breakdown}}<tr><td>{{.RuleID}}</td><td>{{.Passed}}/{{.Total}}</td><td>{{pct .PassRate}}</td></tr>
{{end}}</table>

<h2>Routes</h2>
{{range .RouteScores}}<div class="route" data-score="{{.Score}}">
<h3>{{.Route.HTTPMethod}} {{.Route.PathTemplate}}</h3>
<p>{{.Route.FilePath}}:{{.Route.LineNumber}} — score {{.Score}}/100</p>
<ul>
{{range .Findings}}<li class="{{if .Passed}}pass{{else}}fail{{end}}">{{.RuleID}}: {{.Message}}</li>
{{end}}</ul>
{{if .Advice}}<pre>{{.Advice}}</pre>{{end}}
</div>
{{end}}

{{if .Warnings}}<h2>Warnings</h2>
<ul id="warnings">
{{range .Warnings}}<li class="warning">{{.Kind}} {{.FilePath}}: {{.Message}}</li>
{{end}}</ul>{{end}}
</body>
</html>
`))

// HTML renders the report as a standalone page.
func HTML(w io.Writer, r *models.ProjectReport) error {
	if err := htmlTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("rendering html report: %w", err)
	}
	return nil
}
