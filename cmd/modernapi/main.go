package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/rs/zerolog"

	"github.com/modernapi/modernapi/internal/config"
	"github.com/modernapi/modernapi/internal/engine"
	"github.com/modernapi/modernapi/internal/history"
	"github.com/modernapi/modernapi/internal/llm"
	"github.com/modernapi/modernapi/internal/models"
	"github.com/modernapi/modernapi/internal/report"
	"github.com/modernapi/modernapi/internal/rules"
	"github.com/modernapi/modernapi/internal/walker"
	"github.com/modernapi/modernapi/internal/watch"
	"github.com/modernapi/modernapi/pkg/logger"
)

const (
	exitOK                  = 0
	exitScoreBelowThreshold = 1
	exitInvalidRepo         = 2
	exitInternalError       = 3
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(exitInternalError)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to load config: %v\n", err)
		os.Exit(exitInternalError)
	}
	log := logger.New(logger.Config{Level: cfg.Audit.LogLevel, Pretty: cfg.Audit.LogPretty})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "analyze":
		os.Exit(runAnalyze(ctx, cfg, log, os.Args[2:]))
	case "watch":
		os.Exit(runWatch(ctx, cfg, log, os.Args[2:]))
	case "history":
		os.Exit(runHistory(ctx, cfg, os.Args[2:]))
	default:
		usage()
		os.Exit(exitInternalError)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `%s v%s — %s

Usage:
  modernapi analyze <path> [flags]   Audit a project and write reports
  modernapi watch <path> [flags]     Re-audit on change, serve a dashboard
  modernapi history <path> [flags]   Show recorded score trend

Run a subcommand with -h for its flags.
`, models.ToolName, models.ToolVersion, models.FormalName)
}

func runAnalyze(ctx context.Context, cfg *config.Config, log zerolog.Logger, args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	failUnder := fs.Int("fail-under", -1, "exit non-zero if the overall score is below this value")
	jsonPath := fs.String("json", "", "also save a JSON report to this path")
	htmlPath := fs.String("html", "", "also save an HTML report to this path")
	output := fs.String("output", "api_modernization_report.md", "output Markdown report path")
	summaryOnly := fs.Bool("summary-only", false, "only show the score summary, no report files")
	useAI := fs.Bool("ai", false, "generate AI modernization advice for low-scoring routes")
	aiLimit := fs.Int("ai-limit", cfg.LLM.Limit, "max number of routes to get AI advice for")
	model := fs.String("model", cfg.LLM.Model, "model for AI advice")
	rulesetPath := fs.String("ruleset", "", "YAML ruleset file with rule toggles/weights")
	includes := fs.String("include", "", "comma-separated include globs (default *.go)")
	excludes := fs.String("exclude", "", "comma-separated exclude globs")
	record := fs.Bool("history", false, "record this run in the audit history")
	fs.Parse(args)

	root := fs.Arg(0)
	if root == "" {
		fmt.Fprintln(os.Stderr, "❌ analyze requires a project path")
		return exitInternalError
	}

	fmt.Printf("%s v%s\n%s\nRuleset: %s\n\n", models.ToolName, models.ToolVersion, models.FormalName, models.RulesetName)
	fmt.Printf("🔍 Scanning: %s\n\n", root)

	result, code := audit(ctx, cfg, log, root, *rulesetPath, *includes, *excludes)
	if code != exitOK {
		return code
	}

	fmt.Printf("📊 API MATURITY SCORE: %d/100\n", result.OverallScore)
	fmt.Printf("   Routes analyzed: %d\n", result.RoutesAnalyzed)
	fmt.Printf("   Needs improvement: %d\n", result.NeedsImprovement())
	for _, w := range result.Warnings {
		fmt.Printf("   ⚠️  %s %s: %s\n", w.Kind, w.FilePath, w.Message)
	}
	fmt.Println()

	if !*summaryOnly {
		if *useAI {
			annotateWithAdvice(ctx, cfg, log, result, *model, *aiLimit)
		}

		if err := os.WriteFile(*output, []byte(report.Markdown(result)), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "💥 Failed to write Markdown report: %v\n", err)
			return exitInternalError
		}
		fmt.Printf("✅ Markdown report: %s\n", *output)

		if *jsonPath != "" {
			data, err := report.JSON(result)
			if err == nil {
				err = os.WriteFile(*jsonPath, data, 0o644)
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "💥 Failed to write JSON report: %v\n", err)
				return exitInternalError
			}
			fmt.Printf("✅ JSON report: %s\n", *jsonPath)
		}

		if *htmlPath != "" {
			f, err := os.Create(*htmlPath)
			if err == nil {
				err = report.HTML(f, result)
				f.Close()
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "💥 Failed to write HTML report: %v\n", err)
				return exitInternalError
			}
			fmt.Printf("✅ HTML report: %s\n", *htmlPath)
		}
	}

	if *record {
		if err := recordHistory(ctx, cfg, result); err != nil {
			// History is a convenience; never fail the audit over it.
			log.Warn().Err(err).Msg("failed to record history")
		}
	}

	if *failUnder >= 0 && result.OverallScore < *failUnder {
		fmt.Printf("❌ Score %d is below threshold (%d)\n", result.OverallScore, *failUnder)
		return exitScoreBelowThreshold
	}

	fmt.Println("\n🎉 Audit complete!")
	return exitOK
}

func runWatch(ctx context.Context, cfg *config.Config, log zerolog.Logger, args []string) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	addr := fs.String("addr", ":8383", "dashboard listen address")
	rulesetPath := fs.String("ruleset", "", "YAML ruleset file with rule toggles/weights")
	fs.Parse(args)

	root := fs.Arg(0)
	if root == "" {
		fmt.Fprintln(os.Stderr, "❌ watch requires a project path")
		return exitInternalError
	}

	eng, code := buildEngine(cfg, log, *rulesetPath, "", "")
	if code != exitOK {
		return code
	}

	w := watch.New(eng, root, *addr, log)
	if err := w.Run(ctx); err != nil {
		if errors.Is(err, walker.ErrRootNotFound) {
			fmt.Fprintln(os.Stderr, "❌ Invalid repository path")
			return exitInvalidRepo
		}
		fmt.Fprintf(os.Stderr, "💥 Watch failed: %v\n", err)
		return exitInternalError
	}
	return exitOK
}

func runHistory(ctx context.Context, cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 10, "number of runs to show")
	fs.Parse(args)

	root := fs.Arg(0)
	if root == "" {
		fmt.Fprintln(os.Stderr, "❌ history requires a project path")
		return exitInternalError
	}

	store, err := history.Open(cfg.Audit.HistoryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to open history: %v\n", err)
		return exitInternalError
	}
	defer store.Close()

	entries, err := store.Recent(ctx, root, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read history: %v\n", err)
		return exitInternalError
	}
	if len(entries) == 0 {
		fmt.Printf("No recorded runs for %s\n", root)
		return exitOK
	}

	fmt.Printf("Audit history for %s\n\n", root)
	for _, e := range entries {
		fmt.Printf("%s  score %3d/100  routes %3d  (%s)\n",
			e.CreatedAt.Format("2006-01-02 15:04"), e.Score, e.Routes, e.RunID)
	}
	return exitOK
}

// audit wires the engine for one run and executes it.
func audit(ctx context.Context, cfg *config.Config, log zerolog.Logger, root, rulesetPath, includes, excludes string) (*models.ProjectReport, int) {
	eng, code := buildEngine(cfg, log, rulesetPath, includes, excludes)
	if code != exitOK {
		return nil, code
	}

	result, err := eng.Run(ctx, root)
	if err != nil {
		if errors.Is(err, walker.ErrRootNotFound) {
			fmt.Fprintln(os.Stderr, "❌ Invalid repository path")
			return nil, exitInvalidRepo
		}
		fmt.Fprintf(os.Stderr, "💥 Audit failed: %v\n", err)
		return nil, exitInternalError
	}
	return result, exitOK
}

func buildEngine(cfg *config.Config, log zerolog.Logger, rulesetPath, includes, excludes string) (*engine.Engine, int) {
	rs, err := config.LoadRuleset(rulesetPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		return nil, exitInternalError
	}
	registry := rules.Registry(rs.Rules)

	w := walker.New(splitPatterns(includes), splitPatterns(excludes))
	return engine.New(w, registry, cfg.Audit.Workers, log), exitOK
}

func annotateWithAdvice(ctx context.Context, cfg *config.Config, log zerolog.Logger, result *models.ProjectReport, model string, limit int) {
	if cfg.LLM.APIKey == "" {
		fmt.Println("⚠️  Warning: GEMINI_API_KEY not set. AI advice will be disabled.")
		return
	}

	g := genkit.Init(
		ctx,
		genkit.WithPlugins(&googlegenai.GoogleAI{APIKey: cfg.LLM.APIKey}),
		genkit.WithDefaultModel(model),
	)

	fmt.Printf("🤖 Generating AI advice (limit: %d)...\n", limit)
	advisor := llm.NewAdvisor(g, model, limit, log)
	advisor.Annotate(ctx, result)
}

func recordHistory(ctx context.Context, cfg *config.Config, result *models.ProjectReport) error {
	store, err := history.Open(cfg.Audit.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, result)
}

// splitPatterns turns a comma-separated flag value into a pattern slice;
// empty input means "use defaults" (nil).
func splitPatterns(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
