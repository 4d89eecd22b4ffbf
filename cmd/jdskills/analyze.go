package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jdskills/internal/ai"
	"github.com/amishk599/jdskills/internal/config"
	"github.com/amishk599/jdskills/internal/extract"
	"github.com/amishk599/jdskills/internal/model"
	"github.com/amishk599/jdskills/internal/render"
	"github.com/amishk599/jdskills/internal/retry"
	"github.com/amishk599/jdskills/internal/source"
	"github.com/amishk599/jdskills/internal/tui"
)

var analyzeFlags struct {
	file       string
	url        string
	greenhouse string
	lever      string
	variant    string
	format     string
	noSave     bool
	share      bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Analyze a job description",
	Long: "Sends a job description to the configured LLM and prints the skills breakdown.\n" +
		"The description comes from the arguments, --file, --url, --greenhouse, --lever or stdin.",
	Example: `  jdskills analyze --file job.txt
  jdskills analyze --greenhouse acme/4012345 --format markdown
  pbpaste | jdskills analyze --variant two --share`,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeFlags.file, "file", "f", "", "read the description from a file")
	f.StringVar(&analyzeFlags.url, "url", "", "fetch the description from a job posting page")
	f.StringVar(&analyzeFlags.greenhouse, "greenhouse", "", "fetch a Greenhouse posting as board/job_id")
	f.StringVar(&analyzeFlags.lever, "lever", "", "fetch a Lever posting as site/posting_id")
	f.StringVar(&analyzeFlags.variant, "variant", "", "skill buckets: four or two (default from config)")
	f.StringVar(&analyzeFlags.format, "format", "", "output format: text, markdown or json (default from config)")
	f.BoolVar(&analyzeFlags.noSave, "no-save", false, "do not record the analysis in history")
	f.BoolVar(&analyzeFlags.share, "share", false, "publish the analysis with the configured notifier")
	analyzeCmd.MarkFlagsMutuallyExclusive("file", "url", "greenhouse", "lever")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	variant, renderer, err := outputOptions(cfg, analyzeFlags.variant, analyzeFlags.format)
	if err != nil {
		return err
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	ctx := cmd.Context()

	jd, err := readDescription(ctx, args, httpClient, logger)
	if err != nil {
		logger.Error("failed to read job description", "error", err)
		os.Exit(1)
	}
	logger.Debug("job description loaded", "source", jd.Source, "chars", len(jd.Text))

	provider, err := setupProvider(cfg, logger)
	if err != nil {
		logger.Error("failed to set up llm provider", "error", err)
		os.Exit(1)
	}
	analyzer, err := ai.NewAnalyzer(provider, ai.AnalysisTemplate, variant, cfg.AI.MaxTokens, logger)
	if err != nil {
		logger.Error("failed to set up analyzer", "error", err)
		os.Exit(1)
	}

	analyze := func(ctx context.Context) (*model.Analysis, error) {
		ctx, cancel := context.WithTimeout(ctx, cfg.AI.Timeout)
		defer cancel()
		return analyzer.Analyze(ctx, jd)
	}

	var analysis *model.Analysis
	if isTerminal(os.Stdout) && !debug {
		analysis, err = tui.RunLoader(ctx, "Analyzing job description with "+cfg.AI.Model, analyze)
	} else {
		analysis, err = analyze(ctx)
	}
	if errors.Is(err, tui.ErrCancelled) {
		return nil
	}
	if err != nil {
		logger.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	return finishAnalysis(ctx, cfg, analysis, renderer, analyzeFlags.noSave, analyzeFlags.share, logger)
}

// outputOptions applies flag overrides on top of the config defaults.
func outputOptions(cfg *config.Config, variant, format string) (string, render.Renderer, error) {
	if variant == "" {
		variant = cfg.Analysis.Variant
	}
	if _, err := extract.Vocabulary(variant); err != nil {
		return "", nil, err
	}
	if format == "" {
		format = cfg.Analysis.Format
	}
	r, err := render.New(format)
	if err != nil {
		return "", nil, err
	}
	return variant, r, nil
}

// readDescription picks the job description source from args and flags,
// falling back to stdin when it is not a terminal.
func readDescription(ctx context.Context, args []string, httpClient *http.Client, logger *slog.Logger) (model.JobDescription, error) {
	if len(args) > 0 {
		if analyzeFlags.file != "" || analyzeFlags.url != "" || analyzeFlags.greenhouse != "" || analyzeFlags.lever != "" {
			return model.JobDescription{}, fmt.Errorf("pass the description as arguments or with a flag, not both")
		}
		return source.Text(strings.Join(args, " ")), nil
	}

	var fetcher model.DescriptionFetcher
	switch {
	case analyzeFlags.file != "":
		return source.File(analyzeFlags.file)
	case analyzeFlags.url != "":
		fetcher = source.NewURLSource(analyzeFlags.url, httpClient)
	case analyzeFlags.greenhouse != "":
		board, id, err := source.SplitRef(analyzeFlags.greenhouse)
		if err != nil {
			return model.JobDescription{}, fmt.Errorf("--greenhouse: %w", err)
		}
		fetcher = source.NewGreenhouseSource(board, id, httpClient)
	case analyzeFlags.lever != "":
		site, id, err := source.SplitRef(analyzeFlags.lever)
		if err != nil {
			return model.JobDescription{}, fmt.Errorf("--lever: %w", err)
		}
		fetcher = source.NewLeverSource(site, id, httpClient)
	default:
		if isTerminal(os.Stdin) {
			return model.JobDescription{}, fmt.Errorf("no job description given: pass text, a flag, or pipe it on stdin")
		}
		return source.Reader(os.Stdin, "stdin")
	}
	return retry.NewFetcher(fetcher, 2, 2*time.Second, logger).FetchDescription(ctx)
}

// finishAnalysis stores, prints and optionally shares a completed analysis.
// Errors are returned so the deferred store close always runs.
func finishAnalysis(ctx context.Context, cfg *config.Config, a *model.Analysis, r render.Renderer, noSave, share bool, logger *slog.Logger) error {
	analysisStore, closeStore, err := setupStore(cfg, noSave, logger)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer closeStore()

	if err := analysisStore.Save(ctx, a); err != nil {
		logger.Warn("failed to save analysis", "id", a.ID, "error", err)
	} else {
		logger.Debug("analysis saved", "id", a.ID)
	}

	if err := r.Render(os.Stdout, a); err != nil {
		return fmt.Errorf("render analysis: %w", err)
	}

	if share {
		httpClient := &http.Client{Timeout: 30 * time.Second}
		if err := setupPublisher(cfg, httpClient, logger).Publish(ctx, a); err != nil {
			return fmt.Errorf("share analysis %s: %w", a.ID, err)
		}
	}
	return nil
}
