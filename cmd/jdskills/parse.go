package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/amishk599/jdskills/internal/ai"
	"github.com/amishk599/jdskills/internal/model"
	"github.com/amishk599/jdskills/internal/source"
)

var parseFlags struct {
	description string
	variant     string
	format      string
	save        bool
	share       bool
}

var parseCmd = &cobra.Command{
	Use:   "parse <reply-file>",
	Short: "Extract skills from a saved model reply",
	Long: "Runs the skills extractor over a model reply saved to a file. No LLM is called,\n" +
		"which makes it handy for checking how a reply will be split into buckets.",
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	f := parseCmd.Flags()
	f.StringVar(&parseFlags.description, "description", "", "file holding the job description the reply answers")
	f.StringVar(&parseFlags.variant, "variant", "", "skill buckets: four or two (default from config)")
	f.StringVar(&parseFlags.format, "format", "", "output format: text, markdown or json (default from config)")
	f.BoolVar(&parseFlags.save, "save", false, "record the result in history")
	f.BoolVar(&parseFlags.share, "share", false, "publish the result with the configured notifier")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	variant, renderer, err := outputOptions(cfg, parseFlags.variant, parseFlags.format)
	if err != nil {
		return err
	}

	reply, err := os.ReadFile(args[0])
	if err != nil {
		logger.Error("failed to read reply", "error", err)
		os.Exit(1)
	}

	jd := model.JobDescription{Source: "parse", Title: filepath.Base(args[0]), Text: "(not recorded)"}
	if parseFlags.description != "" {
		desc, err := source.File(parseFlags.description)
		if err != nil {
			logger.Error("failed to read job description", "error", err)
			os.Exit(1)
		}
		jd.Text = desc.Text
	}

	analyzer, err := ai.NewAnalyzer(ai.NewStaticProvider(string(reply)), ai.AnalysisTemplate, variant, cfg.AI.MaxTokens, logger)
	if err != nil {
		logger.Error("failed to set up analyzer", "error", err)
		os.Exit(1)
	}
	analysis, err := analyzer.Analyze(cmd.Context(), jd)
	if err != nil {
		logger.Error("parse failed", "error", err)
		os.Exit(1)
	}

	return finishAnalysis(cmd.Context(), cfg, analysis, renderer, !parseFlags.save, parseFlags.share, logger)
}
