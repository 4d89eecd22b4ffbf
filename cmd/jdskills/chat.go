package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jdskills/internal/ai"
	"github.com/amishk599/jdskills/internal/tui"
)

var chatFlags struct {
	variant string
	format  string
	noSave  bool
	share   bool
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Describe a role in a chat, then analyze it",
	Long: "Opens a full-screen chat with the assistant. Describe the role or paste a job\n" +
		"description; press ctrl+a for the skills breakdown, ctrl+r to start over, esc to quit.",
	RunE: runChat,
}

func init() {
	f := chatCmd.Flags()
	f.StringVar(&chatFlags.variant, "variant", "", "skill buckets: four or two (default from config)")
	f.StringVar(&chatFlags.format, "format", "", "output format: text, markdown or json (default from config)")
	f.BoolVar(&chatFlags.noSave, "no-save", false, "do not record the analysis in history")
	f.BoolVar(&chatFlags.share, "share", false, "publish the analysis with the configured notifier")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	variant, renderer, err := outputOptions(cfg, chatFlags.variant, chatFlags.format)
	if err != nil {
		return err
	}
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return fmt.Errorf("chat needs an interactive terminal; use analyze for piped input")
	}

	provider, err := setupProvider(cfg, logger)
	if err != nil {
		logger.Error("failed to set up llm provider", "error", err)
		os.Exit(1)
	}
	session, err := ai.NewChatSession(provider, variant, cfg.AI.MaxTokens, logger)
	if err != nil {
		logger.Error("failed to start chat", "error", err)
		os.Exit(1)
	}

	analysis, err := tui.RunChat(cmd.Context(), session)
	if err != nil {
		logger.Error("chat failed", "error", err)
		os.Exit(1)
	}
	if analysis == nil {
		logger.Debug("chat closed without analysis")
		return nil
	}

	return finishAnalysis(cmd.Context(), cfg, analysis, renderer, chatFlags.noSave, chatFlags.share, logger)
}
