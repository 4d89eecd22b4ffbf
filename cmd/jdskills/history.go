package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/amishk599/jdskills/internal/model"
	"github.com/amishk599/jdskills/internal/render"
)

var historyFlags struct {
	limit  int
	format string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse saved analyses",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved analyses, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func init() {
	historyListCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "maximum rows to show (0 for all)")
	historyShowCmd.Flags().StringVar(&historyFlags.format, "format", "", "output format: text, markdown or json (default from config)")

	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	s, err := openHistory(cfg)
	if err != nil {
		logger.Error("failed to open history", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	rows, err := s.List(cmd.Context(), historyFlags.limit)
	if err != nil {
		logger.Error("failed to list analyses", "error", err)
		os.Exit(1)
	}
	if len(rows) == 0 {
		fmt.Println("No saved analyses.")
		return nil
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("ID", "CREATED", "SOURCE", "VARIANT", "SKILLS", "TITLE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	for _, r := range rows {
		t.Row(r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Source, r.Variant, strconv.Itoa(r.Skills), r.Title)
	}
	fmt.Println(t)
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	format := historyFlags.format
	if format == "" {
		format = cfg.Analysis.Format
	}
	r, err := render.New(format)
	if err != nil {
		return err
	}

	s, err := openHistory(cfg)
	if err != nil {
		logger.Error("failed to open history", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	a, err := s.Get(cmd.Context(), args[0])
	if errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("no saved analysis with id %q", args[0])
	}
	if err != nil {
		logger.Error("failed to load analysis", "error", err)
		os.Exit(1)
	}
	return r.Render(os.Stdout, a)
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	s, err := openHistory(cfg)
	if err != nil {
		logger.Error("failed to open history", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	err = s.Delete(cmd.Context(), args[0])
	if errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("no saved analysis with id %q", args[0])
	}
	if err != nil {
		logger.Error("failed to delete analysis", "error", err)
		os.Exit(1)
	}
	logger.Info("analysis deleted", "id", args[0])
	return nil
}
