package notifier

import (
	"context"
	"log/slog"

	"github.com/amishk599/jdskills/internal/extract"
	"github.com/amishk599/jdskills/internal/model"
)

// Ensure LogNotifier implements model.Publisher.
var _ model.Publisher = (*LogNotifier)(nil)

// LogNotifier writes a summary of each analysis to the given logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a publisher that logs analyses via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Publish logs the analysis ID, source and the item count of every bucket.
// Returns nil (logging does not fail).
func (n *LogNotifier) Publish(_ context.Context, a *model.Analysis) error {
	args := []any{"id", a.ID, "source", a.Source, "variant", a.Variant}
	if a.Title != "" {
		args = append(args, "title", a.Title)
	}
	if sections, err := extract.Vocabulary(a.Variant); err == nil {
		for _, s := range sections {
			if s.Kind == extract.KindList {
				args = append(args, s.Key, len(a.Result.List(s.Key)))
			}
		}
	}
	args = append(args, "skills", a.Result.Count())
	n.logger.Info("analysis published", args...)
	return nil
}
