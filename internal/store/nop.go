package store

import (
	"context"

	"github.com/amishk599/jdskills/internal/model"
)

// NopStore is used when history is disabled. It accepts saves and never finds anything.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Save(ctx context.Context, a *model.Analysis) error { return nil }
func (s *NopStore) Get(ctx context.Context, id string) (*model.Analysis, error) {
	return nil, model.ErrNotFound
}
func (s *NopStore) List(ctx context.Context, limit int) ([]model.AnalysisSummary, error) {
	return nil, nil
}
func (s *NopStore) Delete(ctx context.Context, id string) error { return model.ErrNotFound }
