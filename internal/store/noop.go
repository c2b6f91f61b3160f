package store

import (
	"time"

	"PEAScout/internal/model"
)

// NoopStore is used when persistence is not configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) SaveRecommendations(_ string, _ time.Time, _ []model.ScoredCandidate) error {
	return nil
}
func (n *NoopStore) RecommendationHistory(_ int) ([]RecommendationRow, error) { return nil, nil }
func (n *NoopStore) SaveBacktest(_ string, _ time.Time, _ BacktestParams, _ *model.BacktestResult) error {
	return nil
}
func (n *NoopStore) Setting(_ string) (string, bool, error) { return "", false, nil }
func (n *NoopStore) SetSetting(_, _ string) error           { return nil }
func (n *NoopStore) Close() error                           { return nil }
