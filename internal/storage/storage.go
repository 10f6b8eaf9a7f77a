package storage

import (
	"errors"

	"friday/internal/config"
	"friday/internal/domain"
)

// ErrNoHistory is returned by Load when nothing has been recorded yet
var ErrNoHistory = errors.New("no runs recorded yet")

// Storage persists and loads the local run history (e.g. for the report command).
type Storage interface {
	Save(record domain.RunRecord) error
	Load() (*domain.HistoryOutput, error)
}

// New returns the MySQL store when a DSN is configured, else the JSON file store.
func New(cfg *config.Config) (Storage, error) {
	if cfg.HistoryDSN != "" {
		return NewMySQLStorage(cfg.HistoryDSN, cfg.HistoryLimit)
	}
	return NewJSONStorage(cfg), nil
}

func trimRuns(runs []domain.RunRecord, limit int) []domain.RunRecord {
	if limit > 0 && len(runs) > limit {
		return runs[len(runs)-limit:]
	}
	return runs
}
