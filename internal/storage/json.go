package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"friday/internal/config"
	"friday/internal/domain"
)

// JSONStorage stores the run history in a JSON file under the configured history path.
type JSONStorage struct {
	cfg *config.Config
	mu  sync.Mutex
}

// NewJSONStorage returns a Storage that reads/writes the config's history JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}

// Save appends record, drops the oldest runs beyond the history limit and rewrites the file.
func (s *JSONStorage) Save(record domain.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	output, err := s.load()
	if errors.Is(err, ErrNoHistory) {
		output = &domain.HistoryOutput{}
	} else if err != nil {
		return err
	}

	output.Runs = trimRuns(append(output.Runs, record), s.cfg.HistoryLimit)
	output.Recount()

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	path := s.cfg.GetHistoryPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// Load reads the run history from the configured JSON file.
func (s *JSONStorage) Load() (*domain.HistoryOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *JSONStorage) load() (*domain.HistoryOutput, error) {
	data, err := os.ReadFile(s.cfg.GetHistoryPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoHistory
	}
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}
	var output domain.HistoryOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return &output, nil
}
