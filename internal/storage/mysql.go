package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"

	"friday/internal/domain"
)

const createRunsTable = "CREATE TABLE IF NOT EXISTS `friday_runs` (" +
	"`id` BIGINT AUTO_INCREMENT PRIMARY KEY," +
	"`spec_file` VARCHAR(255) NOT NULL," +
	"`base_url` VARCHAR(2048) NOT NULL," +
	"`output` VARCHAR(255) NOT NULL," +
	"`status` VARCHAR(16) NOT NULL," +
	"`total_tests` INT NOT NULL DEFAULT 0," +
	"`paths_tested` INT NOT NULL DEFAULT 0," +
	"`message` TEXT," +
	"`error` TEXT," +
	"`duration_seconds` DOUBLE NOT NULL DEFAULT 0," +
	"`created_at` DATETIME NOT NULL" +
	")"

const insertRun = "INSERT INTO `friday_runs` " +
	"(`spec_file`, `base_url`, `output`, `status`, `total_tests`, `paths_tested`, `message`, `error`, `duration_seconds`, `created_at`) " +
	"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

const selectRuns = "SELECT `spec_file`, `base_url`, `output`, `status`, `total_tests`, `paths_tested`, " +
	"COALESCE(`message`, ''), COALESCE(`error`, ''), `duration_seconds`, `created_at` " +
	"FROM `friday_runs` ORDER BY `id` DESC LIMIT ?"

// Timeouts applied to the history database unless the DSN sets its own
const (
	defaultDialTimeout = 5 * time.Second
	defaultIOTimeout   = 10 * time.Second
	operationTimeout   = 15 * time.Second
)

// MySQLStorage keeps the run history in a MySQL table shared across machines
type MySQLStorage struct {
	db          *sql.DB
	limit       int
	dialTimeout time.Duration

	mu    sync.Mutex
	ready bool
}

// ValidateDSN reports whether dsn can back the history store
func ValidateDSN(dsn string) error {
	_, err := parseDSN(dsn)
	return err
}

func parseDSN(dsn string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid history dsn: %w", err)
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("invalid history dsn: database name is required")
	}
	return cfg, nil
}

// NewMySQLStorage opens (lazily) the database behind dsn. The friday_runs
// table is created on first use.
func NewMySQLStorage(dsn string, limit int) (*MySQLStorage, error) {
	cfg, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultDialTimeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = defaultIOTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = defaultIOTimeout
	}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if limit <= 0 {
		limit = 50
	}
	return &MySQLStorage{db: db, limit: limit, dialTimeout: cfg.Timeout}, nil
}

// Close releases the database handle
func (s *MySQLStorage) Close() error {
	return s.db.Close()
}

func (s *MySQLStorage) ensureTable(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping history database: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, createRunsTable); err != nil {
		return fmt.Errorf("failed to create history table: %w", err)
	}
	s.ready = true
	return nil
}

// Save inserts record
func (s *MySQLStorage) Save(record domain.RunRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()
	if err := s.ensureTable(ctx); err != nil {
		return err
	}

	createdAt, err := time.Parse(time.RFC3339, record.Timestamp)
	if err != nil {
		createdAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx, insertRun,
		record.SpecFile, record.BaseURL, record.Output, record.Status,
		record.TotalTests, record.PathsTested, record.Message, record.Error,
		record.DurationSeconds, createdAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// Load returns the most recent runs, oldest first
func (s *MySQLStorage) Load() (*domain.HistoryOutput, error) {
	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()
	if err := s.ensureTable(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, selectRuns, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunRecord
	for rows.Next() {
		var (
			r         domain.RunRecord
			createdAt time.Time
		)
		if err := rows.Scan(&r.SpecFile, &r.BaseURL, &r.Output, &r.Status, &r.TotalTests, &r.PathsTested,
			&r.Message, &r.Error, &r.DurationSeconds, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		d := time.Duration(r.DurationSeconds * float64(time.Second))
		r.Duration = d.String()
		r.Timestamp = createdAt.UTC().Format(time.RFC3339)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	if len(runs) == 0 {
		return nil, ErrNoHistory
	}

	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	output := &domain.HistoryOutput{Runs: runs}
	output.Recount()
	return output, nil
}
