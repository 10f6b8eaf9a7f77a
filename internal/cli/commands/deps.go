package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"friday/internal/client"
	"friday/internal/config"
	"friday/internal/domain"
	"friday/internal/form"
	flog "friday/internal/log"
	"friday/internal/setup"
	"friday/internal/storage"
)

// ErrReported means the failure was already shown to the user; only the exit code is left.
var ErrReported = errors.New("failure already reported")

// Options overrides dependencies, mostly for tests
type Options struct {
	Out      io.Writer
	Err      io.Writer
	Runner   form.Runner
	Storage  storage.Storage
	Prompter setup.Prompter
	Logger   *zap.Logger
}

// deps holds dependencies resolved once flags are parsed. The test service
// client and the history store are built on first use, so commands that
// need neither keep working when their settings are broken.
type deps struct {
	cfg  *config.Config
	opts Options

	logger  *zap.Logger
	runner  form.Runner
	storage storage.Storage
}

func newDeps(cfg *config.Config, opts Options) *deps {
	if opts.Out == nil {
		opts.Out = color.Output
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	return &deps{cfg: cfg, opts: opts, logger: zap.NewNop()}
}

// prepare builds the logger from the parsed configuration and drops the
// client and store built for an earlier configuration.
func (d *deps) prepare() error {
	d.runner = nil
	d.storage = nil

	if d.opts.Logger != nil {
		d.logger = d.opts.Logger
		return nil
	}
	logger, err := flog.New(d.cfg.GetLogLevel())
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	d.logger = logger
	return nil
}

// testRunner returns the test service client
func (d *deps) testRunner() form.Runner {
	if d.runner != nil {
		return d.runner
	}
	if d.opts.Runner != nil {
		d.runner = d.opts.Runner
		return d.runner
	}
	d.runner = client.New(client.Options{
		ServiceURL: d.cfg.GetServiceURL(),
		Token:      d.cfg.APIToken,
		Timeout:    d.cfg.RequestTimeout,
		Logger:     d.logger,
	})
	return d.runner
}

// history returns the run history store
func (d *deps) history() (storage.Storage, error) {
	if d.storage != nil {
		return d.storage, nil
	}
	if d.opts.Storage != nil {
		d.storage = d.opts.Storage
		return d.storage, nil
	}
	st, err := storage.New(d.cfg)
	if err != nil {
		return nil, fmt.Errorf("run history: %w", err)
	}
	d.storage = st
	return st, nil
}

// record saves a settled submission to history. A failing store only logs.
func (d *deps) record(sub domain.Submission, result *domain.TestResult, runErr error, elapsed time.Duration) domain.RunRecord {
	record := domain.NewRunRecord(sub, result, runErr, elapsed, time.Now())
	st, err := d.history()
	if err != nil {
		d.logger.Warn("failed to open run history", zap.Error(err))
		return record
	}
	if err := st.Save(record); err != nil {
		d.logger.Warn("failed to save run history", zap.Error(err))
	}
	return record
}
