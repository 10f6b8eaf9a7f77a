// Package form holds the API test submission form: its input state, local
// validation and the single in-flight submission to the test service.
package form

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"friday/internal/domain"
	"friday/internal/specfile"
)

// DefaultOutputFilename is sent when the output field is blank
const DefaultOutputFilename = "api_test_report.md"

var outputPattern = regexp.MustCompile(`^[\w-]+\.md$`)

// Runner runs the API tests remotely
type Runner interface {
	RunAPITests(ctx context.Context, sub domain.Submission) (*domain.TestResult, error)
}

// Snapshot is a copy of the form state handed to change listeners
type Snapshot struct {
	SpecFile       string
	BaseURL        string
	OutputFilename string
	Submitting     bool
	CanSubmit      bool
	Status         string
}

// Option configures a Form
type Option func(*Form)

// WithLogger sets the diagnostic logger
func WithLogger(logger *zap.Logger) Option {
	return func(f *Form) { f.logger = logger }
}

// Form collects a spec file, a base URL and an output filename and submits
// them to a Runner, one submission at a time.
type Form struct {
	runner Runner
	logger *zap.Logger

	mu             sync.Mutex
	specFile       domain.SpecFile
	baseURL        string
	outputFilename string
	submitting     bool
	status         string
	result         *domain.TestResult
	last           domain.Submission
	duration       time.Duration
	listeners      []func(Snapshot)
}

// New creates a Form with the default output filename
func New(runner Runner, opts ...Option) *Form {
	f := &Form{
		runner:         runner,
		logger:         zap.NewNop(),
		outputFilename: DefaultOutputFilename,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// OnChange registers fn to be called after every state change
func (f *Form) OnChange(fn func(Snapshot)) {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
}

// SetSpecFile selects the specification file; nil clears it
func (f *Form) SetSpecFile(file domain.SpecFile) {
	f.update(func() { f.specFile = file })
}

// SetBaseURL sets the base URL of the API under test
func (f *Form) SetBaseURL(baseURL string) {
	f.update(func() { f.baseURL = baseURL })
}

// SetOutputFilename sets the report filename
func (f *Form) SetOutputFilename(name string) {
	f.update(func() { f.outputFilename = name })
}

// Submitting reports whether a submission is in flight
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// CanSubmit reports whether the submit action is enabled: nothing in flight
// and both required fields present.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canSubmitLocked()
}

// Status returns the current status text
func (f *Form) Status() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Result returns the last successful result, or nil
func (f *Form) Result() *domain.TestResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Duration returns how long the last settled submission took
func (f *Form) Duration() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.duration
}

// LastSubmission returns what the most recent valid Submit sent
func (f *Form) LastSubmission() domain.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// Snapshot returns a copy of the current state
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Validate checks the current inputs without submitting
func (f *Form) Validate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateLocked()
}

// Submit validates the inputs and, if they pass, runs the tests remotely.
// Validation failures and in-flight rejections never call the Runner.
func (f *Form) Submit(ctx context.Context) (*domain.TestResult, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	if err := f.validateLocked(); err != nil {
		f.status = FormatError(err)
		f.mu.Unlock()
		f.notify()
		return nil, err
	}

	sub := domain.Submission{
		Spec:           f.specFile,
		BaseURL:        strings.TrimSpace(f.baseURL),
		OutputFilename: strings.TrimSpace(f.outputFilename),
	}
	if sub.OutputFilename == "" {
		sub.OutputFilename = DefaultOutputFilename
	}
	f.submitting = true
	f.last = sub
	f.status = ""
	f.result = nil
	f.mu.Unlock()
	f.notify()

	f.logger.Debug("submitting spec",
		zap.String("spec", sub.Spec.Name()),
		zap.String("base_url", sub.BaseURL),
		zap.String("output", sub.OutputFilename))

	start := time.Now()
	result, err := f.runner.RunAPITests(ctx, sub)
	if err == nil && result == nil {
		err = errNoResult
	}
	f.settle(result, err, time.Since(start))

	if err != nil {
		f.logger.Debug("submission failed", zap.Error(err))
		return nil, err
	}
	f.logger.Debug("submission completed",
		zap.Int("total_tests", result.TotalTests),
		zap.Int("paths_tested", int(result.PathsTested)))
	return result, nil
}

func (f *Form) settle(result *domain.TestResult, err error, elapsed time.Duration) {
	f.mu.Lock()
	f.submitting = false
	f.duration = elapsed
	if err != nil {
		f.status = FormatError(err)
	} else {
		f.result = result
		f.status = FormatResult(result)
	}
	f.mu.Unlock()
	f.notify()
}

func (f *Form) validateLocked() error {
	if f.specFile == nil {
		return ErrMissingSpecFile
	}
	if strings.TrimSpace(f.baseURL) == "" {
		return ErrMissingBaseURL
	}
	if !specfile.HasSupportedExtension(f.specFile.Name()) {
		return ErrInvalidFileType
	}
	if out := strings.TrimSpace(f.outputFilename); out != "" && !outputPattern.MatchString(out) {
		return ErrInvalidOutput
	}
	return nil
}

func (f *Form) canSubmitLocked() bool {
	return !f.submitting && f.specFile != nil && strings.TrimSpace(f.baseURL) != ""
}

func (f *Form) snapshotLocked() Snapshot {
	s := Snapshot{
		BaseURL:        f.baseURL,
		OutputFilename: f.outputFilename,
		Submitting:     f.submitting,
		CanSubmit:      f.canSubmitLocked(),
		Status:         f.status,
	}
	if f.specFile != nil {
		s.SpecFile = f.specFile.Name()
	}
	return s
}

func (f *Form) update(mutate func()) {
	f.mu.Lock()
	mutate()
	f.mu.Unlock()
	f.notify()
}

func (f *Form) notify() {
	f.mu.Lock()
	snap := f.snapshotLocked()
	listeners := append([]func(Snapshot){}, f.listeners...)
	f.mu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

// IsValidationError reports whether err is a local validation failure
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
