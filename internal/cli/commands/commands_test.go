package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"friday/internal/cli"
	"friday/internal/config"
	"friday/internal/domain"
	"friday/internal/form"
	"friday/internal/setup"
	"friday/internal/storage"
	"friday/internal/ui"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const petstore = `openapi: 3.0.3
info:
  title: Pet Store
  version: 1.0.0
paths:
  /pets:
    get:
      responses:
        '200':
          description: ok
`

func init() {
	color.NoColor = true
}

type fakeRunner struct {
	result *domain.TestResult
	err    error
	calls  []domain.Submission
}

func (r *fakeRunner) RunAPITests(_ context.Context, sub domain.Submission) (*domain.TestResult, error) {
	r.calls = append(r.calls, sub)
	return r.result, r.err
}

type memoryStorage struct {
	mu   sync.Mutex
	runs []domain.RunRecord
}

func (s *memoryStorage) Save(record domain.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, record)
	return nil
}

func (s *memoryStorage) snapshot() []domain.RunRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.RunRecord(nil), s.runs...)
}

func (s *memoryStorage) Load() (*domain.HistoryOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.runs) == 0 {
		return nil, storage.ErrNoHistory
	}
	history := &domain.HistoryOutput{Runs: append([]domain.RunRecord(nil), s.runs...)}
	history.Recount()
	return history, nil
}

type answers map[string]string

func (a answers) Ask(_ context.Context, param setup.Param, _ string) (string, error) {
	return a[param.Key], nil
}

// execute runs args against a fresh root command and returns what was printed
func execute(t *testing.T, opts Options, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	opts.Out = &out
	opts.Err = io.Discard
	opts.Logger = zap.NewNop()
	if opts.Storage == nil {
		opts.Storage = &memoryStorage{}
	}

	cfg := config.New()
	rootCmd := &cobra.Command{Use: "friday", SilenceErrors: true, SilenceUsage: true}
	NewCommandsWithOptions(cfg, "1.2.3", opts).Register(rootCmd, &cli.Flags{}, cfg)

	envFile := filepath.Join(t.TempDir(), ".env")
	rootCmd.SetArgs(append(args, "--env-file", envFile))
	rootCmd.SetOut(&out)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSubmit_Success(t *testing.T) {
	spec := writeFile(t, t.TempDir(), "petstore.yaml", petstore)
	runner := &fakeRunner{result: &domain.TestResult{TotalTests: 12, PathsTested: 5, Message: "ok"}}
	store := &memoryStorage{}

	out, err := execute(t, Options{Runner: runner, Storage: store},
		"submit", "--spec", spec, "--base-url", "  https://petstore.example.com  ", "--output", "")
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "https://petstore.example.com", runner.calls[0].BaseURL)
	assert.Equal(t, form.DefaultOutputFilename, runner.calls[0].OutputFilename)
	assert.Equal(t, "petstore.yaml", runner.calls[0].Spec.Name())

	assert.Contains(t, out, "API tests completed\nTotal Tests: 12\nPaths Tested: 5\nMessage: ok")
	assert.Contains(t, out, "API Test Results")

	require.Len(t, store.runs, 1)
	assert.Equal(t, domain.StatusSuccess, store.runs[0].Status)
	assert.Equal(t, 12, store.runs[0].TotalTests)
}

func TestSubmit_ValidationErrors(t *testing.T) {
	dir := t.TempDir()
	yaml := writeFile(t, dir, "petstore.yaml", petstore)
	txt := writeFile(t, dir, "spec.txt", petstore)

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "missing spec",
			args:     []string{"submit", "--base-url", "https://api.example.com"},
			expected: "Error: Please upload an OpenAPI/Swagger specification file",
		},
		{
			name:     "missing base url",
			args:     []string{"submit", "--spec", yaml},
			expected: "Error: Please enter the base URL of the API",
		},
		{
			name:     "wrong extension",
			args:     []string{"submit", "--spec", txt, "--base-url", "https://api.example.com"},
			expected: "Error: Invalid file type. Please upload a .json, .yaml, or .yml file",
		},
		{
			name:     "bad output name",
			args:     []string{"submit", "--spec", yaml, "--base-url", "https://api.example.com", "--output", "report.txt"},
			expected: "Error: Output filename",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{result: &domain.TestResult{}}
			store := &memoryStorage{}
			out, err := execute(t, Options{Runner: runner, Storage: store}, tt.args...)

			if !errors.Is(err, ErrReported) {
				t.Fatalf("expected ErrReported, got %v", err)
			}
			if !strings.Contains(out, tt.expected) {
				t.Errorf("expected output to contain %q, got %q", tt.expected, out)
			}
			if len(runner.calls) != 0 {
				t.Errorf("expected no service call, got %d", len(runner.calls))
			}
			if len(store.runs) != 0 {
				t.Errorf("expected no history, got %d runs", len(store.runs))
			}
		})
	}
}

func TestSubmit_RunnerError(t *testing.T) {
	spec := writeFile(t, t.TempDir(), "petstore.json", `{"openapi": "3.0.3"}`)
	runner := &fakeRunner{err: errors.New("network down")}
	store := &memoryStorage{}

	out, err := execute(t, Options{Runner: runner, Storage: store},
		"submit", "--spec", spec, "--base-url", "https://api.example.com")
	require.ErrorIs(t, err, ErrReported)

	assert.Equal(t, "Error: network down\n", out)
	require.Len(t, store.runs, 1)
	assert.Equal(t, domain.StatusError, store.runs[0].Status)
	assert.Equal(t, "network down", store.runs[0].Error)
}

func TestSubmit_Check(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "petstore.yaml", petstore)
	bad := writeFile(t, dir, "broken.yaml", "openapi: [not, a, document")

	runner := &fakeRunner{result: &domain.TestResult{TotalTests: 1, PathsTested: 1, Message: "ok"}}
	out, err := execute(t, Options{Runner: runner},
		"submit", "--spec", good, "--base-url", "https://api.example.com", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "petstore.yaml: openapi 3.0.3, 1 paths, 1 operations")
	assert.Len(t, runner.calls, 1)

	runner = &fakeRunner{result: &domain.TestResult{}}
	out, err = execute(t, Options{Runner: runner},
		"submit", "--spec", bad, "--base-url", "https://api.example.com", "--check")
	require.ErrorIs(t, err, ErrReported)
	assert.Contains(t, out, "Error: broken.yaml is not a usable specification")
	assert.Empty(t, runner.calls)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "petstore.yaml", petstore)
	writeFile(t, dir, "apis/orders.json", "{}")
	writeFile(t, dir, "notes.txt", "")
	writeFile(t, dir, "node_modules/pkg/openapi.yml", "")

	out, err := execute(t, Options{}, "list", "--path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 specification file(s):")
	assert.Contains(t, out, "petstore.yaml")
	assert.Contains(t, out, filepath.Join("apis", "orders.json"))
	assert.NotContains(t, out, "notes.txt")
	assert.NotContains(t, out, "openapi.yml")

	out, err = execute(t, Options{}, "list", "--path", dir, "--filter", "*pet*")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 specification file(s):")

	out, err = execute(t, Options{}, "list", "--path", dir, "--filter", "inventory")
	require.NoError(t, err)
	assert.Equal(t, "No specification files found\n", out)
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	spec := writeFile(t, dir, "petstore.yaml", petstore)
	txt := writeFile(t, dir, "petstore.txt", petstore)

	out, err := execute(t, Options{}, "inspect", spec, "--validate")
	require.NoError(t, err)
	assert.Contains(t, out, "API: Pet Store (1.0.0)")
	assert.Contains(t, out, "Surface: 1 paths, 1 operations")
	assert.Contains(t, out, "└── /pets")

	_, err = execute(t, Options{}, "inspect", txt)
	assert.ErrorIs(t, err, form.ErrInvalidFileType)

	_, err = execute(t, Options{}, "inspect")
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	out, err := execute(t, Options{}, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "No test runs recorded yet")

	store := &memoryStorage{runs: []domain.RunRecord{
		{SpecFile: "old.yaml", BaseURL: "https://a.example.com", Status: domain.StatusError, Error: "boom", Timestamp: "2026-01-01T10:00:00Z"},
		{SpecFile: "new.yaml", BaseURL: "https://b.example.com", Status: domain.StatusSuccess, TotalTests: 3, PathsTested: 2, Timestamp: "2026-01-02T10:00:00Z"},
	}}

	out, err = execute(t, Options{Storage: store}, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "old.yaml")
	assert.Contains(t, out, "new.yaml")
	assert.Contains(t, out, "tests: 3, paths: 2")

	out, err = execute(t, Options{Storage: store}, "report", "--limit", "1")
	require.NoError(t, err)
	assert.NotContains(t, out, "old.yaml")
	assert.Contains(t, out, "new.yaml")
}

func TestSetup(t *testing.T) {
	var out bytes.Buffer
	cfg := config.New()
	rootCmd := &cobra.Command{Use: "friday", SilenceErrors: true, SilenceUsage: true}
	prompter := answers{
		"FRIDAY_SERVICE_URL": "http://svc:8000",
		"FRIDAY_API_TOKEN":   "secret-token",
	}
	NewCommandsWithOptions(cfg, "dev", Options{
		Out:      &out,
		Err:      io.Discard,
		Logger:   zap.NewNop(),
		Storage:  &memoryStorage{},
		Prompter: prompter,
	}).Register(rootCmd, &cli.Flags{}, cfg)

	envFile := filepath.Join(t.TempDir(), "friday.env")
	rootCmd.SetArgs([]string{"setup", "--env-file", envFile})
	require.NoError(t, rootCmd.Execute())

	values, err := godotenv.Read(envFile)
	require.NoError(t, err)
	assert.Equal(t, "http://svc:8000", values["FRIDAY_SERVICE_URL"])
	assert.Equal(t, "secret-token", values["FRIDAY_API_TOKEN"])

	assert.Contains(t, out.String(), "FRIDAY_SERVICE_URL: http://svc:8000")
	assert.NotContains(t, out.String(), "secret-token")
	assert.Contains(t, out.String(), "Configuration saved to "+envFile)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, Options{}, "version")
	require.NoError(t, err)
	assert.Equal(t, "friday v1.2.3\n", out)
}

func TestDisplayVersion(t *testing.T) {
	tests := []struct {
		version  string
		expected string
	}{
		{version: "1.2.3", expected: "v1.2.3"},
		{version: "v1.2.3", expected: "v1.2.3"},
		{version: "dev", expected: "dev"},
		{version: "", expected: "dev"},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			if got := displayVersion(tt.version); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestForm_SubmitSavesHistory(t *testing.T) {
	spec := writeFile(t, t.TempDir(), "petstore.yaml", petstore)
	runner := &fakeRunner{result: &domain.TestResult{TotalTests: 12, PathsTested: 5, Message: "ok"}}
	store := &memoryStorage{}

	cfg := config.New()
	cmds := NewCommandsWithOptions(cfg, "dev", Options{
		Out:     io.Discard,
		Err:     io.Discard,
		Logger:  zap.NewNop(),
		Runner:  runner,
		Storage: store,
	})
	screen := tcell.NewSimulationScreen("UTF-8")
	cmds.Form.configure = func(v *ui.FormView) {
		v.SetScreen(screen)
		// Tab past the three inputs onto the submit button and press it.
		for i := 0; i < 3; i++ {
			screen.InjectKey(tcell.KeyTab, 0, tcell.ModNone)
		}
		screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	}

	rootCmd := &cobra.Command{Use: "friday", SilenceErrors: true, SilenceUsage: true}
	cmds.Register(rootCmd, &cli.Flags{}, cfg)
	rootCmd.SetArgs([]string{"form",
		"--spec", spec,
		"--base-url", "https://api.example.com",
		"--env-file", filepath.Join(t.TempDir(), ".env"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- rootCmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool { return len(store.snapshot()) == 1 }, 5*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	run := store.snapshot()[0]
	assert.Equal(t, domain.StatusSuccess, run.Status)
	assert.Equal(t, "petstore.yaml", run.SpecFile)
	assert.Equal(t, "https://api.example.com", run.BaseURL)
	assert.Equal(t, form.DefaultOutputFilename, run.Output)
	assert.Equal(t, 12, run.TotalTests)
}

func TestBrokenHistoryDSN(t *testing.T) {
	t.Setenv("FRIDAY_HISTORY_DSN", "mysql://friday@db/friday")
	// Keeps the value setup writes from leaking into the process environment.
	t.Setenv("FRIDAY_SERVICE_URL", config.DefaultServiceURL)
	dir := t.TempDir()
	spec := writeFile(t, dir, "petstore.yaml", petstore)
	envFile := filepath.Join(t.TempDir(), ".env")

	run := func(runner form.Runner, args ...string) error {
		cfg := config.New()
		rootCmd := &cobra.Command{Use: "friday", SilenceErrors: true, SilenceUsage: true}
		NewCommandsWithOptions(cfg, "dev", Options{
			Out:      io.Discard,
			Err:      io.Discard,
			Logger:   zap.NewNop(),
			Runner:   runner,
			Prompter: answers{"FRIDAY_SERVICE_URL": "http://svc:8000"},
		}).Register(rootCmd, &cli.Flags{}, cfg)
		rootCmd.SetArgs(append(args, "--env-file", envFile))
		return rootCmd.Execute()
	}

	// Commands that never touch history keep working, setup included.
	require.NoError(t, run(nil, "setup"))
	require.NoError(t, run(nil, "list", "--path", dir))
	require.NoError(t, run(nil, "inspect", spec))
	require.NoError(t, run(nil, "version"))

	err := run(nil, "report")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid history dsn")

	runner := &fakeRunner{result: &domain.TestResult{}}
	err = run(runner, "submit", "--spec", spec, "--base-url", "https://api.example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid history dsn")
	assert.Empty(t, runner.calls)
}
