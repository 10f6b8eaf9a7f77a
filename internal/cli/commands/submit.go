package commands

import (
	"context"
	"errors"
	"fmt"

	"friday/internal/form"
	"friday/internal/specfile"
	"friday/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// SubmitCommand handles the submit command
type SubmitCommand struct {
	deps      *deps
	formatter *ui.Formatter
}

// NewSubmitCommand creates a new SubmitCommand
func NewSubmitCommand(d *deps, formatter *ui.Formatter) *SubmitCommand {
	return &SubmitCommand{deps: d, formatter: formatter}
}

// Execute runs the command
func (sc *SubmitCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := sc.deps.cfg
	if _, err := sc.deps.history(); err != nil {
		return err
	}
	f := form.New(sc.deps.testRunner(), form.WithLogger(sc.deps.logger))

	var file *specfile.File
	if path := cfg.Flags.SpecFile; path != "" {
		opened, err := specfile.Open(path)
		if err != nil {
			return err
		}
		file = opened
		f.SetSpecFile(file)
	}
	f.SetBaseURL(cfg.GetBaseURL())
	f.SetOutputFilename(cfg.GetOutputFilename())

	// Pre-flight only makes sense for inputs the form would accept.
	if cfg.Flags.Check && f.Validate() == nil {
		if err := sc.check(cmd.Context(), file); err != nil {
			sc.formatter.PrintStatus(form.FormatError(err))
			return ErrReported
		}
	}

	spinner := ui.NewSpinnerTo("Running API tests...", sc.deps.opts.Err)
	f.OnChange(func(snap form.Snapshot) {
		if snap.Submitting {
			spinner.Start()
			return
		}
		spinner.Stop()
	})

	result, err := f.Submit(cmd.Context())
	spinner.Stop()
	sc.formatter.PrintStatus(f.Status())

	if form.IsValidationError(err) || errors.Is(err, form.ErrSubmissionInFlight) {
		return ErrReported
	}

	sub := f.LastSubmission()
	record := sc.deps.record(sub, result, err, f.Duration())

	if err != nil {
		return ErrReported
	}
	sc.formatter.PrintResult(sub, result, record)
	return nil
}

func (sc *SubmitCommand) check(ctx context.Context, file *specfile.File) error {
	inspector := specfile.NewInspector(specfile.InspectorOptions{Validate: true})
	summary, err := inspector.Inspect(ctx, file)
	if err != nil {
		return fmt.Errorf("%s is not a usable specification: %w", file.Name(), err)
	}
	fmt.Fprintln(sc.deps.opts.Out, color.CyanString("%s: %s %s, %d paths, %d operations",
		file.Name(), summary.Format, summary.SpecVersion, len(summary.Paths), summary.Operations))
	return nil
}
