package commands

import (
	"friday/internal/domain"
	"friday/internal/form"
	"friday/internal/specfile"
	"friday/internal/ui"

	"github.com/spf13/cobra"
)

// FormCommand handles the form command
type FormCommand struct {
	deps *deps
	// configure adjusts the view before it runs; tests attach a simulation screen
	configure func(*ui.FormView)
}

// NewFormCommand creates a new FormCommand
func NewFormCommand(d *deps) *FormCommand {
	return &FormCommand{deps: d}
}

// Execute runs the command
func (fc *FormCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := fc.deps.cfg
	if _, err := fc.deps.history(); err != nil {
		return err
	}
	f := form.New(fc.deps.testRunner(), form.WithLogger(fc.deps.logger))

	view := ui.NewFormView(f, openSpec, ui.FormDefaults{
		SpecPath:       cfg.Flags.SpecFile,
		BaseURL:        cfg.GetBaseURL(),
		OutputFilename: cfg.GetOutputFilename(),
	})
	view.OnSettled = func(sub domain.Submission, result *domain.TestResult, err error) {
		fc.deps.record(sub, result, err, f.Duration())
	}
	if fc.configure != nil {
		fc.configure(view)
	}
	return view.Run(cmd.Context())
}

func openSpec(path string) (domain.SpecFile, error) {
	file, err := specfile.Open(path)
	if err != nil {
		return nil, err
	}
	return file, nil
}
