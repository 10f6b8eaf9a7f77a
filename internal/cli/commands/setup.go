package commands

import (
	"fmt"

	"friday/internal/setup"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// SetupCommand handles the setup command
type SetupCommand struct {
	deps *deps
}

// NewSetupCommand creates a new SetupCommand
func NewSetupCommand(d *deps) *SetupCommand {
	return &SetupCommand{deps: d}
}

// Execute runs the command
func (sc *SetupCommand) Execute(cmd *cobra.Command, args []string) error {
	var prompter setup.Prompter = setup.NewSurveyPrompter()
	if sc.deps.opts.Prompter != nil {
		prompter = sc.deps.opts.Prompter
	}

	path := sc.deps.cfg.EnvFile
	out := sc.deps.opts.Out
	fmt.Fprintln(out, color.CyanString("Configure friday (leave blank to keep the current value)"))

	values, err := setup.NewEditor(path, prompter).Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	fmt.Fprintln(out)
	for _, param := range setup.Params {
		value, ok := values[param.Key]
		if !ok {
			continue
		}
		if param.Secret {
			value = setup.Mask(value)
		}
		fmt.Fprintf(out, "%s %s\n", color.CyanString("%s:", param.Key), value)
	}
	fmt.Fprintln(out, color.GreenString("Configuration saved to %s", path))
	return nil
}
