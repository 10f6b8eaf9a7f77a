package commands

import (
	"fmt"

	"friday/internal/config"
	"friday/internal/form"
	"friday/internal/specfile"
	"friday/internal/ui"

	"github.com/spf13/cobra"
)

// InspectCommand handles the inspect command
type InspectCommand struct {
	config    *config.Config
	formatter *ui.Formatter
}

// NewInspectCommand creates a new InspectCommand
func NewInspectCommand(cfg *config.Config, formatter *ui.Formatter) *InspectCommand {
	return &InspectCommand{config: cfg, formatter: formatter}
}

// Execute runs the command
func (ic *InspectCommand) Execute(cmd *cobra.Command, args []string) error {
	file, err := specfile.Open(args[0])
	if err != nil {
		return err
	}
	if !specfile.HasSupportedExtension(file.Name()) {
		return form.ErrInvalidFileType
	}

	inspector := specfile.NewInspector(specfile.InspectorOptions{Validate: ic.config.Flags.Validate})
	summary, err := inspector.Inspect(cmd.Context(), file)
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", file.Name(), err)
	}

	ic.formatter.PrintSummary(file.Name(), summary)
	return nil
}
