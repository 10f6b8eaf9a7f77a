package commands

import (
	"errors"

	"friday/internal/storage"
	"friday/internal/ui"

	"github.com/spf13/cobra"
)

// ReportCommand handles the report command
type ReportCommand struct {
	deps      *deps
	formatter *ui.Formatter
}

// NewReportCommand creates a new ReportCommand
func NewReportCommand(d *deps, formatter *ui.Formatter) *ReportCommand {
	return &ReportCommand{deps: d, formatter: formatter}
}

// Execute runs the command
func (rc *ReportCommand) Execute(cmd *cobra.Command, args []string) error {
	st, err := rc.deps.history()
	if err != nil {
		return err
	}
	history, err := st.Load()
	if errors.Is(err, storage.ErrNoHistory) {
		rc.formatter.PrintNotice("No test runs recorded yet. Run 'friday submit' first.")
		return nil
	}
	if err != nil {
		return err
	}

	if limit := rc.deps.cfg.Flags.Limit; limit > 0 && len(history.Runs) > limit {
		history.Runs = history.Runs[len(history.Runs)-limit:]
	}
	if len(history.Runs) == 0 {
		rc.formatter.PrintNotice("No test runs recorded yet. Run 'friday submit' first.")
		return nil
	}

	rc.formatter.PrintHistory(history)
	return nil
}
