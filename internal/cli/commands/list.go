package commands

import (
	"friday/internal/config"
	"friday/internal/specfile"
	"friday/internal/ui"

	"github.com/spf13/cobra"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	scanner   *specfile.Scanner
	filter    *specfile.Filter
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	scanner *specfile.Scanner,
	filter *specfile.Filter,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		scanner:   scanner,
		filter:    filter,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	root := lc.config.GetSpecPath()
	files, err := lc.scanner.Scan(root)
	if err != nil {
		return err
	}

	files = lc.filter.FilterByName(files, lc.config.Flags.NameFilter)

	if len(files) == 0 {
		lc.formatter.PrintNotice("No specification files found")
		return nil
	}

	lc.formatter.PrintSpecList(root, files)
	return nil
}
