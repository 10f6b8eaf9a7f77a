package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// VersionCommand handles the version command
type VersionCommand struct {
	version string
	out     io.Writer
}

// NewVersionCommand creates a new VersionCommand
func NewVersionCommand(version string, out io.Writer) *VersionCommand {
	return &VersionCommand{version: version, out: out}
}

// Execute runs the command
func (vc *VersionCommand) Execute(cmd *cobra.Command, args []string) error {
	_, err := fmt.Fprintf(vc.out, "friday %s\n", displayVersion(vc.version))
	return err
}

// displayVersion prefixes release versions with "v" and leaves development
// builds ("dev", or nothing set at build time) as "dev".
func displayVersion(version string) string {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	if version == "" || version == "dev" {
		return "dev"
	}
	return "v" + version
}
