package commands

import (
	"friday/internal/cli"
	"friday/internal/config"
	"friday/internal/specfile"
	"friday/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Submit  *SubmitCommand
	Form    *FormCommand
	List    *ListCommand
	Inspect *InspectCommand
	Report  *ReportCommand
	Setup   *SetupCommand
	Version *VersionCommand

	deps *deps
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config, version string) *Commands {
	return NewCommandsWithOptions(cfg, version, Options{})
}

// NewCommandsWithOptions creates all commands, taking overrides from opts
func NewCommandsWithOptions(cfg *config.Config, version string, opts Options) *Commands {
	d := newDeps(cfg, opts)
	scanner := specfile.NewScanner(cfg.PathsToIgnore)
	filter := specfile.NewFilter()
	formatter := ui.NewFormatterTo(d.opts.Out)

	return &Commands{
		Submit:  NewSubmitCommand(d, formatter),
		Form:    NewFormCommand(d),
		List:    NewListCommand(cfg, scanner, filter, formatter),
		Inspect: NewInspectCommand(cfg, formatter),
		Report:  NewReportCommand(d, formatter),
		Setup:   NewSetupCommand(d),
		Version: NewVersionCommand(version, d.opts.Out),
		deps:    d,
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Loads the dotenv file and FRIDAY_* variables, then applies flags on top.
	preRun := func(cmd *cobra.Command, args []string) error {
		if flags.EnvFile != "" {
			cfg.EnvFile = flags.EnvFile
		}
		if err := cfg.LoadEnv(); err != nil {
			return err
		}
		cfg.Flags = flags.ToConfigFlags()
		return c.deps.prepare()
	}

	rootCmd.PersistentFlags().StringVar(&flags.EnvFile, "env-file", config.DefaultEnvFile, "Path to the dotenv file with FRIDAY_* settings")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging on stderr")

	// Submit command
	submitCmd := &cobra.Command{
		Use:     "submit",
		Short:   "Submit a specification to the API test service",
		Long:    "Validate an OpenAPI/Swagger file and a base URL, then run the API tests remotely and print the summary",
		RunE:    c.Submit.Execute,
		PreRunE: preRun,
	}
	submitCmd.Flags().StringVarP(&flags.SpecFile, "spec", "s", "", "OpenAPI/Swagger specification file (.json, .yaml, .yml)")
	submitCmd.Flags().StringVarP(&flags.BaseURL, "base-url", "u", "", "Base URL of the API under test")
	submitCmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Report filename (default \""+config.DefaultOutputFilename+"\")")
	submitCmd.Flags().StringVar(&flags.ServiceURL, "service-url", "", "Test service URL (overrides FRIDAY_SERVICE_URL)")
	submitCmd.Flags().BoolVar(&flags.Check, "check", false, "Load the specification locally before submitting it")
	rootCmd.AddCommand(submitCmd)

	// Form command
	formCmd := &cobra.Command{
		Use:     "form",
		Short:   "Fill in the submission form interactively",
		Long:    "Open a terminal form for the specification file, base URL and report name",
		RunE:    c.Form.Execute,
		PreRunE: preRun,
	}
	formCmd.Flags().StringVarP(&flags.SpecFile, "spec", "s", "", "Pre-fill the specification file")
	formCmd.Flags().StringVarP(&flags.BaseURL, "base-url", "u", "", "Pre-fill the base URL")
	formCmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Pre-fill the report filename")
	formCmd.Flags().StringVar(&flags.ServiceURL, "service-url", "", "Test service URL (overrides FRIDAY_SERVICE_URL)")
	rootCmd.AddCommand(formCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List specification files",
		Long:    "Scan a directory for .json, .yaml and .yml files that can be submitted",
		RunE:    c.List.Execute,
		PreRunE: preRun,
	}
	listCmd.Flags().StringVarP(&flags.SpecPath, "path", "p", "", "Directory where discovery should start")
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter files by name pattern (supports wildcards, e.g. '*petstore*')")
	rootCmd.AddCommand(listCmd)

	// Inspect command
	inspectCmd := &cobra.Command{
		Use:     "inspect FILE",
		Short:   "Summarise a specification file locally",
		Long:    "Load an OpenAPI 3 or Swagger 2 document and print its title, servers and paths",
		Args:    cobra.ExactArgs(1),
		RunE:    c.Inspect.Execute,
		PreRunE: preRun,
	}
	inspectCmd.Flags().BoolVar(&flags.Validate, "validate", false, "Also validate the document")
	rootCmd.AddCommand(inspectCmd)

	// Report command
	reportCmd := &cobra.Command{
		Use:     "report",
		Short:   "Show recent test runs",
		Long:    "Display the run history recorded by submit and form",
		RunE:    c.Report.Execute,
		PreRunE: preRun,
	}
	reportCmd.Flags().IntVarP(&flags.Limit, "limit", "n", 10, "Number of runs to show")
	rootCmd.AddCommand(reportCmd)

	// Setup command
	setupCmd := &cobra.Command{
		Use:     "setup",
		Short:   "Configure environment parameters",
		Long:    "Prompt for the test service settings and save them to the dotenv file",
		RunE:    c.Setup.Execute,
		PreRunE: preRun,
	}
	rootCmd.AddCommand(setupCmd)

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show the version of friday",
		RunE:  c.Version.Execute,
	}
	rootCmd.AddCommand(versionCmd)
}
