package config

import "time"

const (
	// DefaultServiceURL is the address of the remote test-execution service
	DefaultServiceURL = "http://localhost:8000"
	// DefaultOutputFilename is the report name sent when none is given
	DefaultOutputFilename = "api_test_report.md"
	// DefaultSpecPath is where spec discovery starts
	DefaultSpecPath = "."
	// DefaultHistoryDir is the directory holding the local run history
	DefaultHistoryDir = ".friday"
	// DefaultHistoryFile is the run history file name
	DefaultHistoryFile = "runs.json"
	// DefaultHistoryLimit caps the number of runs kept in history
	DefaultHistoryLimit = 50
	// DefaultEnvFile is the dotenv file read on startup and written by setup
	DefaultEnvFile = ".env"
	// DefaultLogLevel is the diagnostic log level when --verbose is not set
	DefaultLogLevel = "warn"
	// DefaultRequestTimeout of zero leaves the request unbounded
	DefaultRequestTimeout time.Duration = 0
)

// DefaultPathsToIgnore are the directories skipped when scanning for spec files
var DefaultPathsToIgnore = []string{
	"vendor",
	"node_modules",
	"dist",
	"build",
	"coverage",
}
