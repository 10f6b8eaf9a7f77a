package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"friday/internal/domain"
	"friday/internal/specfile"
)

// Formatter formats and displays output
type Formatter struct {
	out io.Writer
}

// NewFormatterTo creates a Formatter writing to w, or to colour-aware stdout when w is nil
func NewFormatterTo(w io.Writer) *Formatter {
	if w == nil {
		w = color.Output
	}
	return &Formatter{out: w}
}

const rowSeparator = "├─────────────────────────────────┼─────────────────────────────┤"

func (f *Formatter) header(title string) {
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, color.CyanString("╔═══════════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(f.out, color.CyanString("║ %-61s ║", centre(title, 61)))
	fmt.Fprintln(f.out, color.CyanString("╚═══════════════════════════════════════════════════════════════╝"))
	fmt.Fprintln(f.out)
}

func (f *Formatter) row(label, value string, paint func(string, ...interface{}) string) {
	fmt.Fprintf(f.out, "│ %-31s │ %s │\n", label, paint("%-27s", truncate(value, 27)))
}

// PrintStatus prints the form status text: green for a completed run, red for an error line.
func (f *Formatter) PrintStatus(status string) {
	if status == "" {
		return
	}
	paint := color.GreenString
	if strings.HasPrefix(status, "Error:") {
		paint = color.RedString
	}
	for _, line := range strings.Split(status, "\n") {
		fmt.Fprintln(f.out, paint("%s", line))
	}
}

// PrintNotice prints a yellow one-line notice, e.g. when nothing matched
func (f *Formatter) PrintNotice(msg string) {
	fmt.Fprintln(f.out, color.YellowString("%s", msg))
}

// PrintResult prints a run summary table
func (f *Formatter) PrintResult(sub domain.Submission, result *domain.TestResult, record domain.RunRecord) {
	f.header("API Test Results")

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	specName := ""
	if sub.Spec != nil {
		specName = sub.Spec.Name()
	}
	f.row("Specification", specName, color.WhiteString)
	fmt.Fprintln(f.out, rowSeparator)
	f.row("Base URL", sub.BaseURL, color.WhiteString)
	fmt.Fprintln(f.out, rowSeparator)
	f.row("Report", sub.OutputFilename, color.WhiteString)
	fmt.Fprintln(f.out, rowSeparator)
	f.row("Total Tests", fmt.Sprintf("%d", result.TotalTests), color.GreenString)
	fmt.Fprintln(f.out, rowSeparator)
	f.row("Paths Tested", fmt.Sprintf("%d", result.PathsTested), color.GreenString)
	fmt.Fprintln(f.out, rowSeparator)
	f.row("Duration", fmt.Sprintf("%.2fs", record.DurationSeconds), color.WhiteString)
	fmt.Fprintln(f.out, rowSeparator)
	f.row("Timestamp", record.Timestamp, color.WhiteString)
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")
	fmt.Fprintln(f.out)
}

// PrintSpecList prints discovered spec files as a tree relative to root
func (f *Formatter) PrintSpecList(root string, files []string) {
	fmt.Fprintln(f.out, color.GreenString("Found %d specification file(s):", len(files)))
	fmt.Fprintln(f.out)
	for i, file := range files {
		relPath, err := filepath.Rel(root, file)
		if err != nil {
			relPath = file
		}
		branch := "├── "
		if i == len(files)-1 {
			branch = "└── "
		}
		fmt.Fprintln(f.out, color.CyanString("%s%s", branch, relPath))
	}
}

// PrintSummary prints a locally inspected spec document
func (f *Formatter) PrintSummary(name string, s *specfile.Summary) {
	f.header("Specification " + name)

	fmt.Fprintf(f.out, "%s %s %s\n", color.CyanString("Format:"), s.Format, s.SpecVersion)
	if s.Title != "" {
		fmt.Fprintf(f.out, "%s %s (%s)\n", color.CyanString("API:"), s.Title, s.APIVersion)
	}
	for _, server := range s.Servers {
		fmt.Fprintf(f.out, "%s %s\n", color.CyanString("Server:"), server)
	}
	fmt.Fprintf(f.out, "%s %d paths, %d operations\n", color.CyanString("Surface:"), len(s.Paths), s.Operations)
	fmt.Fprintln(f.out)
	for i, path := range s.Paths {
		branch := "├── "
		if i == len(s.Paths)-1 {
			branch = "└── "
		}
		fmt.Fprintln(f.out, color.YellowString("%s%s", branch, path))
	}
}

// PrintHistory prints stored runs, oldest first
func (f *Formatter) PrintHistory(history *domain.HistoryOutput) {
	f.header("API Test Run History")

	meta := history.Meta
	fmt.Fprintf(f.out, "%s %d   %s %s   %s %s\n\n",
		color.CyanString("Runs:"), meta.TotalRuns,
		color.CyanString("Passed:"), color.GreenString("%d", meta.Successful),
		color.CyanString("Failed:"), color.RedString("%d", meta.Failed))

	for _, run := range history.Runs {
		if run.Status == domain.StatusSuccess {
			fmt.Fprintf(f.out, "%s %s %s -> %s  %s\n",
				color.GreenString("✓"), run.Timestamp, run.SpecFile, run.BaseURL,
				color.WhiteString("tests: %d, paths: %d (%.2fs)", run.TotalTests, run.PathsTested, run.DurationSeconds))
			continue
		}
		fmt.Fprintf(f.out, "%s %s %s -> %s  %s\n",
			color.RedString("✗"), run.Timestamp, run.SpecFile, run.BaseURL,
			color.RedString("%s", run.Error))
	}
}

func centre(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
