package form

import (
	"fmt"
	"strings"

	"friday/internal/domain"
)

// UnknownErrorMessage is shown when an error carries no text
const UnknownErrorMessage = "An unknown error occurred"

// FormatResult renders a successful run summary
func FormatResult(result *domain.TestResult) string {
	var b strings.Builder
	b.WriteString("API tests completed\n")
	fmt.Fprintf(&b, "Total Tests: %d\n", result.TotalTests)
	fmt.Fprintf(&b, "Paths Tested: %d\n", result.PathsTested)
	fmt.Fprintf(&b, "Message: %s", result.Message)
	return b.String()
}

// FormatError renders err as a status line
func FormatError(err error) string {
	msg := ""
	if err != nil {
		msg = strings.TrimSpace(err.Error())
	}
	if msg == "" {
		msg = UnknownErrorMessage
	}
	return "Error: " + msg
}
