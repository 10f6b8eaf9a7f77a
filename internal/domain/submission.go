package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// SpecFile is a handle on a user-selected specification document
type SpecFile interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// Submission is the validated input handed to the test service
type Submission struct {
	Spec           SpecFile
	BaseURL        string
	OutputFilename string
}

// TestResult is the summary returned by the test service
type TestResult struct {
	TotalTests  int         `json:"total_tests"`
	PathsTested PathsTested `json:"paths_tested"`
	Message     string      `json:"message"`
}

// PathsTested counts the distinct paths the service exercised. The service
// reports either a number or the list of paths.
type PathsTested int

// UnmarshalJSON accepts an integer or an array of path strings
func (p *PathsTested) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}
	if data[0] == '[' {
		var paths []string
		if err := json.Unmarshal(data, &paths); err != nil {
			return fmt.Errorf("paths_tested: %w", err)
		}
		seen := make(map[string]struct{}, len(paths))
		for _, path := range paths {
			seen[path] = struct{}{}
		}
		*p = PathsTested(len(seen))
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("paths_tested: %w", err)
	}
	*p = PathsTested(n)
	return nil
}
