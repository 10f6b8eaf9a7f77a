package domain

import "time"

// Run statuses recorded in history
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RunRecord is one settled submission kept in local history
type RunRecord struct {
	SpecFile        string  `json:"spec_file"`
	BaseURL         string  `json:"base_url"`
	Output          string  `json:"output"`
	Status          string  `json:"status"`
	TotalTests      int     `json:"total_tests"`
	PathsTested     int     `json:"paths_tested"`
	Message         string  `json:"message,omitempty"`
	Error           string  `json:"error,omitempty"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// HistoryMeta contains aggregate counts over the stored runs
type HistoryMeta struct {
	TotalRuns  int    `json:"total_runs"`
	Successful int    `json:"successful"`
	Failed     int    `json:"failed"`
	LastRun    string `json:"last_run"`
}

// HistoryOutput is the complete history document
type HistoryOutput struct {
	Meta HistoryMeta `json:"meta"`
	Runs []RunRecord `json:"runs"`
}

// Recount rebuilds Meta from Runs
func (h *HistoryOutput) Recount() {
	meta := HistoryMeta{TotalRuns: len(h.Runs)}
	for _, r := range h.Runs {
		if r.Status == StatusSuccess {
			meta.Successful++
		} else {
			meta.Failed++
		}
	}
	if n := len(h.Runs); n > 0 {
		meta.LastRun = h.Runs[n-1].Timestamp
	}
	h.Meta = meta
}

// NewRunRecord builds the history entry for a settled submission
func NewRunRecord(sub Submission, result *TestResult, runErr error, duration time.Duration, at time.Time) RunRecord {
	record := RunRecord{
		BaseURL:         sub.BaseURL,
		Output:          sub.OutputFilename,
		Duration:        duration.String(),
		DurationSeconds: duration.Seconds(),
		Timestamp:       at.Format(time.RFC3339),
	}
	if sub.Spec != nil {
		record.SpecFile = sub.Spec.Name()
	}
	if runErr != nil || result == nil {
		record.Status = StatusError
		if runErr != nil {
			record.Error = runErr.Error()
		}
		return record
	}
	record.Status = StatusSuccess
	record.TotalTests = result.TotalTests
	record.PathsTested = int(result.PathsTested)
	record.Message = result.Message
	return record
}
