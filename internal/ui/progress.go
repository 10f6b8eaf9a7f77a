package ui

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// Spinner shows an indeterminate progress indicator while a request is in flight
type Spinner struct {
	description string
	writer      io.Writer

	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	done    chan struct{}
	stopped chan struct{}
}

// NewSpinnerTo creates a spinner writing to w, or to stderr when w is nil
func NewSpinnerTo(description string, w io.Writer) *Spinner {
	if w == nil {
		w = os.Stderr
	}
	return &Spinner{description: description, writer: w}
}

// Start begins animating. Calling Start on a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar != nil {
		return
	}

	s.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(s.description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(s.writer),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
	s.done = make(chan struct{})
	s.stopped = make(chan struct{})

	go func(bar *progressbar.ProgressBar, done, stopped chan struct{}) {
		defer close(stopped)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}(s.bar, s.done, s.stopped)
}

// Stop clears the spinner. Calling Stop on a stopped spinner does nothing.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar == nil {
		return
	}
	close(s.done)
	<-s.stopped
	_ = s.bar.Finish()
	s.bar = nil
}
