package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"friday/internal/domain"
	"friday/internal/form"
)

const submitLabel = "Run API Tests"

// Opener resolves a typed path into a spec file handle
type Opener func(path string) (domain.SpecFile, error)

// FormDefaults pre-fills the interactive form
type FormDefaults struct {
	SpecPath       string
	BaseURL        string
	OutputFilename string
}

// FormView is the interactive terminal rendition of the submission form
type FormView struct {
	form   *form.Form
	open   Opener
	app    *tview.Application
	layout *tview.Flex
	inputs *tview.Form
	status *tview.TextView
	submit *tview.Button

	specErr string
	// OnSettled is called after every submission settles, from the submitting goroutine
	OnSettled func(sub domain.Submission, result *domain.TestResult, err error)
}

// NewFormView builds the widgets for f
func NewFormView(f *form.Form, open Opener, defaults FormDefaults) *FormView {
	v := &FormView{
		form: f,
		open: open,
		app:  tview.NewApplication(),
	}

	v.status = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)
	v.status.SetBorder(true).SetTitle(" Status ")

	v.inputs = tview.NewForm().
		AddInputField("Specification file (.yaml/.yml/.json)", "", 60, nil, v.setSpecPath).
		AddInputField("Base URL", "", 60, nil, v.setBaseURL).
		AddInputField("Output filename", "", 40, AcceptOutputChar, v.setOutput).
		AddButton(submitLabel, v.onSubmit).
		AddButton("Quit", v.app.Stop)
	v.inputs.SetBorder(true).SetTitle(" API Test Submission ").SetTitleAlign(tview.AlignLeft)
	v.submit = v.inputs.GetButton(v.inputs.GetButtonIndex(submitLabel))

	v.layout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(v.inputs, 11, 0, true).
		AddItem(v.status, 0, 1, false)

	v.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			v.app.Stop()
			return nil
		}
		return event
	})

	output := defaults.OutputFilename
	if output == "" {
		output = form.DefaultOutputFilename
	}
	v.inputs.GetFormItem(0).(*tview.InputField).SetText(defaults.SpecPath)
	v.inputs.GetFormItem(1).(*tview.InputField).SetText(defaults.BaseURL)
	v.inputs.GetFormItem(2).(*tview.InputField).SetText(output)
	v.setSpecPath(defaults.SpecPath)
	v.setBaseURL(defaults.BaseURL)
	v.setOutput(output)

	f.OnChange(func(form.Snapshot) {
		// Settlement happens off the event loop; hop back onto it.
		go v.app.QueueUpdateDraw(v.refresh)
	})
	return v
}

// Run shows the form until the user quits or ctx is done
func (v *FormView) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		v.app.Stop()
	}()
	if err := v.app.SetRoot(v.layout, true).EnableMouse(true).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// SetScreen replaces the terminal screen, used with a simulation screen in tests
func (v *FormView) SetScreen(screen tcell.Screen) {
	v.app.SetScreen(screen)
}

func (v *FormView) setSpecPath(path string) {
	path = strings.TrimSpace(path)
	v.specErr = ""
	if path == "" {
		v.form.SetSpecFile(nil)
		v.refresh()
		return
	}
	file, err := v.open(path)
	if err != nil {
		v.specErr = err.Error()
		v.form.SetSpecFile(nil)
	} else {
		v.form.SetSpecFile(file)
	}
	v.refresh()
}

func (v *FormView) setBaseURL(text string) {
	v.form.SetBaseURL(text)
	v.refresh()
}

func (v *FormView) setOutput(text string) {
	v.form.SetOutputFilename(text)
	v.refresh()
}

func (v *FormView) onSubmit() {
	if !v.form.CanSubmit() {
		// Still surfaces the first validation message.
		if err := v.form.Validate(); err != nil {
			v.status.SetText(StatusMarkup(form.FormatError(err)))
		}
		return
	}
	go func() {
		result, err := v.form.Submit(context.Background())
		if v.OnSettled != nil && !errors.Is(err, form.ErrSubmissionInFlight) && !form.IsValidationError(err) {
			v.OnSettled(v.form.LastSubmission(), result, err)
		}
	}()
}

// refresh redraws widgets from the form state. Must run on the event loop.
func (v *FormView) refresh() {
	snap := v.form.Snapshot()
	v.submit.SetDisabled(!snap.CanSubmit)

	switch {
	case snap.Submitting:
		v.status.SetText("[yellow]Running API tests against " + tview.Escape(strings.TrimSpace(snap.BaseURL)) + " ...[white]")
	case v.specErr != "":
		v.status.SetText("[red]" + tview.Escape(v.specErr) + "[white]")
	default:
		v.status.SetText(StatusMarkup(snap.Status))
	}
}

// StatusMarkup colours a status text for a tview TextView
func StatusMarkup(status string) string {
	if status == "" {
		return ""
	}
	if strings.HasPrefix(status, "Error:") {
		return "[red]" + tview.Escape(status) + "[white]"
	}
	return "[green]" + tview.Escape(status) + "[white]"
}

// AcceptOutputChar restricts the output filename field to word characters,
// hyphens and dots.
func AcceptOutputChar(_ string, lastChar rune) bool {
	return lastChar == '-' || lastChar == '_' || lastChar == '.' ||
		(lastChar < unicode.MaxASCII && (unicode.IsLetter(lastChar) || unicode.IsDigit(lastChar)))
}
