// Package setup edits the dotenv file holding friday's configuration.
package setup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"

	"friday/internal/storage"
)

// Param is one configurable environment variable
type Param struct {
	Key         string
	Description string
	Secret      bool
	// Validate rejects unusable non-blank answers
	Validate func(value string) error
}

// Params are the variables setup asks for, in order
var Params = []Param{
	{Key: "FRIDAY_SERVICE_URL", Description: "Test service URL (e.g. http://localhost:8000)"},
	{Key: "FRIDAY_API_TOKEN", Description: "Test service API token", Secret: true},
	{Key: "FRIDAY_BASE_URL", Description: "Default base URL of the API under test"},
	{Key: "FRIDAY_OUTPUT", Description: "Default report filename"},
	{Key: "FRIDAY_HISTORY_DSN", Description: "MySQL DSN for shared run history (blank keeps it local)", Secret: true, Validate: storage.ValidateDSN},
}

// Prompter asks the user for one value. An empty answer keeps the current value.
type Prompter interface {
	Ask(ctx context.Context, param Param, current string) (string, error)
}

// Editor updates a dotenv file interactively
type Editor struct {
	path     string
	prompter Prompter
}

// NewEditor creates an Editor for the dotenv file at path
func NewEditor(path string, prompter Prompter) *Editor {
	return &Editor{path: path, prompter: prompter}
}

// Run asks for every Param and writes the merged values back. Keys that
// setup does not manage are kept as they are.
func (e *Editor) Run(ctx context.Context) (map[string]string, error) {
	current, err := e.read()
	if err != nil {
		return nil, err
	}

	merged := make(map[string]string, len(current)+len(Params))
	for key, value := range current {
		merged[key] = value
	}

	for _, param := range Params {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		answer, err := e.prompter.Ask(ctx, param, current[param.Key])
		if err != nil {
			return nil, fmt.Errorf("prompt %s: %w", param.Key, err)
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			continue
		}
		if param.Validate != nil {
			if err := param.Validate(answer); err != nil {
				return nil, fmt.Errorf("%s: %w", param.Key, err)
			}
		}
		merged[param.Key] = answer
	}

	if err := godotenv.Write(merged, e.path); err != nil {
		return nil, fmt.Errorf("write %s: %w", e.path, err)
	}
	return merged, nil
}

func (e *Editor) read() (map[string]string, error) {
	values, err := godotenv.Read(e.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", e.path, err)
	}
	return values, nil
}

// Mask hides all but the last four characters of a secret
func Mask(value string) string {
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}
