package form

import "errors"

// ValidationError is a local input problem. It never reaches the test service.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation failures, checked in this order.
var (
	ErrMissingSpecFile = &ValidationError{Field: "spec", Message: "Please upload an OpenAPI/Swagger specification file"}
	ErrMissingBaseURL  = &ValidationError{Field: "base_url", Message: "Please enter the base URL of the API"}
	ErrInvalidFileType = &ValidationError{Field: "spec", Message: "Invalid file type. Please upload a .json, .yaml, or .yml file"}
	ErrInvalidOutput   = &ValidationError{Field: "output", Message: "Output filename must use letters, digits, underscores or hyphens and end in .md"}
)

// ErrSubmissionInFlight is returned by Submit while another submission has not settled
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// errNoResult stands in when the runner returns neither a result nor an error
var errNoResult = errors.New("test service returned no result")
