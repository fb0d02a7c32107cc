package convert

import (
	"fmt"
	"time"
)

// Status describes the outcome of a conversion that did not fail
type Status int

const (
	StatusConverted Status = iota
	StatusSameFormat
	StatusUnsupportedInput
	StatusUnsupportedOutput
)

func (s Status) String() string {
	switch s {
	case StatusConverted:
		return "converted"
	case StatusSameFormat:
		return "same-format"
	case StatusUnsupportedInput:
		return "unsupported-input"
	case StatusUnsupportedOutput:
		return "unsupported-output"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result represents the result of a conversion
type Result struct {
	ID           string
	Status       Status
	InputFormat  string
	OutputFormat string
	Rows         int
	Duration     time.Duration
}

// OK reports whether the output file was written
func (r *Result) OK() bool {
	return r.Status == StatusConverted
}

// Message returns the status line shown to the user
func (r *Result) Message() string {
	switch r.Status {
	case StatusSameFormat:
		return "Input and output formats are the same."
	case StatusUnsupportedInput:
		return fmt.Sprintf("Unsupported input format: %s", r.InputFormat)
	case StatusUnsupportedOutput:
		return fmt.Sprintf("Unsupported output format: %s", r.OutputFormat)
	default:
		return fmt.Sprintf("Conversion from %s to %s successful.", r.InputFormat, r.OutputFormat)
	}
}
