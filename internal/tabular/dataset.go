package tabular

import (
	"errors"
	"fmt"
)

var (
	// ErrNoColumns is returned when an input has no header to take column names from
	ErrNoColumns = errors.New("no columns to parse from file")
	// ErrRowWidth is returned when a row does not match the column count
	ErrRowWidth = errors.New("row width does not match column count")
)

// Dataset is an in-memory rectangular table. Every row holds exactly one
// value per column, in column order. A nil value marks a missing field.
type Dataset struct {
	Columns []string
	Rows    [][]any
}

// NewDataset creates an empty dataset with the given columns
func NewDataset(columns ...string) *Dataset {
	return &Dataset{
		Columns: columns,
		Rows:    [][]any{},
	}
}

// Append adds a row. The row must have one value per column.
func (d *Dataset) Append(values ...any) error {
	if len(values) != len(d.Columns) {
		return fmt.Errorf("%w: got %d values for %d columns", ErrRowWidth, len(values), len(d.Columns))
	}
	d.Rows = append(d.Rows, values)
	return nil
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return len(d.Rows)
}
