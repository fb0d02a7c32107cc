package tabular

import (
	"errors"
	"testing"
)

func TestDatasetAppend(t *testing.T) {
	ds := NewDataset("id", "name")

	if err := ds.Append("1", "alpha"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := ds.Append("2"); !errors.Is(err, ErrRowWidth) {
		t.Errorf("Append with short row: expected ErrRowWidth, got %v", err)
	}
	if ds.Len() != 1 {
		t.Errorf("Expected 1 row, got %d", ds.Len())
	}
}
