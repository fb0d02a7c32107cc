package tabular

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *Dataset
	}{
		{
			name:  "array of records",
			input: `[{"id": 1, "name": "alpha"}, {"id": 2, "name": "beta"}]`,
			expected: &Dataset{
				Columns: []string{"id", "name"},
				Rows: [][]any{
					{json.Number("1"), "alpha"},
					{json.Number("2"), "beta"},
				},
			},
		},
		{
			name:  "key order preserved",
			input: `[{"zeta": "z", "alpha": "a", "mid": "m"}]`,
			expected: &Dataset{
				Columns: []string{"zeta", "alpha", "mid"},
				Rows:    [][]any{{"z", "a", "m"}},
			},
		},
		{
			name:  "records with differing keys",
			input: `[{"a": 1}, {"b": true}, {"a": null, "c": "x"}]`,
			expected: &Dataset{
				Columns: []string{"a", "b", "c"},
				Rows: [][]any{
					{json.Number("1"), nil, nil},
					{nil, true, nil},
					{nil, nil, "x"},
				},
			},
		},
		{
			name:  "object of arrays",
			input: `{"id": [1, 2], "name": ["alpha", "beta"]}`,
			expected: &Dataset{
				Columns: []string{"id", "name"},
				Rows: [][]any{
					{json.Number("1"), "alpha"},
					{json.Number("2"), "beta"},
				},
			},
		},
		{
			name:  "object of labelled columns",
			input: `{"id": {"0": 1, "1": 2}, "name": {"0": "alpha", "1": "beta"}}`,
			expected: &Dataset{
				Columns: []string{"id", "name"},
				Rows: [][]any{
					{json.Number("1"), "alpha"},
					{json.Number("2"), "beta"},
				},
			},
		},
		{
			name:  "labelled columns with gaps",
			input: `{"a": {"x": 1}, "b": {"y": 2}}`,
			expected: &Dataset{
				Columns: []string{"a", "b"},
				Rows: [][]any{
					{json.Number("1"), nil},
					{nil, json.Number("2")},
				},
			},
		},
		{
			name:  "large numbers keep precision",
			input: `[{"n": 12345678901234567890}]`,
			expected: &Dataset{
				Columns: []string{"n"},
				Rows:    [][]any{{json.Number("12345678901234567890")}},
			},
		},
		{
			name:  "nested values kept",
			input: `[{"tags": ["x", "y"]}]`,
			expected: &Dataset{
				Columns: []string{"tags"},
				Rows:    [][]any{{[]any{"x", "y"}}},
			},
		},
		{
			name:     "empty array",
			input:    `[]`,
			expected: &Dataset{Rows: [][]any{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := DecodeJSON(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("DecodeJSON failed: %v", err)
			}
			if diff := cmp.Diff(tt.expected, ds); diff != "" {
				t.Errorf("Dataset mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty document", input: "", wantErr: ErrUnsupportedJSON},
		{name: "scalar", input: "42", wantErr: ErrUnsupportedJSON},
		{name: "array of scalars", input: "[1, 2]", wantErr: ErrUnsupportedJSON},
		{name: "column of scalars", input: `{"a": 1}`, wantErr: ErrUnsupportedJSON},
		{name: "ragged arrays", input: `{"a": [1, 2], "b": [1]}`, wantErr: ErrRaggedColumns},
		{name: "trailing data", input: `[] []`, wantErr: ErrUnsupportedJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON(strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := DecodeJSON(strings.NewReader(`[{"a": 1}`)); err == nil {
		t.Error("Expected error for truncated document")
	}
}

func TestEncodeJSON(t *testing.T) {
	ds := NewDataset("zeta", "alpha", "html")
	_ = ds.Append("1", json.Number("2.5"), "<b>&</b>")
	_ = ds.Append(nil, true, "x")

	var buf bytes.Buffer
	if err := EncodeJSON(&buf, ds); err != nil {
		t.Fatalf("EncodeJSON failed: %v", err)
	}

	expected := `[
    {
        "zeta": "1",
        "alpha": 2.5,
        "html": "<b>&</b>"
    },
    {
        "zeta": null,
        "alpha": true,
        "html": "x"
    }
]
`
	if buf.String() != expected {
		t.Errorf("EncodeJSON output:\n%s\nwant:\n%s", buf.String(), expected)
	}
}

func TestEncodeJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, NewDataset("a", "b")); err != nil {
		t.Fatalf("EncodeJSON failed: %v", err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("Expected empty array, got %q", buf.String())
	}
}

func TestWriteJSONShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	ds := NewDataset("id", "name")
	_ = ds.Append("1", "alpha")
	_ = ds.Append("2", "beta")

	if err := WriteJSON(ds, path); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("Output is not an array of objects: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[1]["name"] != "beta" {
		t.Errorf("Expected beta, got %v", records[1]["name"])
	}

	lines := strings.Split(string(data), "\n")
	if lines[1] != "    {" || lines[2] != `        "id": "1",` {
		t.Errorf("Expected 4-space indentation, got:\n%s", data)
	}

	back, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if diff := cmp.Diff(ds, back); diff != "" {
		t.Errorf("Dataset mismatch (-want +got):\n%s", diff)
	}
}
