package tabular

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// JSONIndent is the indentation used for JSON output
const JSONIndent = "    "

var (
	// ErrUnsupportedJSON is returned for JSON documents that do not describe a table
	ErrUnsupportedJSON = errors.New("unsupported JSON layout")
	// ErrRaggedColumns is returned when column arrays have different lengths
	ErrRaggedColumns = errors.New("all column arrays must be of the same length")
)

// ReadJSON reads a JSON file into a dataset. See DecodeJSON for the
// accepted layouts.
func ReadJSON(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := DecodeJSON(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return ds, nil
}

// DecodeJSON parses one of three layouts:
//
//	[{"a": 1, "b": 2}, ...]             array of records
//	{"a": [1, ...], "b": [2, ...]}      object of column arrays
//	{"a": {"0": 1}, "b": {"0": 2}}      object of labelled columns
//
// Key order is preserved and numbers are kept as json.Number.
func DecodeJSON(r io.Reader) (*Dataset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty document", ErrUnsupportedJSON)
	}
	if err != nil {
		return nil, err
	}

	var ds *Dataset
	switch tok {
	case json.Delim('['):
		ds, err = decodeRecords(dec)
	case json.Delim('{'):
		ds, err = decodeColumns(dec)
	default:
		return nil, fmt.Errorf("%w: top level must be an array or an object", ErrUnsupportedJSON)
	}
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrUnsupportedJSON)
	}

	return ds, nil
}

// decodeRecords reads the body of an array of objects. The opening bracket
// has already been consumed.
func decodeRecords(dec *json.Decoder) (*Dataset, error) {
	cols := newColumnSet()
	var records []map[string]any

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if tok != json.Delim('{') {
			return nil, fmt.Errorf("%w: array element %d is not an object", ErrUnsupportedJSON, len(records))
		}

		rec := make(map[string]any)
		for dec.More() {
			key, err := readKey(dec)
			if err != nil {
				return nil, err
			}
			var v any
			if err := dec.Decode(&v); err != nil {
				return nil, err
			}
			cols.add(key)
			rec[key] = v
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	ds := NewDataset(cols.names...)
	for _, rec := range records {
		row := make([]any, len(ds.Columns))
		for i, c := range ds.Columns {
			row[i] = rec[c]
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// decodeColumns reads the body of an object whose values are either arrays
// or objects keyed by row label. The opening brace has already been consumed.
func decodeColumns(dec *json.Decoder) (*Dataset, error) {
	cols := newColumnSet()
	labels := newColumnSet()
	values := make(map[string]map[string]any)
	arrayLen := -1

	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		column := make(map[string]any)
		switch tok {
		case json.Delim('['):
			n := 0
			for ; dec.More(); n++ {
				var v any
				if err := dec.Decode(&v); err != nil {
					return nil, err
				}
				label := strconv.Itoa(n)
				labels.add(label)
				column[label] = v
			}
			if arrayLen >= 0 && n != arrayLen {
				return nil, fmt.Errorf("%w: column %q has %d values, expected %d", ErrRaggedColumns, name, n, arrayLen)
			}
			arrayLen = n
		case json.Delim('{'):
			for dec.More() {
				label, err := readKey(dec)
				if err != nil {
					return nil, err
				}
				var v any
				if err := dec.Decode(&v); err != nil {
					return nil, err
				}
				labels.add(label)
				column[label] = v
			}
		default:
			return nil, fmt.Errorf("%w: column %q is neither an array nor an object", ErrUnsupportedJSON, name)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}

		cols.add(name)
		values[name] = column
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	ds := NewDataset(cols.names...)
	for _, label := range labels.names {
		row := make([]any, len(ds.Columns))
		for i, c := range ds.Columns {
			row[i] = values[c][label]
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected object key, got %v", ErrUnsupportedJSON, tok)
	}
	return key, nil
}

// columnSet keeps names in first-seen order
type columnSet struct {
	names []string
	seen  map[string]bool
}

func newColumnSet() *columnSet {
	return &columnSet{seen: make(map[string]bool)}
}

func (s *columnSet) add(name string) {
	if s.seen[name] {
		return
	}
	s.seen[name] = true
	s.names = append(s.names, name)
}

// WriteJSON writes the dataset as an array of records indented with four spaces
func WriteJSON(ds *Dataset, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(f)
	if err := EncodeJSON(bw, ds); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return bw.Flush()
}

// EncodeJSON writes the dataset as an array of records. Keys follow the
// column order.
func EncodeJSON(w io.Writer, ds *Dataset) error {
	records := make([]orderedRecord, len(ds.Rows))
	for i, row := range ds.Rows {
		records[i] = orderedRecord{columns: ds.Columns, values: row}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", JSONIndent)
	return enc.Encode(records)
}

type orderedRecord struct {
	columns []string
	values  []any
}

func (r orderedRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeCompact(&buf, c); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeCompact(&buf, r.values[i]); err != nil {
			return nil, fmt.Errorf("column %q: %w", c, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeCompact(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}
