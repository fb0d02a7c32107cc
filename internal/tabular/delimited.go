package tabular

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

const (
	// Comma separates CSV fields
	Comma = ','
	// Tab separates TSV fields
	Tab = '\t'
	// LegacyTSVSeparator is the letter the first version of the TSV reader split on.
	// It was meant to be a tab. Kept for consumers that depend on that output.
	LegacyTSVSeparator = 't'

	byteOrderMark = '\ufeff'
)

// ReadCSV reads a comma separated file whose first record is the header
func ReadCSV(path string) (*Dataset, error) {
	return readDelimitedFile(path, Comma)
}

// ReadTSV reads a tab separated file whose first record is the header
func ReadTSV(path string) (*Dataset, error) {
	return readDelimitedFile(path, Tab)
}

// ReadLegacyTSV reads a "TSV" file the way the first release did: fields are
// split on the letter 't', not on tabs. Any value containing a 't' is split.
func ReadLegacyTSV(path string) (*Dataset, error) {
	return readDelimitedFile(path, LegacyTSVSeparator)
}

func readDelimitedFile(path string, sep rune) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := DecodeDelimited(f, sep)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return ds, nil
}

// DecodeDelimited parses delimited text with a header record.
//
// Empty fields become missing values and short records are padded with
// missing values. A record with more fields than the header is an error.
// Blank lines are skipped and a leading UTF-8 byte order mark is dropped.
func DecodeDelimited(r io.Reader, sep rune) (*Dataset, error) {
	br := bufio.NewReader(r)
	if ch, _, err := br.ReadRune(); err == nil && ch != byteOrderMark {
		if err := br.UnreadRune(); err != nil {
			return nil, err
		}
	}

	cr := csv.NewReader(br)
	cr.Comma = sep
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoColumns
	}
	if err != nil {
		return nil, err
	}

	ds := NewDataset(uniqueColumns(header)...)

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if len(record) > len(ds.Columns) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d has %d fields, expected %d",
				ErrRowWidth, line, len(record), len(ds.Columns))
		}

		row := make([]any, len(ds.Columns))
		for i, field := range record {
			if field != "" {
				row[i] = field
			}
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}

// uniqueColumns names empty header fields and disambiguates repeated names
// as name, name.1, name.2 ...
func uniqueColumns(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))

	for i, name := range header {
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		candidate := name
		for n := 1; seen[candidate]; n++ {
			candidate = name + "." + strconv.Itoa(n)
		}
		seen[candidate] = true
		columns[i] = candidate
	}

	return columns
}

// WriteCSV writes the dataset as CSV with a header row and no index column
func WriteCSV(ds *Dataset, path string) (err error) {
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
	if err := EncodeDelimited(bw, ds, Comma); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return bw.Flush()
}

// EncodeDelimited writes the header and every row of the dataset
func EncodeDelimited(w io.Writer, ds *Dataset, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep

	if err := cw.Write(ds.Columns); err != nil {
		return err
	}

	record := make([]string, len(ds.Columns))
	for _, row := range ds.Rows {
		for i, v := range row {
			s, err := FormatValue(v)
			if err != nil {
				return fmt.Errorf("column %q: %w", ds.Columns[i], err)
			}
			record[i] = s
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatValue renders a value as a single text field. Missing values are
// empty and nested values are compact JSON.
func FormatValue(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
