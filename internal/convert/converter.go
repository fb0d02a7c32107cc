package convert

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gerunddev/tabconv/internal/logger"
	"github.com/gerunddev/tabconv/internal/tabular"
)

// ReadFunc loads a file into a dataset
type ReadFunc func(path string) (*tabular.Dataset, error)

// WriteFunc stores a dataset in a file
type WriteFunc func(ds *tabular.Dataset, path string) error

// Converter converts tabular files between formats, chosen by file extension.
// The format registry is fixed at construction. A Converter holds no state
// between calls and can be reused.
type Converter struct {
	readers map[string]ReadFunc
	writers map[string]WriteFunc
	log     *logger.Logger
}

// Option configures a Converter at construction
type Option func(*Converter)

// WithLogger sets the logger used for conversion events
func WithLogger(l *logger.Logger) Option {
	return func(c *Converter) {
		c.log = l
	}
}

// WithLegacyTSV makes the tsv reader split fields on the letter 't' instead
// of a tab, as the first release did.
func WithLegacyTSV() Option {
	return WithReader("tsv", tabular.ReadLegacyTSV)
}

// WithReader registers or replaces the reader for an extension
func WithReader(ext string, fn ReadFunc) Option {
	return func(c *Converter) {
		c.readers[ext] = fn
	}
}

// WithWriter registers or replaces the writer for an extension
func WithWriter(ext string, fn WriteFunc) Option {
	return func(c *Converter) {
		c.writers[ext] = fn
	}
}

// New creates a converter reading csv, json and tsv and writing csv and json
func New(opts ...Option) *Converter {
	c := &Converter{
		readers: map[string]ReadFunc{
			"csv":  tabular.ReadCSV,
			"json": tabular.ReadJSON,
			"tsv":  tabular.ReadTSV,
		},
		writers: map[string]WriteFunc{
			"csv":  tabular.WriteCSV,
			"json": tabular.WriteJSON,
		},
		log: logger.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// InputFormats returns the extensions that can be read, sorted
func (c *Converter) InputFormats() []string {
	formats := make([]string, 0, len(c.readers))
	for ext := range c.readers {
		formats = append(formats, ext)
	}
	sort.Strings(formats)
	return formats
}

// OutputFormats returns the extensions that can be written, sorted
func (c *Converter) OutputFormats() []string {
	formats := make([]string, 0, len(c.writers))
	for ext := range c.writers {
		formats = append(formats, ext)
	}
	sort.Strings(formats)
	return formats
}

// Extension returns everything after the last '.' in path, or the whole
// path when it has no '.'. Directory separators are not considered, so
// "dir.d/file" yields "d/file".
func Extension(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Convert reads inputPath and writes it to outputPath in the format named by
// the output extension.
//
// Same formats and unsupported extensions are not errors: they return a
// Result whose Status says why nothing was done. Read and write failures are
// returned as errors. A failed write may leave a partial output file.
func (c *Converter) Convert(inputPath, outputPath string) (*Result, error) {
	start := time.Now()
	result := &Result{
		ID:           uuid.New().String(),
		InputFormat:  Extension(inputPath),
		OutputFormat: Extension(outputPath),
	}

	c.log.ConversionStarted(result.ID, inputPath, outputPath)

	read, write, status := c.lookup(result.InputFormat, result.OutputFormat)
	if status != StatusConverted {
		result.Status = status
		result.Duration = time.Since(start)
		c.log.ConversionSkipped(result.ID, result.Message())
		return result, nil
	}

	ds, err := read(inputPath)
	if err != nil {
		c.log.ConversionFailed(result.ID, inputPath, outputPath, err)
		return nil, fmt.Errorf("failed to read %s input: %w", result.InputFormat, err)
	}

	if err := write(ds, outputPath); err != nil {
		c.log.ConversionFailed(result.ID, inputPath, outputPath, err)
		return nil, fmt.Errorf("failed to write %s output: %w", result.OutputFormat, err)
	}

	result.Status = StatusConverted
	result.Rows = ds.Len()
	result.Duration = time.Since(start)
	c.log.ConversionCompleted(result.ID, result.InputFormat, result.OutputFormat, result.Rows, result.Duration)

	return result, nil
}

// lookup checks the extensions in order: same format, then input, then output
func (c *Converter) lookup(inputExt, outputExt string) (ReadFunc, WriteFunc, Status) {
	if inputExt == outputExt {
		return nil, nil, StatusSameFormat
	}

	read, ok := c.readers[inputExt]
	if !ok {
		return nil, nil, StatusUnsupportedInput
	}

	write, ok := c.writers[outputExt]
	if !ok {
		return nil, nil, StatusUnsupportedOutput
	}

	return read, write, StatusConverted
}
