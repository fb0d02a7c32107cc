package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/gerunddev/tabconv/internal/config"
	"github.com/gerunddev/tabconv/internal/convert"
	"github.com/gerunddev/tabconv/internal/logger"
	"github.com/gerunddev/tabconv/internal/styles"
)

// ExitSkipped is the exit code for a conversion that was not performed
// while strict_exit is enabled
const ExitSkipped = 2

// ExitError asks main to exit with Code without printing anything else
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode implements kong's exit coder
func (e *ExitError) ExitCode() int {
	return e.Code
}

// CLI is the command line of tabconv
type CLI struct {
	Input  string `arg:"" help:"Input file path (${input_formats})"`
	Output string `short:"o" required:"" help:"Output file path (${output_formats})"`
}

// HelpVars fills the format lists in the CLI help from a default converter
func HelpVars() kong.Vars {
	c := convert.New()
	return kong.Vars{
		"input_formats":  strings.Join(c.InputFormats(), ", "),
		"output_formats": strings.Join(c.OutputFormats(), ", "),
	}
}

// Run loads the configuration and performs the conversion
func (c *CLI) Run(kctx *kong.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	log, cleanup, err := newLogger(cfg, kctx.Stderr)
	if err != nil {
		return fmt.Errorf("error opening log file: %w", err)
	}
	defer cleanup()
	log.ConfigLoaded(config.ConfigPath(), cfg.StrictExit, cfg.LegacyTSV)

	return Convert(cfg, log, kctx.Stdout, c.Input, c.Output)
}

// Convert runs one conversion and prints its status line to out.
// Skipped conversions return an *ExitError when cfg.StrictExit is set.
func Convert(cfg *config.Config, log *logger.Logger, out io.Writer, input, output string) error {
	opts := []convert.Option{convert.WithLogger(log)}
	if cfg.LegacyTSV {
		opts = append(opts, convert.WithLegacyTSV())
	}

	result, err := convert.New(opts...).Convert(input, output)
	if err != nil {
		return err
	}

	if result.OK() {
		fmt.Fprintln(out, styles.SuccessStyle.Render(result.Message()))
		return nil
	}

	fmt.Fprintln(out, styles.WarningStyle.Render(result.Message()))
	if cfg.StrictExit {
		return &ExitError{Code: ExitSkipped}
	}
	return nil
}

// newLogger builds the logger described by cfg. Logs go to the configured
// file, or to stderr when none is set.
func newLogger(cfg *config.Config, stderr io.Writer) (*logger.Logger, func(), error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	if cfg.LogFile != "" {
		return logger.NewFileLogger(cfg.LogFile, level)
	}

	if stderr == nil {
		stderr = os.Stderr
	}
	return logger.NewWithLevel(stderr, level), func() {}, nil
}
