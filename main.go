package main

import (
	"errors"
	"os"

	"github.com/alecthomas/kong"

	"github.com/gerunddev/tabconv/internal/commands"
)

func main() {
	var cli commands.CLI
	kctx := kong.Parse(&cli,
		kong.Name("tabconv"),
		kong.Description("Convert between CSV and JSON formats."),
		kong.UsageOnError(),
		commands.HelpVars(),
	)

	err := kctx.Run()

	var exitErr *commands.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	kctx.FatalIfErrorf(err)
}
