package main

import (
	"context"
	"os"

	"github.com/indaco/vdocs/internal/cli"
	"github.com/indaco/vdocs/internal/config"
	"github.com/indaco/vdocs/internal/printer"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		printer.PrintErr(err)
		os.Exit(1)
	}
}

// runCLI builds the root command and runs it with args. The configuration
// is loaded by the root command once flags are parsed.
func runCLI(args []string) error {
	cfg := config.Default()
	return cli.New(cfg).Run(context.Background(), args)
}
