// Package cmd contains the CLI entry point and command-line interface logic for the application.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

// errModuleFailed reports that a failure result was already written to stdout.
var errModuleFailed = errors.New("module failed")

// app carries the process streams so commands can be exercised in tests.
type app struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	argv0       string
	interactive bool
}

// Run initializes and executes the command-line interface.
//
// Invoked as a module (busybox style, or with an args file as Ansible does) it
// prints exactly one JSON result on stdout and exits 1 when that result failed.
func Run() {
	a := &app{
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		argv0:       os.Args[0],
		interactive: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := a.cli().RunContext(ctx, os.Args)
	stop()

	switch {
	case errors.Is(err, errModuleFailed):
		os.Exit(1)
	case err != nil:
		_, _ = fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func (a *app) cli() *cli.App {
	globalFlags := []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, EnvVars: []string{"CLOUDINFO_CONFIG"}, Usage: "Path to cloudinfo.yaml"},
		&cli.StringFlag{Name: "log-level", Usage: "Log level (debug, info, warn, error)"},
		&cli.StringFlag{Name: "log-format", Usage: "Log format (json, console)"},
		&cli.StringFlag{Name: "log-file", Usage: "Also write logs to this rotating file"},
	}
	runFlags := []cli.Flag{
		&cli.StringFlag{Name: "module", Aliases: []string{"m"}, Usage: "Module to run; defaults to the binary name or _ansible_module_name"},
		&cli.BoolFlag{Name: "strict-fields", Usage: "Fail when a response lacks the expected field"},
	}

	return &cli.App{
		Name:      "cloudinfo",
		Usage:     "Read-only Ansible info modules for AWS, Minio, Checkly and StatusCake",
		ArgsUsage: "[args-file]",
		Reader:    a.stdin,
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Flags:     append(globalFlags, runFlags...),
		Action:    a.runAction,
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run a module with an Ansible args file (or stdin)",
				ArgsUsage: "[args-file]",
				Flags:     runFlags,
				Action:    a.runAction,
			},
			{
				Name:  "modules",
				Usage: "List the available modules",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "Output format (text, yaml, json)"},
				},
				Action: a.modulesAction,
			},
			{
				Name:      "doc",
				Usage:     "Print a module's documentation as YAML",
				ArgsUsage: "<module>",
				Action:    a.docAction,
			},
		},
		HideHelpCommand: true,
	}
}

// binaryName is the module name implied by how the binary was invoked.
func (a *app) binaryName() string {
	return filepath.Base(a.argv0)
}
