package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/simplelicense/license-checker-go/pkg/licensing"
)

const version = "0.1.0"

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "licensectl",
		Usage:     "Activate, validate and inspect license keys against the license API",
		Version:   version,
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagBaseURL,
				Usage:   "License API base `URL` (overrides API_BASE_URL)",
				EnvVars: []string{"LICENSECTL_BASE_URL"},
			},
			&cli.IntFlag{
				Name:  flagTimeout,
				Usage: "Request timeout in `SECONDS` (overrides API_TIMEOUT_SECONDS)",
			},
			&cli.IntFlag{
				Name:  flagConnectTimeout,
				Usage: "Connect timeout in `SECONDS` (overrides API_CONNECT_TIMEOUT_SECONDS)",
			},
		},
		Commands: []*cli.Command{
			activateCommand(),
			validateCommand(),
			licenseCommand(),
			featuresCommand(),
			watchCommand(),
		},
	}
}

// reportError prints license API failures as kind/code/message lines.
func reportError(w io.Writer, err error) {
	var apiErr *licensing.Error
	if errors.As(err, &apiErr) {
		fmt.Fprintf(w, "kind: %s\n", apiErr.Kind)
		if apiErr.Code != "" {
			fmt.Fprintf(w, "code: %s\n", apiErr.Code)
		}
		fmt.Fprintf(w, "message: %s\n", apiErr.Message)
		return
	}
	fmt.Fprintf(w, "Error: %s\n", err)
}
