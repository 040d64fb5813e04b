package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/simplelicense/license-checker-go/internal/app"
	"github.com/simplelicense/license-checker-go/internal/config"
	"github.com/simplelicense/license-checker-go/internal/logger"
	"github.com/simplelicense/license-checker-go/pkg/licensing"
)

const (
	flagBaseURL        = "base-url"
	flagTimeout        = "timeout"
	flagConnectTimeout = "connect-timeout"
	flagKey            = "key"
	flagDomain         = "domain"
	flagSiteName       = "site-name"
)

func keyFlag() cli.Flag {
	return &cli.StringFlag{Name: flagKey, Aliases: []string{"k"}, Usage: "License `KEY`", Required: true}
}

func domainFlag() cli.Flag {
	return &cli.StringFlag{Name: flagDomain, Aliases: []string{"d"}, Usage: "Site `DOMAIN`", Required: true}
}

func activateCommand() *cli.Command {
	return &cli.Command{
		Name:  "activate",
		Usage: "Activate a license key on a domain",
		Flags: []cli.Flag{
			keyFlag(),
			domainFlag(),
			&cli.StringFlag{Name: flagSiteName, Usage: "Optional site `NAME` sent with the activation"},
		},
		Action: func(c *cli.Context) error {
			var opts []licensing.ActivateOption
			if c.IsSet(flagSiteName) {
				opts = append(opts, licensing.WithSiteName(c.String(flagSiteName)))
			}
			return runRecord(c, func(ctx context.Context, client *licensing.Client) (licensing.Record, error) {
				return client.Activate(ctx, c.String(flagKey), c.String(flagDomain), opts...)
			})
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate a license key for a domain",
		Flags: []cli.Flag{keyFlag(), domainFlag()},
		Action: func(c *cli.Context) error {
			return runRecord(c, func(ctx context.Context, client *licensing.Client) (licensing.Record, error) {
				return client.Validate(ctx, c.String(flagKey), c.String(flagDomain))
			})
		},
	}
}

func licenseCommand() *cli.Command {
	return &cli.Command{
		Name:  "license",
		Usage: "Show license details",
		Flags: []cli.Flag{keyFlag()},
		Action: func(c *cli.Context) error {
			return runRecord(c, func(ctx context.Context, client *licensing.Client) (licensing.Record, error) {
				return client.GetLicense(ctx, c.String(flagKey))
			})
		},
	}
}

func featuresCommand() *cli.Command {
	return &cli.Command{
		Name:  "features",
		Usage: "Show the features enabled for a license",
		Flags: []cli.Flag{keyFlag()},
		Action: func(c *cli.Context) error {
			return runRecord(c, func(ctx context.Context, client *licensing.Client) (licensing.Record, error) {
				return client.GetFeatures(ctx, c.String(flagKey))
			})
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:   "watch",
		Usage:  "Run the license monitor over the configured watch list until interrupted",
		Action: runWatch,
	}
}

// runRecord performs one API call and prints the returned record as JSON.
// One-shot commands keep stdout for the result, so no logger is attached.
func runRecord(c *cli.Context, call func(context.Context, *licensing.Client) (licensing.Record, error)) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	client, err := app.NewLicenseClient(cfg, nil)
	if err != nil {
		return err
	}

	record, err := call(c.Context, client)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

func runWatch(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.InfoObj("license monitor starting", "config", cfg)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mon, err := app.NewMonitor(ctx, cfg, log)
	if err != nil {
		log.ErrorObj("failed to initialize monitor", "error", err)
		return err
	}

	if err := mon.Run(ctx); err != nil {
		return fmt.Errorf("monitor run: %w", err)
	}
	return nil
}

// loadConfig reads env config and applies global flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if c.IsSet(flagBaseURL) {
		cfg.APIBaseURL = strings.TrimSpace(c.String(flagBaseURL))
	}
	if c.IsSet(flagTimeout) {
		if c.Int(flagTimeout) <= 0 {
			return nil, fmt.Errorf("--%s must be positive", flagTimeout)
		}
		cfg.APITimeout = time.Duration(c.Int(flagTimeout)) * time.Second
	}
	if c.IsSet(flagConnectTimeout) {
		if c.Int(flagConnectTimeout) <= 0 {
			return nil, fmt.Errorf("--%s must be positive", flagConnectTimeout)
		}
		cfg.APIConnectTimeout = time.Duration(c.Int(flagConnectTimeout)) * time.Second
	}
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("api base url is required (set API_BASE_URL or --%s)", flagBaseURL)
	}
	return cfg, nil
}
