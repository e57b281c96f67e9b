// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/imamik/mrpctl/internal/artifact"
	"github.com/imamik/mrpctl/internal/config"
	"github.com/imamik/mrpctl/internal/logging"
	"github.com/imamik/mrpctl/internal/platform/mrp"
	"github.com/imamik/mrpctl/internal/platform/s3"
	"github.com/imamik/mrpctl/internal/provisioning"
)

// Options holds the global flags shared by every command.
type Options struct {
	ConfigPath  string
	URL         string
	Token       string
	Output      string
	LogLevel    string
	LogJSON     *bool
	MetricsFile string
	DryRun      bool
}

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig reads the config file and environment.
	loadConfig = config.Load

	// loadTimeouts reads timeout settings from the environment.
	loadTimeouts = config.LoadTimeouts

	// newAPIClient creates the provisioner client.
	newAPIClient = func(cfg *config.Config, timeouts *config.Timeouts, logger zerolog.Logger, metrics *mrp.Metrics) (provisioning.API, error) {
		return mrp.NewClient(cfg.URL, cfg.Token,
			mrp.WithTimeout(timeouts.HTTP),
			mrp.WithLogger(logging.WithComponent(logger, "api")),
			mrp.WithMetrics(metrics),
		)
	}

	// newOpener creates the artifact opener. S3 is only contacted when an
	// s3:// reference is opened.
	newOpener = func(cfg *config.Config) provisioning.ContentOpener {
		s3cfg := cfg.S3
		return artifact.NewOpener(func(ctx context.Context) (artifact.ObjectStore, error) {
			return s3.NewClient(ctx, s3.Options{
				Endpoint:  s3cfg.Endpoint,
				Region:    s3cfg.Region,
				AccessKey: s3cfg.AccessKey,
				SecretKey: s3cfg.SecretKey,
				PathStyle: s3cfg.PathStyle,
			})
		})
	}

	// stdout receives command results.
	stdout io.Writer = os.Stdout

	// stderr receives logs.
	stderr io.Writer = os.Stderr
)

// session is everything a command needs once configuration is resolved.
type session struct {
	opts     Options
	cfg      *config.Config
	timeouts *config.Timeouts
	logger   zerolog.Logger
	metrics  *mrp.Metrics
	api      provisioning.API
}

// newSession resolves configuration and builds the API client.
func newSession(opts Options) (*session, error) {
	if opts.Output == "" {
		opts.Output = OutputText
	}
	if opts.Output != OutputText && opts.Output != OutputJSON {
		return nil, fmt.Errorf("invalid output format %q: must be %s or %s", opts.Output, OutputText, OutputJSON)
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyOverrides(config.Overrides{
		URL:      opts.URL,
		Token:    opts.Token,
		LogLevel: opts.LogLevel,
		LogJSON:  opts.LogJSON,
	})
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := logging.New(logging.Config{Level: level, JSONOutput: cfg.Log.JSON, Output: stderr})

	s := &session{
		opts:     opts,
		cfg:      cfg,
		timeouts: loadTimeouts(),
		logger:   logger,
		metrics:  mrp.NewMetrics(),
	}

	s.api, err = newAPIClient(cfg, s.timeouts, logger, s.metrics)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Interface("config", cfg.Redacted()).
		Bool("dry_run", opts.DryRun).
		Msg("session ready")

	return s, nil
}

// provisioningContext creates a workflow context bound to this session.
func (s *session) provisioningContext(ctx context.Context, component string) *provisioning.Context {
	observer := provisioning.NewObserver(logging.WithComponent(s.logger, component))
	pctx := provisioning.NewContext(ctx, s.api, observer)
	pctx.DryRun = s.opts.DryRun
	return pctx
}

// finish writes the metrics file if one was requested. A failure is logged
// and does not change the command outcome.
func (s *session) finish() {
	if s.opts.MetricsFile == "" {
		return
	}
	if err := s.metrics.WriteToTextfile(s.opts.MetricsFile); err != nil {
		s.logger.Warn().Err(err).Str("path", s.opts.MetricsFile).Msg("failed to write metrics file")
	}
}
