package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/pflag"

	"reelfetch/internal/acquire"
	"reelfetch/internal/config"
	"reelfetch/internal/fetch"
	"reelfetch/internal/history"
	"reelfetch/internal/logging"
	"reelfetch/internal/platform"
	"reelfetch/internal/platform/instagram"
	"reelfetch/internal/ratelimit"
)

type commandContext struct {
	configFlag      string
	delayFlag       float64
	retriesFlag     int
	downloadDirFlag string
	flags           *pflag.FlagSet

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if err := c.applyOverrides(cfg); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// applyOverrides folds persistent flag values into the loaded configuration.
// Only flags the user actually set participate.
func (c *commandContext) applyOverrides(cfg *config.Config) error {
	if c.flags == nil {
		return nil
	}
	if c.flags.Changed("delay") {
		cfg.Pacing.DelaySeconds = c.delayFlag
	}
	if c.flags.Changed("retries") {
		cfg.Pacing.MaxRetries = c.retriesFlag
	}
	if c.flags.Changed("download-dir") {
		expanded, err := config.ExpandPath(c.downloadDirFlag)
		if err != nil {
			return fmt.Errorf("resolve download dir: %w", err)
		}
		cfg.Paths.DownloadDir = expanded
	}
	return cfg.Validate()
}

// pipeline bundles the wired acquisition components a subcommand needs.
type pipeline struct {
	cfg          *config.Config
	client       platform.Client
	store        *history.Store
	limiter      *ratelimit.Limiter
	fetcher      *fetch.Fetcher
	orchestrator *acquire.Orchestrator
}

// buildPipeline constructs the platform client, history store, limiter,
// fetcher, and orchestrator for one command invocation. Operator-facing
// progress lines go to out.
func (c *commandContext) buildPipeline(platformName string, out io.Writer) (*pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	client, err := newPlatformClient(platformName, cfg)
	if err != nil {
		return nil, err
	}

	store, err := history.Open(cfg.Paths.HistoryFile, logger)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	limiter := ratelimit.New(cfg.Pacing.DelaySeconds, logger)
	fetcher := fetch.New(client, limiter, logger, fetch.WithMaxAttempts(cfg.Pacing.MaxRetries))
	orchestrator := acquire.New(client, store, fetcher, limiter, cfg.Paths.DownloadDir, logger,
		acquire.WithOutput(out))

	return &pipeline{
		cfg:          cfg,
		client:       client,
		store:        store,
		limiter:      limiter,
		fetcher:      fetcher,
		orchestrator: orchestrator,
	}, nil
}

func newPlatformClient(name string, cfg *config.Config) (platform.Client, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", instagram.PlatformName:
		return instagram.NewClient(cfg.Instagram.SessionID,
			instagram.WithBaseURL(cfg.Instagram.BaseURL),
			instagram.WithUserAgent(cfg.Instagram.UserAgent),
		), nil
	default:
		return nil, fmt.Errorf("unsupported platform %q (supported: %s)", name, instagram.PlatformName)
	}
}
