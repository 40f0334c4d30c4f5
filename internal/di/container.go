package di

import (
	"fmt"

	"browser-task/internal/adapter/httpapi"
	"browser-task/internal/application/port/input"
	"browser-task/internal/application/port/output"
	"browser-task/internal/config"
	"browser-task/internal/infrastructure/artifact"
	"browser-task/internal/infrastructure/browser/rod"
	"browser-task/internal/infrastructure/logger"
	"browser-task/internal/infrastructure/metrics"
	"browser-task/internal/usecase/executor"
)

type Container struct {
	Config  *config.Config
	Logger  output.LoggerPort
	Metrics *metrics.Recorder
	Runner  input.TaskRunner
}

type Options struct {
	// Name is used in the log file name.
	Name string
	// Console mirrors logs to stderr.
	Console bool
}

func NewContainer(cfg *config.Config, opts Options) (*Container, error) {
	logCfg := cfg.LoggerConfig(opts.Name)
	logCfg.Console = opts.Console
	log, err := logger.NewLoggerAdapter(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	recorder := metrics.NewRecorder()
	browsers := rod.NewFactory(cfg.BrowserConfig())
	artifacts := artifact.NewStore(cfg.Artifacts.Dir)

	uc := executor.New(
		browsers,
		cfg.RetryPolicy(),
		cfg.TaskConfig(),
		artifacts,
		recorder,
		log,
	)

	log.Info("Container initialised",
		"site", cfg.Site.URL,
		"product", cfg.Site.Product,
		"max_attempts", cfg.Retry.MaxAttempts,
		"timeout", cfg.Retry.Timeout,
		"backoff", cfg.Retry.Backoff,
		"artifacts", artifacts.Dir(),
		"headless", cfg.Browser.Headless,
	)

	return &Container{
		Config:  cfg,
		Logger:  log,
		Metrics: recorder,
		Runner:  uc,
	}, nil
}

// NewServer builds the HTTP surface over a worker pool sized from config.
func (c *Container) NewServer() *httpapi.Server {
	queue := httpapi.NewRunQueue(c.Runner, c.Config.Server.Workers, c.Config.Server.QueueSize, c.Logger)
	return httpapi.NewServer(c.Config.Server.Addr, queue, c.Metrics.Handler(), c.Logger)
}

func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}
