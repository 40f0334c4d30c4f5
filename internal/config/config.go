package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"browser-task/internal/application/port/output"
	"browser-task/internal/domain/entity"
	"browser-task/internal/infrastructure/browser/rod"
	"browser-task/internal/infrastructure/logger"
	"browser-task/internal/usecase/pricecheck"

	"github.com/goccy/go-yaml"
)

const DefaultFile = "config.yaml"

type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Retry     RetryConfig     `yaml:"retry"`
	Browser   BrowserConfig   `yaml:"browser"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

type SiteConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Product  string `yaml:"product"`
}

type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Timeout     time.Duration `yaml:"timeout"`
	Backoff     time.Duration `yaml:"backoff"`
}

type BrowserConfig struct {
	Headless  bool   `yaml:"headless"`
	Bin       string `yaml:"bin"`
	NoSandbox bool   `yaml:"no_sandbox"`
	// SlowMotion delays every browser input; Trace highlights the element
	// being acted on. Both are for watching a headed run.
	SlowMotion time.Duration `yaml:"slow_motion"`
	Trace      bool          `yaml:"trace"`
}

type ArtifactsConfig struct {
	Dir string `yaml:"dir"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	Workers   int    `yaml:"workers"`
	QueueSize int    `yaml:"queue_size"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

func Default() *Config {
	retry := entity.DefaultRetryPolicy()
	return &Config{
		Site: SiteConfig{
			URL:      pricecheck.DefaultURL,
			Username: "standard_user",
			Password: "secret_sauce",
			Product:  "Sauce Labs Backpack",
		},
		Retry: RetryConfig{
			MaxAttempts: retry.MaxAttempts,
			Timeout:     retry.Timeout,
			Backoff:     retry.Backoff,
		},
		Browser: BrowserConfig{
			Headless: true,
		},
		Artifacts: ArtifactsConfig{
			Dir: "screenshots",
		},
		Server: ServerConfig{
			Addr:      ":8080",
			Workers:   2,
			QueueSize: 8,
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "log",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (or config.yaml when present), then environment overrides.
func Load(env output.ConfigPort) (*Config, error) {
	path := env.Get("CONFIG_FILE")
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	return LoadFrom(env, path)
}

// LoadFrom is Load with an explicit file path; an empty path skips the file.
func LoadFrom(env output.ConfigPort, path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv(env)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.UnmarshalWithOptions(data, c, yaml.DisallowUnknownField()); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(env output.ConfigPort) {
	setString(env, "SITE_URL", &c.Site.URL)
	setString(env, "SITE_USERNAME", &c.Site.Username)
	setString(env, "SITE_PASSWORD", &c.Site.Password)
	setString(env, "PRODUCT_NAME", &c.Site.Product)

	c.Retry.MaxAttempts = env.GetInt("RETRY_MAX_ATTEMPTS", c.Retry.MaxAttempts)
	c.Retry.Timeout = env.GetDuration("RETRY_TIMEOUT", c.Retry.Timeout)
	c.Retry.Backoff = env.GetDuration("RETRY_BACKOFF", c.Retry.Backoff)

	setString(env, "SCREENSHOT_DIR", &c.Artifacts.Dir)

	c.Browser.Headless = env.GetBool("BROWSER_HEADLESS", c.Browser.Headless)
	setString(env, "BROWSER_BIN", &c.Browser.Bin)
	c.Browser.NoSandbox = env.GetBool("BROWSER_NO_SANDBOX", c.Browser.NoSandbox)
	c.Browser.SlowMotion = env.GetDuration("BROWSER_SLOW_MOTION", c.Browser.SlowMotion)
	c.Browser.Trace = env.GetBool("BROWSER_TRACE", c.Browser.Trace)

	setString(env, "SERVER_ADDR", &c.Server.Addr)
	c.Server.Workers = env.GetInt("SERVER_WORKERS", c.Server.Workers)
	c.Server.QueueSize = env.GetInt("SERVER_QUEUE_SIZE", c.Server.QueueSize)

	setString(env, "LOG_LEVEL", &c.Log.Level)
	setString(env, "LOG_DIR", &c.Log.Dir)
}

// setString overrides dst only when the variable is set and non-empty.
func setString(env output.ConfigPort, key string, dst *string) {
	if v, ok := env.Lookup(key); ok && strings.TrimSpace(v) != "" {
		*dst = v
	}
}

func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.Site.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("site.url must be an absolute http(s) URL, got %q", c.Site.URL))
	}
	if strings.TrimSpace(c.Site.Product) == "" {
		errs = append(errs, errors.New("site.product must not be empty"))
	}
	if err := c.RetryPolicy().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("retry: %w", err))
	}
	if c.Artifacts.Dir == "" {
		errs = append(errs, errors.New("artifacts.dir must not be empty"))
	}
	if c.Browser.SlowMotion < 0 {
		errs = append(errs, fmt.Errorf("browser.slow_motion must be >= 0, got %s", c.Browser.SlowMotion))
	}
	if c.Server.Workers < 1 {
		errs = append(errs, fmt.Errorf("server.workers must be >= 1, got %d", c.Server.Workers))
	}
	if c.Server.QueueSize < 0 {
		errs = append(errs, fmt.Errorf("server.queue_size must be >= 0, got %d", c.Server.QueueSize))
	}

	return errors.Join(errs...)
}

func (c *Config) RetryPolicy() entity.RetryPolicy {
	return entity.RetryPolicy{
		MaxAttempts: c.Retry.MaxAttempts,
		Timeout:     c.Retry.Timeout,
		Backoff:     c.Retry.Backoff,
	}
}

func (c *Config) BrowserConfig() rod.BrowserConfig {
	bc := rod.DefaultConfig()
	bc.Headless = c.Browser.Headless
	bc.Bin = c.Browser.Bin
	bc.NoSandbox = c.Browser.NoSandbox
	bc.SlowMotion = c.Browser.SlowMotion
	bc.Trace = c.Browser.Trace
	return bc
}

func (c *Config) TaskConfig() pricecheck.Config {
	return pricecheck.Config{
		URL:       c.Site.URL,
		Username:  c.Site.Username,
		Password:  c.Site.Password,
		Product:   c.Site.Product,
		Selectors: pricecheck.DefaultSelectors(),
	}
}

func (c *Config) LoggerConfig(name string) logger.Config {
	lc := logger.DefaultConfig()
	lc.Dir = c.Log.Dir
	lc.Level = c.Log.Level
	lc.Name = name
	return lc
}
