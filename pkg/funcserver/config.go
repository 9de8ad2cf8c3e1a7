package funcserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/dmitrymomot/fnhost/pkg/clientip"
	"github.com/dmitrymomot/fnhost/pkg/config"
	"github.com/dmitrymomot/fnhost/pkg/environment"
	"github.com/dmitrymomot/fnhost/pkg/httpserver"
	"github.com/dmitrymomot/fnhost/pkg/logger"
	"github.com/dmitrymomot/fnhost/pkg/metrics"
	"github.com/dmitrymomot/fnhost/pkg/requestid"
)

// Defaults applied when neither an override nor the environment sets a value.
const (
	DefaultBindAddr        = "0.0.0.0"
	DefaultPort            = 8080
	DefaultMinThreads      = 1
	DefaultShutdownTimeout = time.Duration(0)

	devMaxThreads  = 1
	prodMaxThreads = 16
)

// Config is the resolved, read-only configuration of a server.
type Config struct {
	BindAddr         string
	Port             int
	MinThreads       int
	MaxThreads       int
	ShowErrorDetails bool
	Mode             environment.Mode
	Service          string
	ShutdownTimeout  time.Duration
	HTTP             httpserver.Config
	Logger           *slog.Logger
	Metrics          *metrics.Metrics
}

// Addr returns the listen address as host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.BindAddr, strconv.Itoa(c.Port))
}

// Overrides are explicit settings. Nil fields fall through to the
// environment and then to the defaults.
type Overrides struct {
	BindAddr         *string
	Port             *int
	MinThreads       *int
	MaxThreads       *int
	ShowErrorDetails *bool
	Mode             *environment.Mode
	ShutdownTimeout  *time.Duration
	Logger           *slog.Logger
	Metrics          *metrics.Metrics
}

// envConfig is the slice of the environment a server reads.
type envConfig struct {
	BindAddr        string        `env:"FUNCTION_BIND_ADDR" envDefault:"0.0.0.0"`
	Port            int           `env:"PORT" envDefault:"8080"`
	MinThreads      *int          `env:"FUNCTION_MIN_THREADS"`
	MaxThreads      *int          `env:"FUNCTION_MAX_THREADS"`
	DetailedErrors  *bool         `env:"FUNCTION_DETAILED_ERRORS"`
	ShutdownTimeout time.Duration `env:"FUNCTION_SHUTDOWN_TIMEOUT"`
	Service         string        `env:"K_SERVICE"`
	HTTP            httpserver.Config
}

// Resolve computes a Config from explicit overrides and an environment
// snapshot. It never reads the process environment itself, so equal inputs
// always give equal results.
func Resolve(o Overrides, environ map[string]string) (Config, error) {
	ec, err := config.Parse[envConfig](environ)
	if err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}

	mode := environment.Detect(environ)
	if o.Mode != nil {
		mode = *o.Mode
	}

	maxDefault := devMaxThreads
	if mode.IsProduction() {
		maxDefault = prodMaxThreads
	}

	cfg := Config{
		BindAddr:         pick(o.BindAddr, &ec.BindAddr, DefaultBindAddr),
		Port:             pick(o.Port, &ec.Port, DefaultPort),
		MinThreads:       pick(o.MinThreads, ec.MinThreads, DefaultMinThreads),
		MaxThreads:       pick(o.MaxThreads, ec.MaxThreads, maxDefault),
		ShowErrorDetails: pick(o.ShowErrorDetails, ec.DetailedErrors, mode.IsDevelopment()),
		Mode:             mode,
		Service:          ec.Service,
		ShutdownTimeout:  pick(o.ShutdownTimeout, &ec.ShutdownTimeout, DefaultShutdownTimeout),
		HTTP:             ec.HTTP,
		Logger:           o.Logger,
		Metrics:          o.Metrics,
	}
	if cfg.MaxThreads < cfg.MinThreads {
		cfg.MaxThreads = cfg.MinThreads
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.New(
			logger.WithMode(mode, cfg.Service),
			logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
		)
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.BindAddr == "" {
		errs = append(errs, errors.New("bind address is empty"))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.MinThreads < 0 {
		errs = append(errs, fmt.Errorf("min threads %d is negative", c.MinThreads))
	}
	if c.MaxThreads < 1 {
		errs = append(errs, fmt.Errorf("max threads %d is below 1", c.MaxThreads))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("shutdown timeout %s is negative", c.ShutdownTimeout))
	}
	if _, ok := environment.Parse(string(c.Mode)); !ok {
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
}

// pick returns the first non-nil of override and fromEnv, else def.
func pick[T any](override, fromEnv *T, def T) T {
	switch {
	case override != nil:
		return *override
	case fromEnv != nil:
		return *fromEnv
	}
	return def
}
