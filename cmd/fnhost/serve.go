package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/fnhost/pkg/admin"
	"github.com/dmitrymomot/fnhost/pkg/clientip"
	"github.com/dmitrymomot/fnhost/pkg/config"
	"github.com/dmitrymomot/fnhost/pkg/environment"
	"github.com/dmitrymomot/fnhost/pkg/funcserver"
	"github.com/dmitrymomot/fnhost/pkg/logger"
	"github.com/dmitrymomot/fnhost/pkg/metrics"
	"github.com/dmitrymomot/fnhost/pkg/requestid"
)

// AdminAddrVar selects the admin listener address when --admin-addr is not given.
const AdminAddrVar = "FUNCTION_ADMIN_ADDR"

type serveOptions struct {
	target          string
	bind            string
	port            int
	minThreads      int
	maxThreads      int
	detailedErrors  bool
	mode            string
	shutdownTimeout time.Duration
	adminAddr       string
	envFiles        []string
}

// overrides returns the flags the user set explicitly. changed reports
// whether a flag was given on the command line.
func (o serveOptions) overrides(changed func(name string) bool) (funcserver.Overrides, error) {
	var ov funcserver.Overrides
	if changed("bind") {
		ov.BindAddr = &o.bind
	}
	if changed("port") {
		ov.Port = &o.port
	}
	if changed("min-threads") {
		ov.MinThreads = &o.minThreads
	}
	if changed("max-threads") {
		ov.MaxThreads = &o.maxThreads
	}
	if changed("detailed-errors") {
		ov.ShowErrorDetails = &o.detailedErrors
	}
	if changed("shutdown-timeout") {
		ov.ShutdownTimeout = &o.shutdownTimeout
	}
	if changed("mode") {
		m, ok := environment.Parse(o.mode)
		if !ok {
			return ov, fmt.Errorf("%w: unknown mode %q", funcserver.ErrInvalidConfig, o.mode)
		}
		ov.Mode = &m
	}
	return ov, nil
}

func serveCmd() *cobra.Command {
	var o serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a built-in function",
		Long: `Serve a built-in function until SIGINT, SIGTERM or SIGHUP.

Flags override the environment; unset flags fall back to it.`,
		Example: `  fnhost serve --target hello --port 9000
  fnhost serve --target log-event --env-file .env --admin-addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.target, "target", "t", "", "Name of the function to serve")
	f.StringVar(&o.bind, "bind", funcserver.DefaultBindAddr, "Address to bind")
	f.IntVarP(&o.port, "port", "p", funcserver.DefaultPort, "Port to listen on")
	f.IntVar(&o.minThreads, "min-threads", funcserver.DefaultMinThreads, "Minimum number of workers")
	f.IntVar(&o.maxThreads, "max-threads", 0, "Maximum concurrent invocations (default 1 in development, 16 in production)")
	f.BoolVar(&o.detailedErrors, "detailed-errors", false, "Include failure details in error responses")
	f.StringVar(&o.mode, "mode", "", "Runtime mode: development or production (default detected)")
	f.DurationVar(&o.shutdownTimeout, "shutdown-timeout", funcserver.DefaultShutdownTimeout, "Graceful stop deadline, 0 lets in-flight requests finish")
	f.StringVar(&o.adminAddr, "admin-addr", "", "Serve /healthz, /readyz and /metrics on this address")
	f.StringSliceVar(&o.envFiles, "env-file", nil, "Read environment from these files before the process environment")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func runServe(cmd *cobra.Command, o serveOptions) error {
	ov, err := o.overrides(cmd.Flags().Changed)
	if err != nil {
		return err
	}

	environ, err := config.Environ(o.envFiles...)
	if err != nil {
		return err
	}

	mode := environment.Detect(environ)
	if ov.Mode != nil {
		mode = *ov.Mode
	}
	log := logger.New(
		logger.WithMode(mode, environ[environment.ServiceVar]),
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	fn, err := builtins().Get(o.target)
	if err != nil {
		return err
	}

	m := metrics.New()
	var setupErr error
	srv, err := funcserver.Build(fn, func(b *funcserver.Builder) {
		setupErr = errors.Join(
			b.SetEnviron(environ),
			b.Apply(ov),
			b.SetLogger(log),
			b.SetMetrics(m),
		)
	})
	if err != nil {
		return err
	}
	if setupErr != nil {
		return setupErr
	}

	adminAddr := o.adminAddr
	if adminAddr == "" {
		adminAddr = environ[AdminAddrVar]
	}
	var adm *admin.Server
	if adminAddr != "" {
		adm = admin.New(
			admin.WithAddr(adminAddr),
			admin.WithLogger(log),
			admin.WithGatherer(m.Registry()),
			admin.WithReadiness(admin.RunningCheck(srv)),
		)
		if err := adm.Start(); err != nil {
			return err
		}
		defer adm.Stop()
	}

	if _, err := srv.Start(); err != nil {
		return err
	}
	srv.RespondToSignals()
	srv.WaitUntilStopped(0)
	if err := srv.Err(); err != nil {
		return err
	}
	log.Info("Server stopped")
	return nil
}
