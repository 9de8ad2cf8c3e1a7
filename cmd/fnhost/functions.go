package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/fnhost/pkg/function"
	"github.com/dmitrymomot/fnhost/pkg/logger"
)

// builtins returns the functions the CLI can host.
func builtins() *function.Registry {
	r := function.NewRegistry()
	r.MustAdd(function.HTTP("hello", hello))
	r.MustAdd(function.HTTP("echo", echo))
	r.MustAdd(function.Event("log-event", logEvent))
	return r
}

func hello(r *http.Request) (any, error) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "World"
	}
	return fmt.Sprintf("Hello, %s!\n", name), nil
}

func echo(r *http.Request) (any, error) {
	headers := make(map[string]string, len(r.Header))
	for k := range r.Header {
		headers[k] = r.Header.Get(k)
	}
	return map[string]any{
		"method":  r.Method,
		"path":    r.URL.Path,
		"query":   r.URL.RawQuery,
		"headers": headers,
	}, nil
}

func logEvent(ctx context.Context, e event.Event) error {
	slog.InfoContext(ctx, "Received event",
		logger.EventType(e.Type()),
		logger.EventID(e.ID()),
		slog.String("source", e.Source()),
		slog.String("subject", e.Subject()),
		slog.Int("data_bytes", len(e.Data())),
	)
	return nil
}

func functionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the built-in functions",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := builtins()
			for _, name := range reg.Names() {
				fn, err := reg.Get(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", fn.Name, fn.Kind)
			}
			return nil
		},
	}
}
