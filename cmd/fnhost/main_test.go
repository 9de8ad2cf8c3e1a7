package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fnhost/pkg/environment"
	"github.com/dmitrymomot/fnhost/pkg/function"
	"github.com/dmitrymomot/fnhost/pkg/funcserver"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)

	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "fnhost dev")
	assert.Contains(t, out, "commit: none")
}

func TestFunctionsCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "functions")
	require.NoError(t, err)
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "log-event")
	assert.Contains(t, out, "event")
}

func TestServe_UnknownTarget(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "serve", "--target", "missing", "--port", "0")
	assert.ErrorIs(t, err, function.ErrFunctionNotFound)

	_, err = execute(t, "serve")
	assert.Error(t, err, "target is required")
}

func TestServe_InvalidMode(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "serve", "--target", "hello", "--mode", "staging")
	assert.ErrorIs(t, err, funcserver.ErrInvalidConfig)
}

func TestOverrides_OnlyChangedFlags(t *testing.T) {
	t.Parallel()

	o := serveOptions{port: 9000, maxThreads: 4, bind: "127.0.0.1", mode: "prod", shutdownTimeout: time.Second}
	set := map[string]bool{"port": true, "mode": true}
	ov, err := o.overrides(func(name string) bool { return set[name] })
	require.NoError(t, err)

	require.NotNil(t, ov.Port)
	assert.Equal(t, 9000, *ov.Port)
	require.NotNil(t, ov.Mode)
	assert.Equal(t, environment.Production, *ov.Mode)
	assert.Nil(t, ov.MaxThreads)
	assert.Nil(t, ov.BindAddr)
	assert.Nil(t, ov.ShutdownTimeout)
	assert.Nil(t, ov.ShowErrorDetails)
}

func TestBuiltins(t *testing.T) {
	t.Parallel()
	reg := builtins()
	assert.Equal(t, []string{"echo", "hello", "log-event"}, reg.Names())

	fn, err := reg.Get("hello")
	require.NoError(t, err)
	out := fn.CallHTTP(httptest.NewRequest("GET", "/?name=Ada", nil))
	assert.Equal(t, function.OutcomeText, out.Kind)
	assert.Equal(t, "Hello, Ada!\n", string(out.Text))

	fn, err = reg.Get("echo")
	require.NoError(t, err)
	out = fn.CallHTTP(httptest.NewRequest("POST", "/path?q=1", nil))
	assert.Equal(t, function.OutcomeStructured, out.Kind)

	fn, err = reg.Get("log-event")
	require.NoError(t, err)
	e := event.New()
	e.SetID("1")
	e.SetType("com.example.test")
	e.SetSource("//tests")
	assert.NoError(t, fn.CallEvent(context.Background(), e))
}
