package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrReportsUnexpectedExit(t *testing.T) {
	t.Parallel()
	e := NewEngine(http.NotFoundHandler(), WithAddr("127.0.0.1:0"))
	require.NoError(t, e.Bind())
	require.NoError(t, e.Run())

	e.mu.Lock()
	ln := e.ln
	e.mu.Unlock()
	require.NoError(t, ln.Close())

	require.True(t, e.Wait(2*time.Second))
	assert.Error(t, e.Err(), "serving ended without a stop request")
}
