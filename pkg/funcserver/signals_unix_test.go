//go:build unix

package funcserver_test

import (
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Not parallel: delivers real signals to the test process.
func TestRespondToSignals_Burst(t *testing.T) {
	s := newServer(t, helloFunction())
	_, err := s.Start()
	require.NoError(t, err)

	s.RespondToSignals()
	s.RespondToSignals()
	t.Cleanup(func() { s.IgnoreSignals() })

	for range 3 {
		require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGHUP))
	}

	require.Eventually(t, func() bool { return !s.Running() }, 2*time.Second, 5*time.Millisecond)
	assert.True(t, s.WaitUntilStopped(time.Second))
	assert.Equal(t, 1, strings.Count(s.logs.String(), "Stopping server"))
}
