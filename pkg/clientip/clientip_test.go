package clientip_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fnhost/pkg/clientip"
	"github.com/dmitrymomot/fnhost/pkg/logger"
)

func TestFromRequest(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name: "X-Forwarded-For wins",
			headers: map[string]string{
				"X-Forwarded-For": "198.51.100.178, 203.0.113.195",
				"Forwarded":       "for=192.0.2.60",
				"X-Real-IP":       "192.168.1.1",
			},
			remoteAddr: "10.0.0.1:54321",
			expected:   "198.51.100.178",
		},
		{
			name:       "X-Forwarded-For skips garbage",
			headers:    map[string]string{"X-Forwarded-For": "unknown, 203.0.113.195"},
			remoteAddr: "10.0.0.1:54321",
			expected:   "203.0.113.195",
		},
		{
			name:       "Forwarded with port",
			headers:    map[string]string{"Forwarded": `for="192.0.2.60:4711";proto=https;by=203.0.113.43`},
			remoteAddr: "10.0.0.1:54321",
			expected:   "192.0.2.60",
		},
		{
			name:       "Forwarded IPv6",
			headers:    map[string]string{"Forwarded": `For="[2001:db8:cafe::17]:4711"`},
			remoteAddr: "10.0.0.1:54321",
			expected:   "2001:db8:cafe::17",
		},
		{
			name:       "Forwarded obfuscated node falls through",
			headers:    map[string]string{"Forwarded": "for=_hidden", "X-Real-IP": "192.168.1.1"},
			remoteAddr: "10.0.0.1:54321",
			expected:   "192.168.1.1",
		},
		{
			name:       "RemoteAddr fallback",
			remoteAddr: "172.16.0.1:54321",
			expected:   "172.16.0.1",
		},
		{
			name:       "RemoteAddr without port",
			remoteAddr: "172.16.0.1",
			expected:   "172.16.0.1",
		},
		{
			name:       "nothing usable",
			remoteAddr: "pipe",
			expected:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, clientip.FromRequest(req))
		})
	}
}

func TestMiddlewareAndExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithTextFormatter(),
		logger.WithContextExtractors(clientip.LoggerExtractor()),
	)

	var seen string
	h := clientip.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = clientip.FromContext(r.Context())
		log.InfoContext(r.Context(), "handled")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, "203.0.113.7", seen)
	assert.Contains(t, buf.String(), "client_ip=203.0.113.7")

	assert.Empty(t, clientip.FromContext(context.Background()))
	_, ok := clientip.LoggerExtractor()(context.Background())
	assert.False(t, ok)
}
