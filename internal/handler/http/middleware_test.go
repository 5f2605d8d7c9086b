package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{name: "remote_addr", remoteAddr: "10.0.0.5:4123", want: "10.0.0.5"},
		{name: "forwarded_single", remoteAddr: "10.0.0.5:4123", forwarded: "203.0.113.7", want: "203.0.113.7"},
		{name: "forwarded_chain_uses_first", remoteAddr: "10.0.0.5:4123", forwarded: "203.0.113.7, 10.0.0.1", want: "203.0.113.7"},
		{name: "remote_addr_without_port", remoteAddr: "10.0.0.5", want: "10.0.0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
