package api

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "203.0.113.7:52110",
			want:       "203.0.113.7",
		},
		{
			name:       "forwarded chain keeps first hop",
			forwarded:  "198.51.100.2, 10.0.0.1, 10.0.0.2",
			remoteAddr: "10.0.0.2:443",
			want:       "198.51.100.2",
		},
		{
			name:       "real ip beats remote addr",
			realIP:     "198.51.100.9",
			remoteAddr: "10.0.0.1:80",
			want:       "198.51.100.9",
		},
		{
			name:       "forwarded beats real ip",
			forwarded:  "198.51.100.2",
			realIP:     "198.51.100.9",
			remoteAddr: "10.0.0.1:80",
			want:       "198.51.100.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}

			assert.Equal(t, tt.want, getClientIP(r))
		})
	}
}

func TestStripPort(t *testing.T) {
	assert.Equal(t, "192.0.2.1", stripPort("192.0.2.1:8080"))
	assert.Equal(t, "192.0.2.1", stripPort("192.0.2.1"))
	assert.Equal(t, "[::1]", stripPort("[::1]:8080"))
}
