package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNetAddress_String tests the String method of NetAddress
func TestNetAddress_String(t *testing.T) {
	tests := []struct {
		name     string
		addr     NetAddress
		expected string
	}{
		{
			name:     "empty address",
			addr:     NetAddress{},
			expected: "",
		},
		{
			name:     "localhost with port",
			addr:     NetAddress{Host: "localhost", Port: 8080},
			expected: "localhost:8080",
		},
		{
			name:     "IP address with port",
			addr:     NetAddress{Host: "127.0.0.1", Port: 9090},
			expected: "127.0.0.1:9090",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.addr.String())
		})
	}
}

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    NetAddress
		wantErr bool
	}{
		{"localhost", "localhost:8080", NetAddress{Host: "localhost", Port: 8080}, false},
		{"ip", "127.0.0.1:80", NetAddress{Host: "127.0.0.1", Port: 80}, false},
		{"no port", "localhost", NetAddress{}, true},
		{"bad port", "localhost:abc", NetAddress{}, true},
		{"zero port", "localhost:0", NetAddress{}, true},
		{"bad ip", "example:80", NetAddress{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a NetAddress
			err := a.Set(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{
		"-a", "127.0.0.1:8081",
		"-driver", "sqlite",
		"-d", "file:x.db",
		"-token-duration", "2h",
		"-clock-interval", "15s",
		"-threshold", "3.2",
		"-config", "/etc/app.json",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8081", cfg.Server.HTTPAddress)
	assert.Equal(t, DriverSQLite, cfg.Storage.DB.Driver)
	assert.Equal(t, "file:x.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 2*time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, 15*time.Second, cfg.Workers.ClockInterval)
	assert.Equal(t, 3.2, cfg.App.PassingThreshold)
	assert.Equal(t, "/etc/app.json", cfg.JSONFilePath)
}

func TestParseFlags_Empty(t *testing.T) {
	cfg, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.Server.HTTPAddress)
	assert.Zero(t, cfg.Workers.ClockInterval)
}
