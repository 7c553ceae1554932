package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "no flags keeps config values",
			args: nil,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7, cfg.Calls)
				assert.Equal(t, 3*time.Second, cfg.Timeout)
				assert.Equal(t, HTTP2, cfg.Protocol)
			},
		},
		{
			name: "explicit flags override",
			args: []string{"-n", "5", "--timeout", "10s", "--protocol", "h3", "--fresh", "--log", "--output", "out"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5, cfg.Calls)
				assert.Equal(t, 10*time.Second, cfg.Timeout)
				assert.Equal(t, HTTP3, cfg.Protocol)
				assert.True(t, cfg.FreshConnections)
				assert.True(t, cfg.EnableLog)
				assert.Equal(t, "out", cfg.OutputDir)
			},
		},
		{
			name: "zero calls is allowed",
			args: []string{"--calls", "0"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 0, cfg.Calls)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &cliOptions{}
			cmd := newRootCmd(opts)
			require.NoError(t, cmd.ParseFlags(tt.args))

			cfg := &Config{Calls: 7, Timeout: 3 * time.Second, Protocol: HTTP2}
			require.NoError(t, applyFlags(cmd, opts, cfg))

			tt.check(t, cfg)
		})
	}
}

func TestApplyFlags_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "negative calls", args: []string{"--calls", "-2"}, wantErr: ErrNegativeRun},
		{name: "unknown protocol", args: []string{"--protocol", "ftp"}, wantErr: ErrUnknownProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &cliOptions{}
			cmd := newRootCmd(opts)
			require.NoError(t, cmd.ParseFlags(tt.args))

			err := applyFlags(cmd, opts, &Config{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, parseLogLevel("error", true))
	assert.Equal(t, logrus.WarnLevel, parseLogLevel("warn", false))
	assert.Equal(t, logrus.InfoLevel, parseLogLevel("", false))
	assert.Equal(t, logrus.InfoLevel, parseLogLevel("loud", false))
}

func TestNewLogger_WritesLogFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, true, logrus.InfoLevel)
	require.NoError(t, err)

	logger.Section("Testing Pair: demo")
	logger.Info("hello %s", "world")
	require.NoError(t, logger.Close())

	require.NotEmpty(t, logger.GetLogPath())
	assert.Equal(t, filepath.Join(dir, "logs"), filepath.Dir(logger.GetLogPath()))

	data, err := os.ReadFile(logger.GetLogPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Testing Pair: demo")
	assert.Contains(t, string(data), strings.Repeat("=", 60))
	assert.Contains(t, string(data), "hello world")
}

func TestLogger_DebugHiddenAtInfo(t *testing.T) {
	var out bytes.Buffer
	logger := NewWriterLogger(&out, logrus.InfoLevel)

	logger.Debug("call %d", 1)
	logger.Warn("careful")

	assert.NotContains(t, out.String(), "call 1")
	assert.Contains(t, out.String(), "careful")
}
