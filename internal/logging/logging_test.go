package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/vehicle-tco/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input     string
		expected  zapcore.Level
		wantError bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"", zapcore.InfoLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantError {
				t.Fatalf("ParseLevel(%q) error = %v, wantError %v", tt.input, err, tt.wantError)
			}
			if level != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, level, tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		config        config.LoggingConfig
		override      string
		expectEnabled zapcore.Level
		expectQuiet   zapcore.Level
		wantError     bool
	}{
		{
			name:          "Defaults",
			config:        config.LoggingConfig{},
			expectEnabled: zapcore.InfoLevel,
			expectQuiet:   zapcore.DebugLevel,
		},
		{
			name:          "Console at warn",
			config:        config.LoggingConfig{Level: "warn", Format: "console"},
			expectEnabled: zapcore.WarnLevel,
			expectQuiet:   zapcore.InfoLevel,
		},
		{
			name:          "Override wins",
			config:        config.LoggingConfig{Level: "error"},
			override:      "debug",
			expectEnabled: zapcore.DebugLevel,
			expectQuiet:   zapcore.DebugLevel,
		},
		{
			name:      "Invalid level",
			config:    config.LoggingConfig{Level: "loud"},
			wantError: true,
		},
		{
			name:      "Invalid format",
			config:    config.LoggingConfig{Format: "xml"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config, tt.override)
			if tt.wantError {
				if err == nil {
					t.Errorf("New() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if !logger.Core().Enabled(tt.expectEnabled) {
				t.Errorf("New() logger should enable %v", tt.expectEnabled)
			}
			if tt.expectQuiet != tt.expectEnabled && logger.Core().Enabled(tt.expectQuiet) {
				t.Errorf("New() logger should not enable %v", tt.expectQuiet)
			}
		})
	}
}

func TestNewWithOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tco.log")

	logger, err := New(config.LoggingConfig{Level: "info", Format: "json", OutputFile: path}, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("projection finished", zap.String("op", "logging.TestNewWithOutputFile"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "projection finished") {
		t.Errorf("log file does not contain the message: %s", data)
	}
}
