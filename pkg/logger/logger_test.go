package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
		wantErr  bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"bogus", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := parseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestGetBeforeInit(t *testing.T) {
	// Get must never return nil, even before Init
	assert.NotNil(t, Get())
	assert.NotNil(t, Sugar())

	// Logging through the wrappers must not panic
	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")
	assert.NoError(t, Sync())
}

func TestInit(t *testing.T) {
	err := Init(Config{Level: "debug", Format: "json"})
	assert.NoError(t, err)
	assert.NotNil(t, Get())

	// Second Init is a no-op
	assert.NoError(t, Init(Config{Level: "error", Format: "text"}))
}
