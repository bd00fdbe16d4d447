package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		logger, err := NewLogger(tt.level, "")
		if err != nil {
			t.Fatalf("NewLogger(%q): %v", tt.level, err)
		}
		if !logger.Core().Enabled(tt.want) {
			t.Errorf("NewLogger(%q) does not enable %v", tt.level, tt.want)
		}
		if tt.want > zapcore.DebugLevel && logger.Core().Enabled(tt.want-1) {
			t.Errorf("NewLogger(%q) enables %v", tt.level, tt.want-1)
		}
	}
}

func TestNewLoggerFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "baydeals.log")
	logger, err := NewLogger("info", path)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("Merged 3 deals to data/deals.json (1 kept + 2 new)")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	if !strings.Contains(line, " | INFO | ") {
		t.Errorf("missing console separator or level: %q", line)
	}
	if !strings.Contains(line, "Merged 3 deals") {
		t.Errorf("message not written: %q", line)
	}
}
