package utils

import (
	"testing"

	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	t.Run("debug mode enables debug level", func(t *testing.T) {
		logger, err := NewLogger(true)
		if err != nil {
			t.Fatalf("NewLogger(true) error: %v", err)
		}
		if logger.Check(zap.DebugLevel, "probe") == nil {
			t.Error("debug level disabled in debug mode")
		}
		_ = logger.Sync()
	})

	t.Run("production mode suppresses debug level", func(t *testing.T) {
		logger, err := NewLogger(false)
		if err != nil {
			t.Fatalf("NewLogger(false) error: %v", err)
		}
		if logger.Check(zap.DebugLevel, "probe") != nil {
			t.Error("debug level enabled in production mode")
		}
		if logger.Check(zap.InfoLevel, "probe") == nil {
			t.Error("info level disabled in production mode")
		}
		_ = logger.Sync()
	})
}
