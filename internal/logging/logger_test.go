package logging

import "testing"

func TestNewLoggerModes(t *testing.T) {
	t.Parallel()

	for _, development := range []bool{true, false} {
		logger, err := New(development)
		if err != nil {
			t.Fatalf("New(%v) error = %v", development, err)
		}
		if logger == nil {
			t.Fatalf("New(%v) returned nil logger", development)
		}
		defer logger.Sync() //nolint:errcheck // best-effort flush
		logger.Info("logger ready")
	}
}
