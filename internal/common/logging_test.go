package common

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewLogger_ReturnsNonNil(t *testing.T) {
	logger := NewLogger("info")
	if logger == nil {
		t.Fatal("NewLogger returned nil")
	}
}

func TestNewLoggerFromConfig_DefaultsLevelAndOutputs(t *testing.T) {
	logger := NewLoggerFromConfig(LoggingConfig{})
	if logger == nil {
		t.Fatal("NewLoggerFromConfig returned nil")
	}
	logger.Debug().Str("ticker", "AAPL").Msg("filtered at info")
}

func TestNewLoggerFromConfig_FileOutput(t *testing.T) {
	dir := t.TempDir()
	logger := NewLoggerFromConfig(LoggingConfig{
		Level:    "info",
		Outputs:  []string{"file"},
		FilePath: dir + "/argentis.log",
	})
	logger.Info().Str("ticker", "MSFT").Msg("fetched")
}

func TestNewLoggerWithOutput_WritesLine(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)
	logger.Info().Str("ticker", "AAPL").Int("bars", 1258).Msg("history fetched")

	out := buf.String()
	if !strings.Contains(out, "history fetched") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "ticker=AAPL") {
		t.Errorf("expected ticker field in output, got %q", out)
	}
}

func TestNewLoggerWithOutput_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("warn", &buf)

	logger.Info().Msg("info should be filtered")
	logger.Error().Msg("error should appear")

	out := buf.String()
	if strings.Contains(out, "info should be filtered") {
		t.Error("info message appeared at warn level")
	}
	if !strings.Contains(out, "error should appear") {
		t.Errorf("error message missing at warn level, got %q", out)
	}
}

func TestNewSilentLogger_DoesNotWriteToRegisteredWriters(t *testing.T) {
	var buf bytes.Buffer
	_ = NewLoggerWithOutput("info", &buf)
	buf.Reset()

	silent := NewSilentLogger()
	silent.Info().Str("ticker", "AAPL").Msg("should not appear")
	silent.Error().Msg("should not appear either")

	if buf.Len() > 0 {
		t.Errorf("silent logger wrote %d bytes: %s", buf.Len(), buf.String())
	}
}

func TestWithCorrelationId_ReturnsNewLogger(t *testing.T) {
	logger := NewLogger("error")
	correlated := logger.WithCorrelationId("req-123")

	if correlated == nil {
		t.Fatal("WithCorrelationId returned nil")
	}
	if correlated == logger {
		t.Error("expected a new Logger instance")
	}
	correlated.Info().Dur("elapsed", 15*time.Millisecond).Msg("request complete")
}

func TestConcurrentLogging_SilentLoggerSafe(t *testing.T) {
	logger := NewSilentLogger()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				logger.Info().Int("worker", id).Int("j", j).Msg("concurrent")
			}
		}(i)
	}
	wg.Wait()
}
