package logging_test

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/meelinux/sssdcfg/internal/adapters/logging"
	"github.com/meelinux/sssdcfg/internal/ports"
	"github.com/stretchr/testify/assert"
)

func TestNopLogger(t *testing.T) {
	t.Parallel()

	logger := logging.NewNopLogger()

	// Must not panic and must stay silent.
	logger.Debug(context.Background(), "debug")
	logger.Info(context.Background(), "info")
	logger.Warn(context.Background(), "warn")
	logger.Error(context.Background(), "error")

	assert.Equal(t, ports.LevelInfo, logger.Level())
	assert.Same(t, ports.Logger(logger), logger.With(ports.F("k", "v")))
}

func TestZerologLogger_WritesJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewZerologLogger(
		logging.WithOutput(&buf),
		logging.WithLevel(ports.LevelDebug),
	)

	logger.Info(context.Background(), "converged", ports.F("step", "authselect:select:sssd"))

	out := buf.String()
	assert.Contains(t, out, `"message":"converged"`)
	assert.Contains(t, out, `"step":"authselect:select:sssd"`)
}

func TestZerologLogger_LevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewZerologLogger(
		logging.WithOutput(&buf),
		logging.WithLevel(ports.LevelWarn),
	)

	logger.Info(context.Background(), "hidden")
	logger.Warn(context.Background(), "visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestZerologLogger_With(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewZerologLogger(logging.WithOutput(&buf))

	child := logger.With(ports.F("run_id", "abc123"))
	child.Info(context.Background(), "starting")

	assert.Contains(t, buf.String(), `"run_id":"abc123"`)
}

func TestZerologLogger_ConcurrentSetLevel(t *testing.T) {
	t.Parallel()

	logger := logging.NewZerologLogger(logging.WithOutput(io.Discard))

	// Meaningful under the race detector: emits must not observe a
	// half-written logger while SetLevel swaps it.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				logger.Info(context.Background(), "tick", ports.F("n", j))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				logger.SetLevel(ports.LevelDebug)
				logger.SetLevel(ports.LevelWarn)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, ports.LevelWarn, logger.Level())
}

func TestZerologLogger_SetLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewZerologLogger(logging.WithOutput(&buf))

	logger.SetLevel(ports.LevelError)

	logger.Info(context.Background(), "hidden")
	assert.Empty(t, buf.String())
	assert.Equal(t, ports.LevelError, logger.Level())
}
