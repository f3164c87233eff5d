package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != DefaultLevel {
		t.Errorf("expected default level %v, got %v", DefaultLevel, logger.Level())
	}
	if logger.caller {
		t.Error("expected caller disabled by default")
	}
	if logger.Format() != FormatText {
		t.Errorf("expected default format text, got %v", logger.Format())
	}
	if !logger.pretty {
		t.Error("expected pretty enabled by default")
	}
}

func TestLogger_Make_WithLevel_FiltersMessages(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelDebug), WithPretty(false))

	logger.Debug("debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message not logged after setting level to Debug")
	}

	buf.Reset()
	logger = Make(&buf, WithLevel(LevelError), WithPretty(false))
	logger.Info("info message")
	if buf.Len() > 0 {
		t.Error("info message logged when level is Error")
	}

	logger.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at Error level")
	}
}

func TestLogger_Trace_RendersTraceLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelTrace), WithPretty(false))
	logger.Trace("very verbose")

	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("expected level=TRACE, got: %s", buf.String())
	}
}

func TestLogger_JSON_IsValid(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := Make(&buf,
		WithFormat(FormatJSON),
		WithPretty(false),
		WithLevel(LevelInfo),
		WithTimeLayout("none"),
	)
	logger.Info("page rendered", slog.String("command", "tar"))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if rec["msg"] != "page rendered" || rec["command"] != "tar" {
		t.Errorf("unexpected record: %v", rec)
	}
	if _, ok := rec["time"]; ok {
		t.Error("time key present with layout none")
	}
}

func TestLogger_WithCaller_IncludesSource(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := Make(&buf, WithCaller(true), WithLevel(LevelInfo), WithPretty(false))
	logger.Info("test message")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("expected source to reference this file, got: %s", buf.String())
	}
}

func TestLogger_With_CarriesAttrs(t *testing.T) {
	t.Parallel()

	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer
		logger := Make(&buf, WithLevel(LevelInfo), WithPretty(pretty)).
			With(slog.String("component", "cache"))

		logger.Info("opened")

		if !strings.Contains(buf.String(), "component") ||
			!strings.Contains(buf.String(), "cache") {
			t.Errorf("pretty=%v: expected attribute in output, got: %s", pretty, buf.String())
		}
	}
}

func TestLogger_Pretty_FlattensGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelInfo), WithTimeLayout("none"))
	logger.Info("failed", slog.Group("err", slog.String("cause", "boom")))

	if !strings.Contains(buf.String(), "err.cause") {
		t.Errorf("expected flattened group key, got: %q", buf.String())
	}
}

func TestLogger_Pretty_ErrorValue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelInfo), WithFormat(FormatJSON))
	logger.Info("failed", slog.Any("error", errors.New("disk full")))

	if !strings.Contains(buf.String(), "disk full") {
		t.Errorf("expected error text, got: %q", buf.String())
	}
}

func TestLogger_Wrap_DoesNotMutateReceiver(t *testing.T) {
	t.Parallel()

	base := Make(nil, WithLevel(LevelWarn))
	wrapped := base.Wrap(WithLevel(LevelDebug))

	if base.Level() != LevelWarn {
		t.Errorf("receiver level changed to %v", base.Level())
	}
	if wrapped.Level() != LevelDebug {
		t.Errorf("wrapped level = %v, want debug", wrapped.Level())
	}
}

func TestLogger_ZeroValue_IsSilent(t *testing.T) {
	t.Parallel()

	var logger Logger
	logger.Error("nothing happens")

	if logger.Level() != DefaultLevel {
		t.Errorf("zero logger level = %v", logger.Level())
	}
}

func TestLogger_ConcurrentUse(t *testing.T) {
	t.Parallel()

	var buf syncBuffer
	logger := Make(&buf, WithLevel(LevelInfo))

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			logger.Info("hello")
		}()
	}

	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 16 {
		t.Errorf("expected 16 lines, got %d", got)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}
