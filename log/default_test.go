package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	original := Default()
	defer func() { defaultLog = original }()

	var buf bytes.Buffer
	defaultLog = Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON), WithPretty(false))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn(tt.name+" message", slog.String("key", "value"))

			output := buf.String()
			if !strings.Contains(output, tt.name+" message") {
				t.Errorf("expected message, got: %s", output)
			}
			if !strings.Contains(output, `"level":"`+tt.level+`"`) {
				t.Errorf("expected level %q, got: %s", tt.level, output)
			}
			if !strings.Contains(output, `"key":"value"`) {
				t.Errorf("expected attribute, got: %s", output)
			}
		})
	}
}

func TestPackage_Config_ReconfiguresDefault(t *testing.T) {
	original := Default()
	defer func() { defaultLog = original }()

	var buf bytes.Buffer
	Config(WithOutput(&buf), WithLevel(LevelError), WithPretty(false))

	Warn("dropped")
	Error("kept")

	if strings.Contains(buf.String(), "dropped") {
		t.Error("warn logged at error level")
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Error("error not logged")
	}
}
