package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevel_String_RoundTripsThroughParse(t *testing.T) {
	t.Parallel()

	for name := range Levels() {
		if got := ParseLevel(name).String(); got != name {
			t.Errorf("ParseLevel(%q).String() = %q", name, got)
		}
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	if ParseFormat(" JSON ") != FormatJSON {
		t.Error("expected json")
	}
	if ParseFormat("yaml") != DefaultFormat {
		t.Error("expected default for unknown format")
	}
	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"text", "json"}) {
		t.Errorf("Formats() = %v", got)
	}
}

func TestConfig_Options(t *testing.T) {
	t.Parallel()

	c := apply(config{},
		WithLevel(LevelDebug),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
	)

	if c.level != LevelDebug || c.format != FormatJSON || !c.caller || c.pretty {
		t.Errorf("options not applied: %+v", c)
	}
	if c.mutex == nil {
		t.Error("expected mutex allocated by option")
	}
}

func TestMakeFormatTimeFunc(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-09T15:04:05Z"},
		{"Kitchen", "3:04PM"},
		{"date-time", "2024-03-09 15:04:05"},
		{"2006/01/02", "2024/03/09"},
		{"none", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		if got := makeFormatTimeFunc(tt.layout)(ts); got != tt.want {
			t.Errorf("layout %q: got %q, want %q", tt.layout, got, tt.want)
		}
	}
}
