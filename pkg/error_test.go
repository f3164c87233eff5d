package pkg

import (
	"errors"
	"io/fs"
	"log/slog"
	"testing"
)

func TestError_IsSentinel(t *testing.T) {
	t.Parallel()

	err := ErrUpdate.Wrap(fs.ErrPermission).With(slog.String("path", "/x"))

	if !errors.Is(err, ErrUpdate) {
		t.Error("expected wrapped error to match ErrUpdate")
	}
	if errors.Is(err, ErrIO) {
		t.Error("wrapped ErrUpdate must not match ErrIO")
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("expected cause to be reachable through Unwrap")
	}
}

func TestError_Message(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message only", NewError("boom"), "boom"},
		{"message and cause", NewError("boom").Wrap(errors.New("why")), "boom: why"},
		{"cause only", WrapError(errors.New("why")), "why"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Attr(t *testing.T) {
	t.Parallel()

	err := ErrConfig.With(slog.String("field", "style.title.foreground"))

	v, ok := err.Attr("field")
	if !ok {
		t.Fatal("expected field attribute")
	}
	if v.String() != "style.title.foreground" {
		t.Errorf("unexpected field %q", v.String())
	}

	if _, ok := ErrConfig.Attr("field"); ok {
		t.Error("With must not mutate the sentinel")
	}
}

func TestWrapError_ReturnsExisting(t *testing.T) {
	t.Parallel()

	base := ErrIO.With(slog.String("op", "clear"))
	if got := WrapError(base); got != base {
		t.Error("expected WrapError to return the existing *Error")
	}
}
