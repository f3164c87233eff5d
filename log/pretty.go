package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyBase holds the state shared by both pretty handlers: options, the
// output guard, and attributes accumulated through WithAttrs/WithGroup.
type prettyBase struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	prefix     string      // dotted group prefix applied to new attrs
	attrs      []slog.Attr // pre-qualified attrs from WithAttrs
}

func newPrettyBase(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) prettyBase {
	if formatTime == nil {
		formatTime = makeFormatTimeFunc(DefaultTimeLayout)
	}

	return prettyBase{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (b prettyBase) enabled(level slog.Level) bool {
	floor := slog.LevelInfo
	if b.opts.Level != nil {
		floor = b.opts.Level.Level()
	}

	return level >= floor
}

func (b prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	qualified := make([]slog.Attr, 0, len(b.attrs)+len(attrs))
	qualified = append(qualified, b.attrs...)

	for _, a := range attrs {
		qualified = append(qualified, slog.Attr{Key: b.prefix + a.Key, Value: a.Value})
	}

	b.attrs = qualified

	return b
}

func (b prettyBase) withGroup(name string) prettyBase {
	if name != "" {
		b.prefix += name + "."
	}

	return b
}

// fields returns the record's header and attributes in output order.
// Attributes are resolved, qualified with the group prefix and flattened.
func (b prettyBase) fields(r slog.Record) []slog.Attr {
	out := make([]slog.Attr, 0, 4+len(b.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if ts := b.formatTime(r.Time); ts != "" {
			out = append(out, slog.String(slog.TimeKey, ts))
		}
	}

	out = append(out, slog.Any(slog.LevelKey, r.Level))

	if b.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			out = append(out, slog.String(
				slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line),
			))
		}
	}

	out = append(out, slog.String(slog.MessageKey, r.Message))
	out = append(out, b.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		out = appendFlat(out, b.prefix, a)

		return true
	})

	return out
}

func appendFlat(out []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() != slog.KindGroup {
		if a.Key == "" {
			return out
		}

		return append(out, slog.Attr{Key: prefix + a.Key, Value: a.Value})
	}

	if a.Key != "" {
		prefix += a.Key + "."
	}

	for _, g := range a.Value.Group() {
		out = appendFlat(out, prefix, g)
	}

	return out
}

func (b prettyBase) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler implements a colorized text handler for log messages.
type prettyTextHandler struct{ prettyBase }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{newPrettyBase(w, opts, formatTime)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.fields(r) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(colorGray)
		buf.WriteString(a.Key)
		buf.WriteString(colorReset)
		buf.WriteByte('=')
		writeValue(buf, a.Value)
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler implements an indented, colorized JSON-like handler.
type prettyJSONHandler struct{ prettyBase }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyJSONHandler {
	return &prettyJSONHandler{newPrettyBase(w, opts, formatTime)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	buf.WriteString("{")

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString("\n  ")
		buf.WriteString(colorGray)
		buf.WriteString(strconv.Quote(a.Key))
		buf.WriteString(colorReset)
		buf.WriteString(": ")
		writeValue(buf, a.Value)
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

// writeValue writes v colored by kind.
func writeValue(buf *bytes.Buffer, v slog.Value) {
	color, text := colorCyan, v.String()

	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		color = colorYellow

	case slog.KindBool:
		color = colorRed
		if v.Bool() {
			color = colorGreen
		}

	case slog.KindDuration:
		color = colorMagenta

	case slog.KindTime:
		color = colorBlue

	case slog.KindAny:
		switch val := v.Any().(type) {
		case slog.Level:
			color, text = levelColor(val), strings.ToUpper(Level(val).String())
		case nil:
			color, text = colorGray, "null"
		case error:
			color, text = colorRed, val.Error()
		}
	}

	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}
