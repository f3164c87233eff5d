package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	errColorName  = errors.New("unknown color name")
	errColorIndex = errors.New("palette index out of range [0, 255]")
	errColorRGB   = errors.New("rgb components must be three integers in [0, 255]")
	errColorType  = errors.New("color must be a name, index, \"#rrggbb\", {ansi256: n} or {rgb: [r, g, b]}")
)

// palette maps named colors to ANSI palette indices.
var palette = map[string]int{
	"black":   0,
	"red":     1,
	"green":   2,
	"yellow":  3,
	"blue":    4,
	"magenta": 5,
	"purple":  5,
	"cyan":    6,
	"white":   7,
}

const brightPrefix = "bright_"

// Color is a style color as written in the configuration file.
//
// Accepted forms are a palette name ("red", "bright_cyan"), a palette index
// (0 through 255), a "#rrggbb" triple, {ansi256: n} and {rgb: [r, g, b]}.
// Decoding never fails; an unusable value is reported by [Config.Validate]
// with the path of the field holding it.
type Color struct {
	raw  any
	spec string
	err  error
}

// Named returns the palette color with the given name.
func Named(name string) *Color { return newColor(name) }

// Index returns the 8-bit palette color n.
func Index(n int) *Color { return newColor(n) }

// RGB returns the 24-bit color (r, g, b).
func RGB(r, g, b uint8) *Color {
	return newColor(map[string]any{"rgb": []any{int(r), int(g), int(b)}})
}

func newColor(raw any) *Color {
	c := &Color{raw: raw}
	c.spec, c.err = parseColor(raw)

	return c
}

// Spec returns the color in lipgloss notation: a palette index "0" through
// "255" or "#rrggbb". It is empty for a nil or invalid color.
func (c *Color) Spec() string {
	if c == nil || c.err != nil {
		return ""
	}

	return c.spec
}

// Err returns the reason the color is unusable, or nil.
func (c *Color) Err() error {
	if c == nil {
		return nil
	}

	return c.err
}

// String returns the color as written.
func (c *Color) String() string {
	if c == nil {
		return ""
	}

	return fmt.Sprint(c.raw)
}

// UnmarshalYAML implements the goccy/go-yaml function-based unmarshaler.
func (c *Color) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}

	*c = *newColor(raw)

	return nil
}

// MarshalYAML implements the goccy/go-yaml marshaler.
func (c *Color) MarshalYAML() (any, error) {
	return c.raw, nil
}

func parseColor(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return parseColorString(v)

	case map[string]any:
		return parseColorMap(v)

	default:
		n, ok := integer(raw)
		if !ok {
			return "", errColorType
		}

		return paletteIndex(n)
	}
}

func parseColorString(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) != 6 { //nolint:mnd
			return "", errColorRGB
		}

		if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
			return "", errColorRGB
		}

		return "#" + hex, nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		return paletteIndex(int64(n))
	}

	name, bright := strings.CutPrefix(s, brightPrefix)

	n, ok := palette[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", errColorName, s)
	}

	if bright {
		n += 8
	}

	return strconv.Itoa(n), nil
}

func parseColorMap(m map[string]any) (string, error) {
	if len(m) != 1 {
		return "", errColorType
	}

	if v, ok := m["ansi256"]; ok {
		n, ok := integer(v)
		if !ok {
			return "", errColorIndex
		}

		return paletteIndex(n)
	}

	v, ok := m["rgb"]
	if !ok {
		return "", errColorType
	}

	list, ok := v.([]any)
	if !ok || len(list) != 3 { //nolint:mnd
		return "", errColorRGB
	}

	var rgb [3]int64

	for i, e := range list {
		n, ok := integer(e)
		if !ok || n < 0 || n > math.MaxUint8 {
			return "", errColorRGB
		}

		rgb[i] = n
	}

	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2]), nil
}

func paletteIndex(n int64) (string, error) {
	if n < 0 || n > math.MaxUint8 {
		return "", errColorIndex
	}

	return strconv.FormatInt(n, 10), nil
}

// integer converts the numeric types produced by the YAML decoder.
func integer(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}

		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}

		return int64(n), true
	default:
		return 0, false
	}
}
