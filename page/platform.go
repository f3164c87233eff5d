package page

import (
	"log/slog"
	"runtime"
	"slices"
	"strings"

	"github.com/ardnew/tldr/pkg"
)

// Platform identifies a page directory in the cache.
type Platform string

// Platforms with a page directory in the cache.
const (
	Common  Platform = "common"
	Linux   Platform = "linux"
	OSX     Platform = "osx"
	Windows Platform = "windows"
	Android Platform = "android"
	FreeBSD Platform = "freebsd"
	NetBSD  Platform = "netbsd"
	OpenBSD Platform = "openbsd"
	SunOS   Platform = "sunos"
)

// Meta-values accepted wherever a list of platform names is expected.
const (
	// PlatformCurrent expands to the platform the program is running on.
	PlatformCurrent = "current"
	// PlatformAll expands to every platform not listed before it.
	PlatformAll = "all"
)

//nolint:gochecknoglobals
var canonical = []Platform{
	Common, Linux, OSX, Windows, Android, FreeBSD, NetBSD, OpenBSD, SunOS,
}

// Platforms returns every platform in canonical order.
func Platforms() []Platform { return slices.Clone(canonical) }

// String returns the directory name of the platform.
func (p Platform) String() string { return string(p) }

// ParsePlatform parses a platform name. Matching ignores case and
// surrounding space, and "macos" is accepted for [OSX].
func ParsePlatform(s string) (Platform, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "macos" {
		name = string(OSX)
	}

	if p := Platform(name); slices.Contains(canonical, p) {
		return p, nil
	}

	return "", pkg.ErrConfig.With(
		slog.String("field", "platform"),
		slog.String("value", s),
	)
}

// Current returns the platform the program is running on, if it has one.
func Current() (Platform, bool) { return forGOOS(runtime.GOOS) }

func forGOOS(goos string) (Platform, bool) {
	switch goos {
	case "darwin", "ios":
		return OSX, true
	case "solaris", "illumos":
		return SunOS, true
	case "linux", "windows", "android", "freebsd", "netbsd", "openbsd":
		return Platform(goos), true
	default:
		return "", false
	}
}

// ExpandPlatforms resolves a user-supplied list of platform names into an
// ordered list of distinct platforms.
//
// "current" is replaced by [Current] and dropped when the running platform
// has no page directory. "all" is replaced by every platform not already
// listed before it, in canonical order. Duplicates keep their first
// position. An unknown name fails with [pkg.ErrConfig].
func ExpandPlatforms(names []string) ([]Platform, error) {
	return expandPlatforms(names, runtime.GOOS)
}

func expandPlatforms(names []string, goos string) ([]Platform, error) {
	out := make([]Platform, 0, len(canonical))

	add := func(p Platform) {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}

	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case PlatformCurrent:
			if p, ok := forGOOS(goos); ok {
				add(p)
			}

		case PlatformAll:
			for _, p := range canonical {
				add(p)
			}

		default:
			p, err := ParsePlatform(name)
			if err != nil {
				return nil, err
			}

			add(p)
		}
	}

	return out, nil
}
