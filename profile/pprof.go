//go:build pprof

package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"

	_ "net/http/pprof" // register HTTP handlers
)

// Modes returns the list of supported profiling modes when built with the
// pprof build tag.
//
//nolint:gochecknoglobals
var Modes = sync.OnceValue(
	func() []string {
		return slices.Sorted(maps.Keys(mode))
	},
)

//nolint:gochecknoglobals
var mode = map[string]func(*profile.Profile){
	"block":     profile.BlockProfile,
	"cpu":       profile.CPUProfile,
	"clock":     profile.ClockProfile,
	"goroutine": profile.GoroutineProfile,
	"mem":       profile.MemProfile,
	"allocs":    profile.MemProfileAllocs,
	"heap":      profile.MemProfileHeap,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// option adds a setting to the profile being assembled.
type option func([]func(*profile.Profile)) []func(*profile.Profile)

func start(p Profiler) Stopper {
	fn, ok := mode[p.Mode]
	if !ok {
		return ignore{}
	}

	var settings []func(*profile.Profile)

	for _, opt := range []option{withMode(fn), withDir(p.Dir), withQuiet(p.Quiet)} {
		settings = opt(settings)
	}

	return profile.Start(settings...)
}

func withMode(fn func(*profile.Profile)) option {
	return func(s []func(*profile.Profile)) []func(*profile.Profile) {
		return append(s, fn)
	}
}

func withDir(dir string) option {
	return func(s []func(*profile.Profile)) []func(*profile.Profile) {
		if dir != "" {
			s = append(s, profile.ProfilePath(dir))
		}

		return s
	}
}

func withQuiet(quiet bool) option {
	return func(s []func(*profile.Profile)) []func(*profile.Profile) {
		if quiet {
			s = append(s, profile.Quiet)
		}

		return s
	}
}
