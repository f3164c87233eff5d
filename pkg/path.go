package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// PathSource describes why a directory path was chosen.
type PathSource int

const (
	SourceOS     PathSource = iota // OS convention
	SourceEnv                      // env variable
	SourceConfig                   // config file
)

// String returns the line comment of the source constant.
func (s PathSource) String() string {
	switch s {
	case SourceOS:
		return "OS convention"
	case SourceEnv:
		return "env variable"
	case SourceConfig:
		return "config file"
	default:
		return "unknown"
	}
}

// Dir is a resolved directory path together with the reason it was chosen.
type Dir struct {
	Path   string
	Source PathSource
}

// EnvVar returns the environment variable identifier for the given suffix,
// e.g. EnvVar("cache_dir") == "TLDR_CACHE_DIR".
func EnvVar(suffix string) string {
	return strings.ToUpper(Name + "_" + suffix)
}

// Prefix returns the base name used to construct the path to the
// configuration and cache directories.
//
// By default, Prefix is the base name of the executable file unless it matches
// one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with Name
//   - "^\.+" (dot-prefixed names): remove the dot prefix
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		ext := filepath.Ext(filepath.Base(id))
		id = strings.TrimSuffix(filepath.Base(id), ext)

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): Name, // default output from dlv
			regexp.MustCompile(`^\.+`):             "",   // remove leading dot(s)
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		if id == "" || strings.HasSuffix(id, ".test") {
			id = Name
		}

		return id
	},
)

// ConfigDir returns the configuration directory.
// The TLDR_CONFIG_DIR environment variable overrides the OS convention.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() Dir {
		return userDir(EnvVar("config_dir"), os.UserConfigDir, ".config")
	},
)

// CacheDir returns the directory holding the page cache and other transient
// files.
// The TLDR_CACHE_DIR environment variable overrides the OS convention.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() Dir {
		return userDir(EnvVar("cache_dir"), os.UserCacheDir, ".cache")
	},
)

func userDir(env string, base func() (string, error), home string) Dir {
	if dir, ok := os.LookupEnv(env); ok && dir != "" {
		return Dir{Path: filepath.Clean(dir), Source: SourceEnv}
	}

	dir, err := base()
	if err != nil {
		dir, err = os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(dir, home)
		} else {
			var err error
			dir, err = os.Getwd()
			if err != nil {
				dir = "."
			}
		}
	}

	return Dir{Path: filepath.Join(dir, Prefix()), Source: SourceOS}
}
