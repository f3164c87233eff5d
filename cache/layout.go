package cache

import (
	"path/filepath"
	"strings"
)

// Names within the cache directory.
const (
	RootName     = "tldr-pages"
	PagesName    = "pages"
	SentinelName = "last-update"

	// DefaultLanguage has no language segment in the cache layout.
	DefaultLanguage = "en"

	// tempPrefix marks directories created by an update in progress.
	tempPrefix = ".tldr-pages-"
	pageExt    = ".md"
)

// relPath returns the cache-relative path of a page, or false if any
// component is unusable as a single path element.
func relPath(command, platform, language string) (string, bool) {
	for _, s := range []string{command, platform, language} {
		if !isElem(s) {
			return "", false
		}
	}

	if language == DefaultLanguage {
		return filepath.Join(PagesName, platform, command+pageExt), true
	}

	return filepath.Join(PagesName, language, platform, command+pageExt), true
}

func isElem(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

// mapEntry maps an archive entry path onto the cache layout.
//
// Recognized forms, optionally below a single leading directory:
//
//	pages/<platform>/<command>.md          (default language)
//	pages/<language>/<platform>/<command>.md
//	pages.<language>/<platform>/<command>.md
//
// The language of the entry is returned alongside its cache-relative path.
func mapEntry(name string) (rel, language string, ok bool) {
	parts := strings.Split(name, "/")

	if len(parts) > 1 && !isPagesSegment(parts[0]) {
		parts = parts[1:]
	}

	if len(parts) < 3 || !isPagesSegment(parts[0]) {
		return "", "", false
	}

	var platform, file string

	switch seg, rest := parts[0], parts[1:]; {
	case seg != PagesName && len(rest) == 2:
		language = strings.TrimPrefix(seg, PagesName+".")
		platform, file = rest[0], rest[1]

	case seg == PagesName && len(rest) == 2:
		language = DefaultLanguage
		platform, file = rest[0], rest[1]

	case seg == PagesName && len(rest) == 3:
		language, platform, file = rest[0], rest[1], rest[2]

	default:
		return "", "", false
	}

	command, found := strings.CutSuffix(file, pageExt)
	if !found {
		return "", "", false
	}

	rel, ok = relPath(command, platform, language)

	return rel, language, ok
}

func isPagesSegment(s string) bool {
	if s == PagesName {
		return true
	}

	lang, found := strings.CutPrefix(s, PagesName+".")

	return found && isElem(lang)
}
