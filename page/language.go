package page

import (
	"slices"
	"strings"
)

// DefaultLanguage is appended to every language list; every page exists in
// it.
const DefaultLanguage = "en"

// ExpandLanguages trims each tag, drops empty and repeated tags, and appends
// [DefaultLanguage] unless already present.
func ExpandLanguages(tags []string) []string {
	out := make([]string, 0, len(tags)+1)

	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" && !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}

	if !slices.Contains(out, DefaultLanguage) {
		out = append(out, DefaultLanguage)
	}

	return out
}

// EnvLanguages derives a language preference list from the values of the
// LANGUAGE and LANG environment variables.
//
// LANGUAGE is a colon-separated priority list and is honoured only when
// LANG names a real locale. Each locale such as "pt_BR.UTF-8@euro"
// contributes its full tag "pt_BR" followed by the bare language "pt".
// The "C" and "POSIX" locales contribute nothing.
func EnvLanguages(language, lang string) []string {
	lang = localeTag(lang)
	if lang == "" {
		return nil
	}

	var out []string

	add := func(tag string) {
		if tag == "" || slices.Contains(out, tag) {
			return
		}

		out = append(out, tag)
		if base, _, ok := strings.Cut(tag, "_"); ok && !slices.Contains(out, base) {
			out = append(out, base)
		}
	}

	for _, l := range strings.Split(language, ":") {
		add(localeTag(l))
	}

	add(lang)

	return out
}

func localeTag(locale string) string {
	locale = strings.TrimSpace(locale)
	locale, _, _ = strings.Cut(locale, "@")
	locale, _, _ = strings.Cut(locale, ".")

	if locale == "C" || locale == "POSIX" {
		return ""
	}

	return locale
}
