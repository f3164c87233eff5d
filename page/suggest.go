package page

import (
	"github.com/sahilm/fuzzy"
)

// Suggest returns up to limit names from candidates that fuzzily match
// command, best match first. The command itself is never suggested.
//
// When nothing matches the whole command, trailing characters are dropped
// one at a time until something does or half the command is gone, so a
// mistyped suffix still finds the intended page.
func Suggest(command string, candidates []string, limit int) []string {
	command = NormalizeCommand(command)
	if command == "" || limit <= 0 {
		return nil
	}

	pattern := []rune(command)

	for n := len(pattern); n > 0 && 2*n >= len(pattern); n-- {
		out := make([]string, 0, limit)

		for _, m := range fuzzy.Find(string(pattern[:n]), candidates) {
			if len(out) == limit {
				break
			}

			if m.Str != command {
				out = append(out, m.Str)
			}
		}

		if len(out) > 0 {
			return out
		}
	}

	return nil
}
