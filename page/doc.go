// Package page resolves a command name to the text of its help page.
//
// A [Resolver] searches an ordered list of platforms and, within each, an
// ordered list of languages; the first page found in the cache is used.
// Files in a custom directory then adjust the result:
//
//	<command>.page.md    replaces the cached page
//	<command>.patch.md   is appended to the page (or is the page on its own)
//
// Platform lists accept the meta-values "current" and "all", which
// [ExpandPlatforms] replaces with concrete platforms.
package page
