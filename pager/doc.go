// Package pager shows rendered output in a scrollable, full-screen view.
//
// Keys follow less(1) where the viewport supports them: j/k and the arrows
// scroll by line, f/b and PgDn/PgUp by page, g/G jump to either end, and
// q, Esc or Ctrl+C quit.
package pager
