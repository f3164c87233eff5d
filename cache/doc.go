// Package cache maintains the local snapshot of the page archive.
//
// The snapshot lives in a single directory, the Cache Root:
//
//	<dir>/tldr-pages/
//	├── last-update                      freshness sentinel (YAML metadata)
//	└── pages/
//	    ├── <platform>/<command>.md      default language (en)
//	    └── <language>/<platform>/<command>.md
//
// The sentinel's modification time is the freshness marker consulted by
// [Store.IsStale]. Its content records the archive digest and HTTP validator
// so an identical archive is not extracted twice.
//
// [Store.Replace] extracts into a sibling temporary directory and swaps it
// into place, so readers observe either the previous snapshot or the new
// one in full. An interrupted update leaves only the temporary directory,
// which [Store.Prune] and [Store.Clear] remove.
package cache
