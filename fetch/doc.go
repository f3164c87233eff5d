// Package fetch downloads the page archive.
//
// [Get] performs exactly one HTTP GET. A remembered entity tag is sent as
// If-None-Match, so an unchanged archive costs a 304 response instead of a
// full download.
package fetch
