// Package archive decodes the compressed page archive into a lazy sequence of
// file entries.
//
// Two formats are recognized by their leading bytes: ZIP and gzip-compressed
// tar. Tar streams are decoded entry by entry as they arrive. ZIP requires
// random access to its central directory, so the stream is first spooled to
// a scratch file on disk, never held in memory.
//
//	dec := archive.NewDecoder(resp.Body, archive.WithDigest(xxh3.New()))
//	for e, err := range dec.Entries() {
//		if err != nil {
//			return err
//		}
//		// e.Body is valid until the next iteration
//	}
//
// Only regular files are yielded, and every path is verified to be local
// (see [filepath.IsLocal]) before it is handed to the caller.
package archive
