package archive

import (
	"archive/tar"
	"bufio"
	"bytes"
	"errors"
	"io"
	"iter"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/readahead"

	"github.com/ardnew/tldr/log"
	"github.com/ardnew/tldr/pkg"
)

var (
	// ErrFormat is returned when the stream is neither a ZIP archive nor a
	// gzip-compressed tar archive.
	ErrFormat = pkg.NewError("unrecognized archive format")

	// ErrCorrupt is returned when a recognized archive cannot be read.
	ErrCorrupt = pkg.NewError("corrupt archive")

	// ErrUnsafePath is returned for an entry whose path is absolute or
	// escapes the extraction root.
	ErrUnsafePath = pkg.NewError("unsafe archive entry path")
)

//nolint:gochecknoglobals
var (
	magicZip      = []byte("PK\x03\x04")
	magicZipEmpty = []byte("PK\x05\x06")
	magicGzip     = []byte("\x1f\x8b")
)

// Entry is a regular file within an archive.
//
// Body is valid only until the iteration step that produced it returns.
type Entry struct {
	Path string // cleaned, forward-slash separated, always local
	Size int64
	Body io.Reader
}

// Decoder reads entries from a compressed archive stream.
// A Decoder consumes its stream and may be iterated only once.
type Decoder struct {
	r   io.Reader
	cfg config
}

// NewDecoder returns a Decoder reading the archive from r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, cfg: apply(config{}, opts...)}
}

// Entries returns an iterator over the regular files in the archive.
//
// The format is detected from the leading bytes of the stream. Iteration
// stops after the first non-nil error is yielded.
func (d *Decoder) Entries() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		src := d.r
		if d.cfg.digest != nil {
			src = io.TeeReader(src, d.cfg.digest)
		}

		br := bufio.NewReader(src)

		magic, err := br.Peek(len(magicZip))
		if err != nil && !errors.Is(err, io.EOF) {
			yield(Entry{}, ErrCorrupt.Wrap(err))

			return
		}

		switch {
		case bytes.HasPrefix(magic, magicZip), bytes.HasPrefix(magic, magicZipEmpty):
			d.zipEntries(br, yield)

		case bytes.HasPrefix(magic, magicGzip):
			d.tarEntries(br, yield)

		default:
			yield(Entry{}, ErrFormat.With(slog.Int("peeked", len(magic))))
		}
	}
}

func (d *Decoder) tarEntries(br *bufio.Reader, yield func(Entry, error) bool) {
	gz, err := gzip.NewReader(br)
	if err != nil {
		yield(Entry{}, ErrCorrupt.Wrap(err))

		return
	}
	defer gz.Close()

	tr := tar.NewReader(gz)

	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			yield(Entry{}, ErrCorrupt.Wrap(err))

			return
		}

		if !hdr.FileInfo().Mode().IsRegular() {
			continue
		}

		name, err := localPath(hdr.Name)
		if err != nil {
			yield(Entry{}, err)

			return
		}

		if !yield(Entry{Path: name, Size: hdr.Size, Body: tr}, nil) {
			return
		}
	}

	// Consume trailing padding so that a digest covers the whole stream.
	if _, err := io.Copy(io.Discard, br); err != nil {
		yield(Entry{}, ErrCorrupt.Wrap(err))
	}
}

func (d *Decoder) zipEntries(br *bufio.Reader, yield func(Entry, error) bool) {
	spool, size, err := d.spool(br)
	if err != nil {
		yield(Entry{}, err)

		return
	}

	defer func() {
		_ = spool.Close()
		_ = os.Remove(spool.Name())
	}()

	zr, err := zip.NewReader(spool, size)
	if err != nil {
		yield(Entry{}, ErrCorrupt.Wrap(err))

		return
	}

	for _, f := range zr.File {
		if !f.Mode().IsRegular() {
			continue
		}

		name, err := localPath(f.Name)
		if err != nil {
			yield(Entry{}, err)

			return
		}

		rc, err := f.Open()
		if err != nil {
			yield(Entry{}, ErrCorrupt.Wrap(err).With(slog.String("path", name)))

			return
		}

		more := yield(Entry{
			Path: name,
			Size: int64(f.UncompressedSize64), //nolint:gosec
			Body: rc,
		}, nil)

		_ = rc.Close()

		if !more {
			return
		}
	}
}

// spool copies the stream into a scratch file so the ZIP central directory
// can be read with random access.
func (d *Decoder) spool(r io.Reader) (*os.File, int64, error) {
	f, err := os.CreateTemp(d.cfg.scratchDir, ".tldr-archive-*.zip")
	if err != nil {
		return nil, 0, pkg.ErrIO.Wrap(err).
			With(slog.String("dir", d.cfg.scratchDir))
	}

	ra := readahead.NewReader(r)
	defer ra.Close()

	n, err := io.Copy(f, ra)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())

		return nil, 0, ErrCorrupt.Wrap(err)
	}

	log.Trace("spooled archive",
		slog.String("file", f.Name()),
		slog.Int64("bytes", n),
	)

	return f, n, nil
}

func localPath(name string) (string, error) {
	clean := path.Clean(name)
	if !filepath.IsLocal(filepath.FromSlash(clean)) {
		return "", ErrUnsafePath.With(slog.String("path", name))
	}

	return clean, nil
}
