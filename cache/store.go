package cache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/tldr/archive"
	"github.com/ardnew/tldr/log"
	"github.com/ardnew/tldr/pkg"
)

// Store is the on-disk page cache rooted at <dir>/tldr-pages.
//
// The Cache Root is either absent or a complete extraction: every update
// builds a sibling directory and swaps it into place.
type Store struct {
	dir  string
	root string
}

// ReplaceOptions controls a call to [Store.Replace].
type ReplaceOptions struct {
	// Languages retained during extraction. Entries of any other language
	// are discarded. An empty list retains only [DefaultLanguage].
	Languages []string
	// Validator is the HTTP entity tag of the archive, recorded for
	// conditional requests.
	Validator string
}

// Open returns a Store under dir, creating dir if needed.
func Open(dir string) (*Store, error) {
	dir = filepath.Clean(dir)

	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec,mnd
		return nil, pkg.ErrIO.Wrap(err).With(slog.String("dir", dir))
	}

	return &Store{dir: dir, root: filepath.Join(dir, RootName)}, nil
}

// Dir returns the directory containing the Cache Root.
func (s *Store) Dir() string { return s.dir }

// Root returns the path of the Cache Root.
func (s *Store) Root() string { return s.root }

// Exists reports whether a Cache Root is present.
func (s *Store) Exists() bool {
	fi, err := os.Stat(s.root)

	return err == nil && fi.IsDir()
}

// LastUpdate returns the freshness marker, if any.
func (s *Store) LastUpdate() (time.Time, bool) {
	fi, err := os.Stat(filepath.Join(s.root, SentinelName))
	if err != nil {
		return time.Time{}, false
	}

	return fi.ModTime(), true
}

// IsStale reports whether the cache is missing or was last refreshed more
// than maxAge ago.
func (s *Store) IsStale(maxAge time.Duration) bool {
	mod, ok := s.LastUpdate()

	return !ok || time.Since(mod) > maxAge
}

// Metadata returns the record stored with the current Cache Root.
func (s *Store) Metadata() (*Metadata, error) {
	return readMetadata(s.root)
}

// Locate returns the path of a cached page and whether it exists as a
// regular file. It never fails; unusable arguments simply do not match.
func (s *Store) Locate(command, platform, language string) (string, bool) {
	rel, ok := relPath(command, platform, language)
	if !ok {
		return "", false
	}

	name := filepath.Join(s.root, rel)

	fi, err := os.Stat(name)
	if err != nil || !fi.Mode().IsRegular() {
		return name, false
	}

	return name, true
}

// Replace extracts the archive read from r into a new Cache Root and swaps it
// into place. On failure the previous Cache Root is left untouched.
//
// When the archive digest and retained languages match the current metadata,
// the extraction is discarded and only the freshness marker is refreshed;
// the returned Metadata then has Unchanged set.
func (s *Store) Replace(
	ctx context.Context,
	r io.Reader,
	opts ReplaceOptions,
) (*Metadata, error) {
	keep := retained(opts.Languages)

	tmp, err := os.MkdirTemp(s.dir, tempPrefix+"*")
	if err != nil {
		return nil, pkg.ErrUpdate.Wrap(err).With(slog.String("dir", s.dir))
	}

	installed := false

	defer func() {
		if !installed {
			_ = os.RemoveAll(tmp)
		}
	}()

	if err := os.Chmod(tmp, 0o755); err != nil { //nolint:gosec,mnd
		return nil, pkg.ErrUpdate.Wrap(err).With(slog.String("dir", tmp))
	}

	digest := xxh3.New()
	dec := archive.NewDecoder(r,
		archive.WithScratchDir(s.dir),
		archive.WithDigest(digest),
	)

	meta := &Metadata{Validator: opts.Validator, Languages: keep}
	seen := make(map[string]bool)

	for e, err := range dec.Entries() {
		if err != nil {
			return nil, pkg.ErrUpdate.Wrap(err)
		}

		if err := ctx.Err(); err != nil {
			return nil, pkg.ErrUpdate.Wrap(err)
		}

		rel, lang, ok := mapEntry(e.Path)
		if !ok || !slices.Contains(keep, lang) {
			continue
		}

		if err := extract(filepath.Join(tmp, rel), e.Body); err != nil {
			return nil, pkg.ErrUpdate.Wrap(err).With(slog.String("entry", e.Path))
		}

		if !seen[rel] {
			seen[rel] = true
			meta.Pages++
		}
	}

	if meta.Pages == 0 {
		return nil, pkg.ErrUpdate.Wrap(archive.ErrFormat).
			With(slog.String("reason", "archive contains no pages"))
	}

	meta.Digest = fmt.Sprintf("%016x", digest.Sum64())

	if cur, err := s.Metadata(); err == nil &&
		cur.Digest == meta.Digest && slices.Equal(cur.Languages, meta.Languages) {
		if err := writeMetadata(s.root, meta); err != nil {
			return nil, pkg.ErrUpdate.Wrap(err)
		}

		log.DebugContext(ctx, "archive unchanged",
			slog.String("digest", meta.Digest),
			slog.String("root", s.root),
		)

		meta.Unchanged = true

		return meta, nil
	}

	if err := writeMetadata(tmp, meta); err != nil {
		return nil, pkg.ErrUpdate.Wrap(err)
	}

	if err := install(tmp, s.root); err != nil {
		return nil, pkg.ErrUpdate.Wrap(err).With(slog.String("root", s.root))
	}

	installed = true

	// After install, tmp holds the previous Cache Root, if there was one.
	if err := os.RemoveAll(tmp); err != nil {
		log.WarnContext(ctx, "failed to remove previous cache",
			slog.String("path", tmp),
			slog.Any("error", err),
		)
	}

	log.DebugContext(ctx, "cache replaced",
		slog.String("root", s.root),
		slog.Int("pages", meta.Pages),
		slog.Any("languages", meta.Languages),
	)

	return meta, nil
}

// Touch refreshes the freshness marker without extracting anything,
// recording validator if it is not empty.
func (s *Store) Touch(validator string) error {
	if !s.Exists() {
		return pkg.ErrUpdate.Wrap(os.ErrNotExist).With(slog.String("root", s.root))
	}

	meta, err := s.Metadata()
	if err != nil {
		meta = &Metadata{}
	}

	if validator != "" {
		meta.Validator = validator
	}

	if err := writeMetadata(s.root, meta); err != nil {
		return pkg.ErrUpdate.Wrap(err).With(slog.String("root", s.root))
	}

	return nil
}

// List returns the sorted, de-duplicated names of the pages available for
// any of the given platforms and languages.
func (s *Store) List(platforms, languages []string) ([]string, error) {
	var names []string

	for _, lang := range languages {
		for _, platform := range platforms {
			rel, ok := relPath("x", platform, lang)
			if !ok {
				continue
			}

			dir := filepath.Join(s.root, filepath.Dir(rel))

			ents, err := os.ReadDir(dir)
			if isNotExist(err) {
				continue
			}

			if err != nil {
				return nil, pkg.ErrIO.Wrap(err).With(slog.String("dir", dir))
			}

			for _, ent := range ents {
				if name, ok := strings.CutSuffix(ent.Name(), pageExt); ok && ent.Type().IsRegular() {
					names = append(names, name)
				}
			}
		}
	}

	slices.Sort(names)

	return slices.Compact(names), nil
}

// Clear removes the Cache Root and any directories left by interrupted
// updates. Clearing an absent cache is not an error.
func (s *Store) Clear() error {
	if err := os.RemoveAll(s.root); err != nil {
		return pkg.ErrIO.Wrap(err).With(slog.String("root", s.root))
	}

	if _, err := s.Prune(0); err != nil {
		return err
	}

	return nil
}

// Prune removes directories left by interrupted updates that were last
// modified more than olderThan ago, returning how many were removed.
func (s *Store) Prune(olderThan time.Duration) (int, error) {
	ents, err := os.ReadDir(s.dir)
	if err != nil {
		if isNotExist(err) {
			return 0, nil
		}

		return 0, pkg.ErrIO.Wrap(err).With(slog.String("dir", s.dir))
	}

	removed := 0

	for _, ent := range ents {
		if !ent.IsDir() || !strings.HasPrefix(ent.Name(), tempPrefix) {
			continue
		}

		info, err := ent.Info()
		if err != nil || time.Since(info.ModTime()) < olderThan {
			continue
		}

		name := filepath.Join(s.dir, ent.Name())
		if err := os.RemoveAll(name); err != nil {
			return removed, pkg.ErrIO.Wrap(err).With(slog.String("path", name))
		}

		log.Debug("pruned orphaned update", slog.String("path", name))

		removed++
	}

	return removed, nil
}

// retained normalizes an inclusion list of languages: trimmed, sorted,
// without duplicates, never empty.
func retained(languages []string) []string {
	keep := make([]string, 0, len(languages))

	for _, l := range languages {
		if l = strings.TrimSpace(l); l != "" {
			keep = append(keep, l)
		}
	}

	if len(keep) == 0 {
		keep = append(keep, DefaultLanguage)
	}

	slices.Sort(keep)

	return slices.Compact(keep)
}

func extract(name string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil { //nolint:gosec,mnd
		return err
	}

	f, err := os.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644) //nolint:gosec,mnd
	if err != nil {
		return err
	}

	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	return err
}
