package cache

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/ardnew/tldr/archive"
	"github.com/ardnew/tldr/pkg"
)

func makeZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}

	slices.Sort(names)

	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)

	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}

		if _, err := io.WriteString(w, files[name]); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	return buf.Bytes()
}

func openStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	return s
}

func replace(t *testing.T, s *Store, data []byte, langs ...string) *Metadata {
	t.Helper()

	meta, err := s.Replace(context.Background(), bytes.NewReader(data), ReplaceOptions{Languages: langs})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}

	return meta
}

// assertNoTemp fails if anything other than the Cache Root remains in the
// store directory.
func assertNoTemp(t *testing.T, s *Store) {
	t.Helper()

	ents, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatal(err)
	}

	for _, ent := range ents {
		if ent.Name() != RootName {
			t.Errorf("leftover entry in cache dir: %s", ent.Name())
		}
	}
}

//nolint:gochecknoglobals
var sampleArchive = map[string]string{
	"tldr-main/README.md":                "readme",
	"tldr-main/pages/common/tar.md":      "# tar\n",
	"tldr-main/pages/linux/ls.md":        "# ls\n",
	"tldr-main/pages.fr/common/tar.md":   "# tar (fr)\n",
	"tldr-main/pages.de/common/tar.md":   "# tar (de)\n",
	"tldr-main/pages/common/not-md.json": "{}",
}

func TestStore_Replace_RetainsLanguages(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	meta := replace(t, s, makeZip(t, sampleArchive), "fr", "en", "fr")

	if meta.Pages != 3 {
		t.Errorf("Pages = %d, want 3", meta.Pages)
	}

	if !slices.Equal(meta.Languages, []string{"en", "fr"}) {
		t.Errorf("Languages = %v", meta.Languages)
	}

	tests := []struct {
		command, platform, language string
		want                        bool
	}{
		{"tar", "common", "en", true},
		{"ls", "linux", "en", true},
		{"tar", "common", "fr", true},
		{"tar", "common", "de", false},
		{"ls", "common", "en", false},
		{"not-md", "common", "en", false},
	}

	for _, tt := range tests {
		path, ok := s.Locate(tt.command, tt.platform, tt.language)
		if ok != tt.want {
			t.Errorf("Locate(%s, %s, %s) = %v, want %v", tt.command, tt.platform, tt.language, ok, tt.want)
		}

		if ok {
			b, err := os.ReadFile(path)
			if err != nil || len(b) == 0 {
				t.Errorf("read %s: %v", path, err)
			}
		}
	}

	want := filepath.Join(s.Root(), "pages", "fr", "common", "tar.md")
	if path, _ := s.Locate("tar", "common", "fr"); path != want {
		t.Errorf("fr path = %s, want %s", path, want)
	}

	assertNoTemp(t, s)
}

func TestStore_Replace_CountsDuplicateEntriesOnce(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	meta := replace(t, s, makeZip(t, map[string]string{
		"tldr-main/pages/linux/ls.md":    "# ls\n",
		"tldr-main/pages.en/linux/ls.md": "# ls\n",
		"tldr-main/pages/common/tar.md":  "# tar\n",
	}))

	if meta.Pages != 2 {
		t.Errorf("Pages = %d, want 2", meta.Pages)
	}
}

func TestStore_Replace_EmptyLanguagesKeepsDefault(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	meta := replace(t, s, makeZip(t, sampleArchive))

	if !slices.Equal(meta.Languages, []string{DefaultLanguage}) {
		t.Errorf("Languages = %v", meta.Languages)
	}

	if _, ok := s.Locate("tar", "common", "fr"); ok {
		t.Error("fr page retained without being requested")
	}
}

func TestStore_Replace_FailureKeepsPrevious(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	replace(t, s, makeZip(t, sampleArchive), "en")

	before, err := s.Metadata()
	if err != nil {
		t.Fatal(err)
	}

	bad := makeZip(t, map[string]string{
		"pages/common/zzz.md": "# zzz\n",
		"../../evil.md":       "owned",
	})

	_, err = s.Replace(context.Background(), bytes.NewReader(bad), ReplaceOptions{})
	if !errors.Is(err, pkg.ErrUpdate) {
		t.Fatalf("expected ErrUpdate, got %v", err)
	}

	if !errors.Is(err, archive.ErrUnsafePath) {
		t.Errorf("expected cause ErrUnsafePath, got %v", err)
	}

	if _, ok := s.Locate("tar", "common", "en"); !ok {
		t.Error("previous page no longer located")
	}

	if _, ok := s.Locate("zzz", "common", "en"); ok {
		t.Error("page from failed update is visible")
	}

	after, err := s.Metadata()
	if err != nil || after.Digest != before.Digest {
		t.Errorf("metadata changed: %v -> %v (%v)", before, after, err)
	}

	assertNoTemp(t, s)
}

func TestStore_Replace_RejectsGarbage(t *testing.T) {
	t.Parallel()

	s := openStore(t)

	for _, data := range [][]byte{
		[]byte("<html>not found</html>"),
		makeZip(t, map[string]string{"README.md": "no pages here"}),
	} {
		_, err := s.Replace(context.Background(), bytes.NewReader(data), ReplaceOptions{})
		if !errors.Is(err, pkg.ErrUpdate) {
			t.Errorf("expected ErrUpdate, got %v", err)
		}
	}

	if s.Exists() {
		t.Error("cache root created by failed update")
	}

	assertNoTemp(t, s)
}

func TestStore_Replace_Canceled(t *testing.T) {
	t.Parallel()

	s := openStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Replace(ctx, bytes.NewReader(makeZip(t, sampleArchive)), ReplaceOptions{})
	if !errors.Is(err, context.Canceled) || !errors.Is(err, pkg.ErrUpdate) {
		t.Errorf("expected canceled update, got %v", err)
	}

	if s.Exists() {
		t.Error("cache root created by canceled update")
	}
}

func TestStore_Replace_SwapsExisting(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	replace(t, s, makeZip(t, sampleArchive))

	meta := replace(t, s, makeZip(t, map[string]string{
		"pages/osx/open.md": "# open\n",
	}))

	if meta.Unchanged {
		t.Error("different archive reported unchanged")
	}

	if _, ok := s.Locate("open", "osx", "en"); !ok {
		t.Error("new page not located")
	}

	if _, ok := s.Locate("tar", "common", "en"); ok {
		t.Error("page from previous snapshot still located")
	}

	assertNoTemp(t, s)
}

func TestStore_Replace_Unchanged(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	data := makeZip(t, sampleArchive)

	first := replace(t, s, data, "en")
	if first.Unchanged {
		t.Error("first extraction reported unchanged")
	}

	old := time.Now().Add(-48 * time.Hour)

	sentinel := filepath.Join(s.Root(), SentinelName)
	if err := os.Chtimes(sentinel, old, old); err != nil {
		t.Fatal(err)
	}

	second := replace(t, s, data, "en")
	if !second.Unchanged {
		t.Error("identical archive not reported unchanged")
	}

	if second.Digest != first.Digest {
		t.Errorf("digest %s != %s", second.Digest, first.Digest)
	}

	if s.IsStale(time.Hour) {
		t.Error("marker not refreshed for unchanged archive")
	}

	// A different language selection forces extraction.
	if third := replace(t, s, data, "en", "fr"); third.Unchanged {
		t.Error("language change reported unchanged")
	}

	assertNoTemp(t, s)
}

func TestStore_IsStale(t *testing.T) {
	t.Parallel()

	s := openStore(t)

	if !s.IsStale(time.Hour) {
		t.Error("missing cache not stale")
	}

	replace(t, s, makeZip(t, sampleArchive))

	if s.IsStale(time.Hour) {
		t.Error("fresh cache reported stale")
	}

	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(filepath.Join(s.Root(), SentinelName), old, old); err != nil {
		t.Fatal(err)
	}

	if !s.IsStale(time.Hour) {
		t.Error("old cache not stale")
	}

	if s.IsStale(3 * time.Hour) {
		t.Error("cache stale within max age")
	}
}

func TestStore_Touch(t *testing.T) {
	t.Parallel()

	s := openStore(t)

	if err := s.Touch(`"abc"`); !errors.Is(err, pkg.ErrUpdate) {
		t.Errorf("Touch on empty cache: %v", err)
	}

	replace(t, s, makeZip(t, sampleArchive))

	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(s.Root(), SentinelName), old, old); err != nil {
		t.Fatal(err)
	}

	if err := s.Touch(`"abc"`); err != nil {
		t.Fatalf("Touch: %v", err)
	}

	if s.IsStale(time.Hour) {
		t.Error("Touch did not refresh marker")
	}

	meta, err := s.Metadata()
	if err != nil {
		t.Fatal(err)
	}

	if meta.Validator != `"abc"` || meta.Pages == 0 {
		t.Errorf("metadata after Touch = %+v", meta)
	}
}

func TestStore_List(t *testing.T) {
	t.Parallel()

	s := openStore(t)

	names, err := s.List([]string{"common"}, []string{"en"})
	if err != nil || len(names) != 0 {
		t.Errorf("List on empty cache = %v, %v", names, err)
	}

	replace(t, s, makeZip(t, map[string]string{
		"pages/common/tar.md":   "#",
		"pages/common/git.md":   "#",
		"pages/linux/tar.md":    "#",
		"pages/linux/ls.md":     "#",
		"pages/osx/open.md":     "#",
		"pages.fr/common/cd.md": "#",
	}), "en", "fr")

	names, err = s.List([]string{"linux", "common"}, []string{"fr", "en"})
	if err != nil {
		t.Fatal(err)
	}

	if want := []string{"cd", "git", "ls", "tar"}; !slices.Equal(names, want) {
		t.Errorf("List = %v, want %v", names, want)
	}
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()

	s := openStore(t)

	if err := s.Clear(); err != nil {
		t.Errorf("Clear on empty cache: %v", err)
	}

	replace(t, s, makeZip(t, sampleArchive))

	orphan := filepath.Join(s.Dir(), tempPrefix+"orphan")
	if err := os.MkdirAll(filepath.Join(orphan, "pages"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if s.Exists() {
		t.Error("cache root survived Clear")
	}

	if _, err := os.Stat(orphan); !os.IsNotExist(err) {
		t.Error("orphaned update survived Clear")
	}

	if _, ok := s.Locate("tar", "common", "en"); ok {
		t.Error("page located after Clear")
	}
}

func TestStore_Prune_RespectsAge(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	orphan := filepath.Join(s.Dir(), tempPrefix+"recent")

	if err := os.Mkdir(orphan, 0o755); err != nil {
		t.Fatal(err)
	}

	n, err := s.Prune(time.Hour)
	if err != nil || n != 0 {
		t.Errorf("Prune(1h) = %d, %v", n, err)
	}

	n, err = s.Prune(0)
	if err != nil || n != 1 {
		t.Errorf("Prune(0) = %d, %v", n, err)
	}
}

func TestStore_Locate_RejectsUnsafeNames(t *testing.T) {
	t.Parallel()

	s := openStore(t)

	for _, args := range [][3]string{
		{"../secret", "common", "en"},
		{"tar", "..", "en"},
		{"tar", "common", "fr/../.."},
		{"", "common", "en"},
	} {
		if _, ok := s.Locate(args[0], args[1], args[2]); ok {
			t.Errorf("Locate%v matched", args)
		}
	}
}

func TestExchangeAside(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "new")
	dst := filepath.Join(dir, "cur")

	for name, content := range map[string]string{src: "new", dst: "old"} {
		if err := os.Mkdir(name, 0o755); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(filepath.Join(name, "f"), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	if err := exchangeAside(src, dst); err != nil {
		t.Fatalf("exchangeAside: %v", err)
	}

	for name, want := range map[string]string{src: "old", dst: "new"} {
		b, err := os.ReadFile(filepath.Join(name, "f"))
		if err != nil || string(b) != want {
			t.Errorf("%s/f = %q, %v; want %q", name, b, err, want)
		}
	}

	ents, _ := os.ReadDir(dir)
	if len(ents) != 2 {
		t.Errorf("unexpected entries after exchange: %v", ents)
	}
}

func TestExchangeAside_RollsBack(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dst := filepath.Join(dir, "cur")

	if err := os.Mkdir(dst, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := exchangeAside(filepath.Join(dir, "missing"), dst); err == nil {
		t.Fatal("expected error for missing source")
	}

	if fi, err := os.Stat(dst); err != nil || !fi.IsDir() {
		t.Errorf("destination not restored: %v", err)
	}
}
