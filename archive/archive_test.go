package archive

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"os"
	"slices"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/zeebo/xxh3"
)

type file struct {
	name string
	body string
	dir  bool
}

func makeZip(t *testing.T, files ...file) []byte {
	t.Helper()

	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)

	for _, f := range files {
		name := f.name
		if f.dir {
			name += "/"
		}

		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", f.name, err)
		}

		if _, err := io.WriteString(w, f.body); err != nil {
			t.Fatalf("zip write %s: %v", f.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}

	return buf.Bytes()
}

func makeTarGz(t *testing.T, files ...file) []byte {
	t.Helper()

	var buf bytes.Buffer

	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	for _, f := range files {
		hdr := &tar.Header{Name: f.name, Mode: 0o644, Size: int64(len(f.body))}
		if f.dir {
			hdr = &tar.Header{Name: f.name + "/", Mode: 0o755, Typeflag: tar.TypeDir}
		}

		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("tar header %s: %v", f.name, err)
		}

		if !f.dir {
			if _, err := io.WriteString(tw, f.body); err != nil {
				t.Fatalf("tar write %s: %v", f.name, err)
			}
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}

	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}

	return buf.Bytes()
}

func collect(t *testing.T, dec *Decoder) (map[string]string, error) {
	t.Helper()

	got := map[string]string{}

	for e, err := range dec.Entries() {
		if err != nil {
			return got, err
		}

		b, err := io.ReadAll(e.Body)
		if err != nil {
			t.Fatalf("read %s: %v", e.Path, err)
		}

		if int64(len(b)) != e.Size {
			t.Errorf("%s: size %d, read %d bytes", e.Path, e.Size, len(b))
		}

		got[e.Path] = string(b)
	}

	return got, nil
}

func TestDecoder_Entries_Formats(t *testing.T) {
	t.Parallel()

	files := []file{
		{name: "pages", dir: true},
		{name: "pages/common/tar.md", body: "# tar\n"},
		{name: "pages.fr/linux/ls.md", body: "# ls\n"},
		{name: "./pages/osx/../osx/open.md", body: "# open\n"},
	}

	want := map[string]string{
		"pages/common/tar.md":  "# tar\n",
		"pages.fr/linux/ls.md": "# ls\n",
		"pages/osx/open.md":    "# open\n",
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"zip", makeZip(t, files...)},
		{"tar.gz", makeTarGz(t, files...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := collect(t, NewDecoder(
				bytes.NewReader(tt.data),
				WithScratchDir(t.TempDir()),
			))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(got) != len(want) {
				t.Fatalf("got %d entries, want %d: %v", len(got), len(want), got)
			}

			for k, v := range want {
				if got[k] != v {
					t.Errorf("%s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestDecoder_Entries_UnknownFormat(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("x"), []byte("plain text, not an archive")} {
		_, err := collect(t, NewDecoder(bytes.NewReader(data)))
		if !errors.Is(err, ErrFormat) {
			t.Errorf("%q: expected ErrFormat, got %v", data, err)
		}
	}
}

func TestDecoder_Entries_CorruptGzip(t *testing.T) {
	t.Parallel()

	_, err := collect(t, NewDecoder(bytes.NewReader([]byte("\x1f\x8bgarbage"))))
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestDecoder_Entries_UnsafePath(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"zip":    makeZip(t, file{name: "../escape.md", body: "x"}),
		"tar.gz": makeTarGz(t, file{name: "/etc/passwd", body: "x"}),
	} {
		_, err := collect(t, NewDecoder(bytes.NewReader(data), WithScratchDir(t.TempDir())))
		if !errors.Is(err, ErrUnsafePath) {
			t.Errorf("%s: expected ErrUnsafePath, got %v", name, err)
		}
	}
}

func TestDecoder_Entries_EarlyStopReleasesSpool(t *testing.T) {
	t.Parallel()

	scratch := t.TempDir()
	data := makeZip(t,
		file{name: "a.md", body: "a"},
		file{name: "b.md", body: "b"},
	)

	var seen []string

	for e, err := range NewDecoder(bytes.NewReader(data), WithScratchDir(scratch)).Entries() {
		if err != nil {
			t.Fatal(err)
		}

		seen = append(seen, e.Path)

		break
	}

	if !slices.Equal(seen, []string{"a.md"}) {
		t.Errorf("seen = %v", seen)
	}

	left, err := os.ReadDir(scratch)
	if err != nil {
		t.Fatal(err)
	}

	if len(left) != 0 {
		t.Errorf("scratch dir not cleaned: %v", left)
	}
}

func TestDecoder_WithDigest_CoversStream(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"zip":    makeZip(t, file{name: "a.md", body: "alpha"}),
		"tar.gz": makeTarGz(t, file{name: "a.md", body: "alpha"}),
	} {
		h := xxh3.New()

		if _, err := collect(t, NewDecoder(
			bytes.NewReader(data),
			WithScratchDir(t.TempDir()),
			WithDigest(h),
		)); err != nil {
			t.Fatalf("%s: %v", name, err)
		}

		if got, want := h.Sum64(), xxh3.Hash(data); got != want {
			t.Errorf("%s: digest %x, want %x", name, got, want)
		}
	}
}
