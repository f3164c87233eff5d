package pkg

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "tldr"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to determine test file location")
	}

	buf, err := os.ReadFile(filepath.Join(filepath.Dir(file), "VERSION"))
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version() != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version())
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Error("Expected Author to have at least one entry")
	}

	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain %q", "ardnew")
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("cache_dir"); got != "TLDR_CACHE_DIR" {
		t.Errorf("EnvVar(cache_dir) = %q, want %q", got, "TLDR_CACHE_DIR")
	}
}

func TestUserDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TLDR_TEST_DIR", dir)

	got := userDir("TLDR_TEST_DIR", os.UserCacheDir, ".cache")
	if got.Path != filepath.Clean(dir) {
		t.Errorf("expected %q, got %q", dir, got.Path)
	}
	if got.Source != SourceEnv {
		t.Errorf("expected source %v, got %v", SourceEnv, got.Source)
	}
}

func TestUserDir_OSConvention(t *testing.T) {
	t.Setenv("TLDR_TEST_DIR", "")

	got := userDir("TLDR_TEST_DIR", func() (string, error) { return "/base", nil }, ".cache")
	if got.Path != filepath.Join("/base", Prefix()) {
		t.Errorf("unexpected path %q", got.Path)
	}
	if got.Source.String() != "OS convention" {
		t.Errorf("unexpected source %q", got.Source)
	}
}
