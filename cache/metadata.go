package cache

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tldr/pkg"
)

// Metadata is the record stored in the sentinel file of a Cache Root.
type Metadata struct {
	// Digest is the hex xxh3 digest of the archive the pages came from.
	Digest string `yaml:"digest"`
	// Validator is the HTTP entity tag returned with the archive.
	Validator string `yaml:"validator,omitempty"`
	// Languages lists the languages retained during extraction, sorted.
	Languages []string `yaml:"languages,flow"`
	// Pages is the number of page files extracted.
	Pages int `yaml:"pages"`

	// Unchanged reports that the last Replace found an identical archive
	// and only refreshed the freshness marker.
	Unchanged bool `yaml:"-"`
}

func readMetadata(root string) (*Metadata, error) {
	name := filepath.Join(root, SentinelName)

	b, err := os.ReadFile(name)
	if err != nil {
		return nil, pkg.ErrIO.Wrap(err).With(slog.String("path", name))
	}

	var m Metadata
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, pkg.ErrIO.Wrap(err).With(slog.String("path", name))
	}

	return &m, nil
}

// writeMetadata replaces the sentinel in root. The file is written under a
// temporary name and renamed, so its modification time is the time of the
// call and readers never observe a partial record.
func writeMetadata(root string, m *Metadata) error {
	b, err := yaml.Marshal(m)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(root, "."+SentinelName+"-*")
	if err != nil {
		return err
	}

	_, err = f.Write(b)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err == nil {
		err = os.Rename(f.Name(), filepath.Join(root, SentinelName))
	}

	if err != nil {
		_ = os.Remove(f.Name())
	}

	return err
}

func isNotExist(err error) bool { return errors.Is(err, fs.ErrNotExist) }
