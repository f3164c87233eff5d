package archive

import "hash"

// Option applies a configuration option to a Decoder.
type Option func(config) config

type config struct {
	scratchDir string
	digest     hash.Hash64
}

func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// WithScratchDir sets the directory holding the temporary copy of a ZIP
// stream. The default is [os.TempDir].
func WithScratchDir(dir string) Option {
	return func(c config) config {
		c.scratchDir = dir

		return c
	}
}

// WithDigest tees every byte consumed from the raw archive stream into h.
func WithDigest(h hash.Hash64) Option {
	return func(c config) config {
		c.digest = h

		return c
	}
}
