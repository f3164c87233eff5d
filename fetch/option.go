package fetch

import (
	"io"
	"net/http"
)

// Option is a functional option for [Get].
type Option func(config) config

type config struct {
	client    *http.Client
	validator string
	progress  io.Writer
	userAgent string
}

func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			cfg = opt(cfg)
		}
	}

	return cfg
}

// WithClient sets the HTTP client. The default is [http.DefaultClient].
func WithClient(client *http.Client) Option {
	return func(c config) config {
		if client != nil {
			c.client = client
		}

		return c
	}
}

// WithValidator sets the entity tag of the archive already cached.
func WithValidator(etag string) Option {
	return func(c config) config {
		c.validator = etag

		return c
	}
}

// WithProgress draws a progress bar on w while the body is read.
// A nil writer disables it.
func WithProgress(w io.Writer) Option {
	return func(c config) config {
		c.progress = w

		return c
	}
}

// WithUserAgent sets the User-Agent request header.
func WithUserAgent(ua string) Option {
	return func(c config) config {
		c.userAgent = ua

		return c
	}
}
