package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/ardnew/tldr/log"
	"github.com/ardnew/tldr/pkg"
)

// ErrStatus is wrapped by [Get] when the server answers with neither a
// success nor 304 Not Modified.
var ErrStatus = pkg.NewError("unexpected HTTP status")

// Result is the outcome of a successful request.
type Result struct {
	// Body streams the archive. It is nil when the archive is unchanged.
	Body io.ReadCloser

	Status int
	ETag   string
	Size   int64 // -1 if unknown
}

// NotModified reports whether the server confirmed the cached validator.
func (r *Result) NotModified() bool { return r.Status == http.StatusNotModified }

// Close releases the body, if any.
func (r *Result) Close() error {
	if r.Body == nil {
		return nil
	}

	return r.Body.Close()
}

// Get requests url once. Transport failures and unexpected status codes are
// returned as [pkg.ErrUpdate]; nothing is retried.
func Get(ctx context.Context, url string, opts ...Option) (*Result, error) {
	cfg := apply(config{client: http.DefaultClient, userAgent: pkg.Name + "/" + pkg.Version()}, opts...)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkg.ErrUpdate.Wrap(err).With(slog.String("url", url))
	}

	req.Header.Set("User-Agent", cfg.userAgent)

	if cfg.validator != "" {
		req.Header.Set("If-None-Match", cfg.validator)
	}

	log.DebugContext(ctx, "fetching archive",
		slog.String("url", url),
		slog.String("validator", cfg.validator),
	)

	resp, err := cfg.client.Do(req)
	if err != nil {
		return nil, pkg.ErrUpdate.Wrap(err).With(slog.String("url", url))
	}

	res := &Result{
		Status: resp.StatusCode,
		ETag:   resp.Header.Get("ETag"),
		Size:   resp.ContentLength,
	}

	log.DebugContext(ctx, "archive response",
		slog.String("url", url),
		slog.Int("status", res.Status),
		slog.String("etag", res.ETag),
		slog.Int64("size", res.Size),
	)

	switch {
	case res.NotModified():
		_ = resp.Body.Close()

		if res.ETag == "" {
			res.ETag = cfg.validator
		}

		return res, nil

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_ = resp.Body.Close()

		return nil, pkg.ErrUpdate.
			Wrap(ErrStatus.With(slog.Int("status", resp.StatusCode))).
			With(slog.String("url", url), slog.String("status", resp.Status))
	}

	res.Body = resp.Body
	if cfg.progress != nil {
		res.Body = withProgress(resp.Body, res.Size, cfg.progress)
	}

	return res, nil
}

type progressBody struct {
	io.Reader
	io.Closer
}

func withProgress(body io.ReadCloser, size int64, w io.Writer) io.ReadCloser {
	bar := progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("downloading pages"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)

	return progressBody{
		Reader: io.TeeReader(body, bar),
		Closer: closerFunc(func() error {
			_ = bar.Finish()

			return body.Close()
		}),
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
