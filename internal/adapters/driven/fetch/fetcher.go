// Package fetch downloads ingestion sources over HTTP(S).
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/core/ports/driven"
	"github.com/evid-cli/evid/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// DefaultTimeout bounds a whole request including the body.
const DefaultTimeout = 10 * time.Second

// maxBodySize caps downloads at 256 MiB.
const maxBodySize = 256 << 20

// Fetcher performs single, unretried GET requests.
type Fetcher struct {
	client *http.Client
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient replaces the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// New creates a Fetcher with a 10 second timeout.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{client: &http.Client{Timeout: DefaultTimeout}}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads rawURL. Non-2xx responses are errors.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*domain.RawDocument, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("url %q: %w", rawURL, domain.ErrInvalidInput)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", "evid")

	logger.Debug("GET %s", rawURL)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", rawURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}

	mediaType := resp.Header.Get("Content-Type")
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	}

	return &domain.RawDocument{
		Name:     NameFromURL(u),
		URI:      rawURL,
		MIMEType: mediaType,
		Content:  body,
	}, nil
}

// NameFromURL returns the last path segment of u, or "document".
func NameFromURL(u *url.URL) string {
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return "document"
	}
	return base
}
