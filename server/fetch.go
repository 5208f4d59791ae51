package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/witchbooru/witchbooru/tagger"
)

var (
	errTooLarge    = errors.New("image is too large")
	errMissingFile = errors.New("missing file or url")
	errBadURL      = errors.New("invalid image url")
)

// fetchError marks a failure to download a remote image.
type fetchError struct {
	err error
}

func (e *fetchError) Error() string { return "fetch image: " + e.err.Error() }

func (e *fetchError) Unwrap() error { return e.err }

// Fetcher downloads remote images with a timeout and a size cap.
type Fetcher struct {
	client  *http.Client
	maxSize int64
}

func NewFetcher(timeout time.Duration, maxSize int64) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		maxSize: maxSize,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (image.Image, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errBadURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &fetchError{err: err}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &fetchError{err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &fetchError{err: fmt.Errorf("GET %s: %s", u.Redacted(), resp.Status)}
	}
	// images must be strictly smaller than maxSize
	if resp.ContentLength >= f.maxSize {
		return nil, errTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize))
	if err != nil {
		return nil, &fetchError{err: err}
	}
	if int64(len(data)) >= f.maxSize {
		return nil, errTooLarge
	}
	return tagger.DecodeImage(bytes.NewReader(data))
}
