// Package service fetches and decodes the upstream author document.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/goccy/go-json"

	"author-frontend/internal/client"
	"author-frontend/internal/config"
	"author-frontend/internal/model"
)

var (
	// ErrUpstream is returned when the upstream author resource could not be reached.
	ErrUpstream = errors.New("upstream unavailable")
	// ErrDecode is returned when the upstream body is not a single JSON value.
	ErrDecode = errors.New("upstream body is not valid JSON")
)

// Fetcher issues one GET against the upstream.
type Fetcher interface {
	Get(ctx context.Context, url string) (*model.UpstreamResponse, error)
}

var _ Fetcher = (*client.UpstreamClient)(nil)

// AuthorService loads the configured author document from upstream.
type AuthorService struct {
	client Fetcher
	url    string
	logger *slog.Logger
}

// NewAuthorService creates an AuthorService for the author configured in cfg.
func NewAuthorService(c *client.UpstreamClient, cfg *config.Config, logger *slog.Logger) *AuthorService {
	return newAuthorService(c, cfg, logger)
}

func newAuthorService(f Fetcher, cfg *config.Config, logger *slog.Logger) *AuthorService {
	return &AuthorService{
		client: f,
		url:    cfg.Upstream.AuthorURL(),
		logger: logger.With("component", "author_service"),
	}
}

// URL returns the upstream URL the service fetches.
func (s *AuthorService) URL() string {
	return s.url
}

// Fetch performs exactly one upstream call and returns the decoded payload
// as a generic value: map[string]any, []any or a scalar. Numbers are kept
// as json.Number so they reach the template as the upstream wrote them.
//
// The response status is not inspected beyond logging; any body that
// decodes as JSON is returned.
func (s *AuthorService) Fetch(ctx context.Context) (any, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Warn("upstream returned non-success status",
			"status", resp.StatusCode,
			"url", s.url,
		)
	}

	payload, err := decode(resp.Body)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("author fetched", "url", s.url, "status", resp.StatusCode)
	return payload, nil
}

func decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty body", ErrDecode)
		}
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrDecode)
	}

	return payload, nil
}
