package templates

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Source serves template HTML through the cache, fetching from the template
// store on a miss. A given URL is fetched over the network at most once per
// cache lifetime.
type Source struct {
	cache   Cache
	fetcher Fetcher
	logger  *zap.Logger
}

func NewSource(cache Cache, fetcher Fetcher, logger *zap.Logger) *Source {
	return &Source{cache: cache, fetcher: fetcher, logger: logger}
}

// Template returns the HTML for a template URL, consulting the cache first.
func (s *Source) Template(ctx context.Context, templateURL string) (string, error) {
	html, ok, err := s.cache.Get(ctx, templateURL)
	if err != nil {
		// A broken cache backend degrades to a plain fetch.
		s.logger.Warn("Template cache lookup failed, fetching directly",
			zap.String("url", templateURL), zap.Error(err))
	}
	if ok {
		return html, nil
	}

	html, err = s.fetcher.Fetch(ctx, templateURL)
	if err != nil {
		return "", err
	}

	if err := s.cache.Put(ctx, templateURL, html); err != nil {
		s.logger.Warn("Failed to cache template",
			zap.String("url", templateURL), zap.Error(err))
	}
	return html, nil
}

// Invalidate empties the cache. The next request for any URL fetches again.
func (s *Source) Invalidate(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear template cache: %w", err)
	}
	s.logger.Info("Template cache cleared")
	return nil
}
