package templates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"campus-connect/event-portal/event-portal-backend/pkg/storage"
)

var (
	// ErrEmptyTemplate means the store returned a 2xx response with no body.
	ErrEmptyTemplate = errors.New("template body is empty")
)

// Fetcher retrieves raw template HTML from the template store by URL.
type Fetcher interface {
	Fetch(ctx context.Context, templateURL string) (string, error)
}

type httpFetcher struct {
	client  *http.Client
	timeout time.Duration
}

// NewHTTPFetcher fetches templates over plain GET. A non-2xx response or an
// empty body is a fetch failure; the caller decides whether to retry.
func NewHTTPFetcher(timeout time.Duration) Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &httpFetcher{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

func (f *httpFetcher) Fetch(ctx context.Context, templateURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, templateURL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid template URL %q: %w", templateURL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch template: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("failed to fetch template: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read template body: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", ErrEmptyTemplate
	}
	return string(body), nil
}

// AdminStore is the template-storage collaborator's write surface: upload a
// template and get back its public URL, or delete one by URL. The admin UI
// that drives it lives elsewhere.
type AdminStore struct {
	s3        storage.S3Client
	bucket    string
	publicURL string
}

func NewAdminStore(s3 storage.S3Client, bucket, publicURL string) *AdminStore {
	return &AdminStore{s3: s3, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

func (s *AdminStore) Upload(ctx context.Context, name, html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", ErrEmptyTemplate
	}
	key := "templates/" + sanitizeTemplateName(name) + ".html"
	if err := s.s3.Upload(ctx, s.bucket, key, strings.NewReader(html)); err != nil {
		return "", fmt.Errorf("failed to upload template: %w", err)
	}
	return s.publicURL + "/" + key, nil
}

func (s *AdminStore) Delete(ctx context.Context, templateURL string) error {
	key, err := s.keyFromURL(templateURL)
	if err != nil {
		return err
	}
	if err := s.s3.Delete(ctx, s.bucket, key); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

func (s *AdminStore) keyFromURL(templateURL string) (string, error) {
	u, err := url.Parse(templateURL)
	if err != nil {
		return "", fmt.Errorf("invalid template URL %q: %w", templateURL, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" || !strings.HasPrefix(key, "templates/") {
		return "", fmt.Errorf("URL %q does not point into the template store", templateURL)
	}
	return key, nil
}

func sanitizeTemplateName(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), path.Ext(name))
	name = strings.ReplaceAll(name, " ", "-")
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "template"
	}
	return b.String()
}
