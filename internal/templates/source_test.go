package templates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSource_FetchesOncePerURL(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte("<html>certificate</html>"))
	}))
	defer server.Close()

	source := NewSource(NewMemoryCache(0), NewHTTPFetcher(5*time.Second), zap.NewNop())
	ctx := context.Background()

	first, err := source.Template(ctx, server.URL)
	assert.NoError(t, err)
	second, err := source.Template(ctx, server.URL)
	assert.NoError(t, err)

	assert.Equal(t, "<html>certificate</html>", first)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
}

func TestSource_InvalidateForcesRefetch(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte("<html>v</html>"))
	}))
	defer server.Close()

	source := NewSource(NewMemoryCache(0), NewHTTPFetcher(5*time.Second), zap.NewNop())
	ctx := context.Background()

	_, err := source.Template(ctx, server.URL)
	assert.NoError(t, err)
	assert.NoError(t, source.Invalidate(ctx))
	_, err = source.Template(ctx, server.URL)
	assert.NoError(t, err)

	assert.Equal(t, int64(2), atomic.LoadInt64(&hits))
}

func TestHTTPFetcher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(5 * time.Second)
	_, err := fetcher.Fetch(context.Background(), server.URL)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestHTTPFetcher_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("   \n"))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(5 * time.Second)
	_, err := fetcher.Fetch(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrEmptyTemplate)
}

// failingCache errors on every operation.
type failingCache struct{}

func (failingCache) Get(ctx context.Context, url string) (string, bool, error) {
	return "", false, errors.New("backend down")
}
func (failingCache) Put(ctx context.Context, url, html string) error {
	return errors.New("backend down")
}
func (failingCache) Clear(ctx context.Context) error {
	return errors.New("backend down")
}

func TestSource_DegradesToFetchWhenCacheFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>still works</html>"))
	}))
	defer server.Close()

	source := NewSource(failingCache{}, NewHTTPFetcher(5*time.Second), zap.NewNop())

	html, err := source.Template(context.Background(), server.URL)
	assert.NoError(t, err)
	assert.Equal(t, "<html>still works</html>", html)
}

func TestSource_FetchErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewSource(NewMemoryCache(0), NewHTTPFetcher(5*time.Second), zap.NewNop())
	_, err := source.Template(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestSanitizeTemplateName(t *testing.T) {
	assert.Equal(t, "participation-v2", sanitizeTemplateName("participation v2.html"))
	assert.Equal(t, "Merit_Certificate", sanitizeTemplateName("Merit_Certificate"))
	assert.Equal(t, "template", sanitizeTemplateName("???"))
}
