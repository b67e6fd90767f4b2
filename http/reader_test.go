package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sensa-code/climb"
	climbhttp "github.com/sensa-code/climb/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfigStore(readerBase string) *climb.ConfigStore {
	cfg := climb.DefaultConfig()
	if readerBase != "" {
		cfg.ReaderBaseURL = readerBase
	}
	return climb.NewConfigStore(cfg)
}

func TestReaderFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns article with Title prefix title", func(t *testing.T) {
		t.Parallel()

		body := "Title: Caring for Senior Cats\n\n" + strings.Repeat("Long article content. ", 20)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "text/markdown", r.Header.Get("Accept"))
			assert.Empty(t, r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(body))
		}))
		defer srv.Close()

		f := climbhttp.NewReaderFetcher(srv.Client(), testConfigStore(srv.URL+"/"))

		article, err := f.Fetch(context.Background(), "https://example.com/post")

		require.NoError(t, err)
		assert.Equal(t, "Caring for Senior Cats", article.Title)
		assert.Equal(t, climb.StrategyReader, article.Strategy)
		assert.Equal(t, "https://example.com/post", article.URL)
	})

	t.Run("falls back to markdown heading title", func(t *testing.T) {
		t.Parallel()

		body := "# Heading Title\n\n" + strings.Repeat("content ", 30)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		defer srv.Close()

		f := climbhttp.NewReaderFetcher(srv.Client(), testConfigStore(srv.URL+"/"))

		article, err := f.Fetch(context.Background(), "https://example.com/post")

		require.NoError(t, err)
		assert.Equal(t, "Heading Title", article.Title)
	})

	t.Run("placeholder title when none found", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("no title here ", 20)))
		}))
		defer srv.Close()

		f := climbhttp.NewReaderFetcher(srv.Client(), testConfigStore(srv.URL+"/"))

		article, err := f.Fetch(context.Background(), "https://example.com/post")

		require.NoError(t, err)
		assert.Equal(t, "Untitled Article", article.Title)
	})

	t.Run("rejects content under threshold", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("too short"))
		}))
		defer srv.Close()

		f := climbhttp.NewReaderFetcher(srv.Client(), testConfigStore(srv.URL+"/"))

		article, err := f.Fetch(context.Background(), "https://example.com/post")

		require.Error(t, err)
		assert.Nil(t, article)
		assert.Equal(t, climb.ENOTFOUND, climb.ErrorCode(err))
	})

	t.Run("rejects non-200 response", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		f := climbhttp.NewReaderFetcher(srv.Client(), testConfigStore(srv.URL+"/"))

		_, err := f.Fetch(context.Background(), "https://example.com/post")

		assert.Error(t, err)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		f := climbhttp.NewReaderFetcher(srv.Client(), testConfigStore(srv.URL+"/"))
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := f.Fetch(ctx, "https://example.com/post")

		require.Error(t, err)
	})

	t.Run("sends bearer token when API key configured", func(t *testing.T) {
		t.Parallel()

		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(strings.Repeat("content ", 30)))
		}))
		defer srv.Close()

		cfg := climb.DefaultConfig()
		cfg.ReaderBaseURL = srv.URL + "/"
		cfg.ReaderAPIKey = "secret-key"
		f := climbhttp.NewReaderFetcher(srv.Client(), climb.NewConfigStore(cfg))

		_, err := f.Fetch(context.Background(), "https://example.com/post")

		require.NoError(t, err)
		assert.Equal(t, "Bearer secret-key", gotAuth)
	})
}

func TestReaderFetcher_Name(t *testing.T) {
	t.Parallel()

	f := climbhttp.NewReaderFetcher(nil, testConfigStore(""))
	assert.Equal(t, climb.StrategyReader, f.Name())
}
