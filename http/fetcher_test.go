package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/docsum"
	docsumhttp "github.com/fwojciec/docsum/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guideHTML = "<html><body><article><h1>Guide</h1><p>Hello</p></article></body></html>"

// docsServer serves a tiny docs site with a few misbehaving routes.
func docsServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/docs/guide", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(guideHTML))
	})
	mux.HandleFunc("/docs/manual.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7"))
	})
	mux.HandleFunc("/docs/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(200 * time.Millisecond):
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(guideHTML))
	})
	mux.HandleFunc("/docs/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	srv := docsServer(t)

	t.Run("returns page HTML", func(t *testing.T) {
		t.Parallel()

		f := docsumhttp.NewFetcher()
		t.Cleanup(func() { f.Close() })

		html, err := f.Fetch(context.Background(), srv.URL+"/docs/guide")

		require.NoError(t, err)
		assert.Equal(t, guideHTML, html)
	})

	t.Run("sends crawler user agent", func(t *testing.T) {
		t.Parallel()

		agents := make(chan string, 1)
		agentSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			agents <- r.UserAgent()
			_, _ = w.Write([]byte(guideHTML))
		}))
		t.Cleanup(agentSrv.Close)

		_, err := docsumhttp.NewFetcher().Fetch(context.Background(), agentSrv.URL)
		require.NoError(t, err)
		assert.Equal(t, docsumhttp.UserAgent, <-agents)
	})

	t.Run("status and content type map to error codes", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			path string
			code string
		}{
			{"/docs/missing", docsum.ENOTFOUND},
			{"/docs/broken", docsum.EUNAVAILABLE},
			{"/docs/manual.pdf", docsum.EINVALID},
		}
		f := docsumhttp.NewFetcher()
		for _, tt := range tests {
			_, err := f.Fetch(context.Background(), srv.URL+tt.path)
			require.Error(t, err, tt.path)
			assert.Equal(t, tt.code, docsum.ErrorCode(err), tt.path)
		}
	})

	t.Run("timeout option bounds the request", func(t *testing.T) {
		t.Parallel()

		f := docsumhttp.NewFetcher(docsumhttp.WithTimeout(20 * time.Millisecond))

		_, err := f.Fetch(context.Background(), srv.URL+"/docs/slow")
		require.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := docsumhttp.NewFetcher().Fetch(ctx, srv.URL+"/docs/slow")
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("unresolvable host", func(t *testing.T) {
		t.Parallel()

		f := docsumhttp.NewFetcher(docsumhttp.WithTimeout(100 * time.Millisecond))

		_, err := f.Fetch(context.Background(), "http://docs.invalid/docs/")
		require.Error(t, err)
	})

	t.Run("usable after close", func(t *testing.T) {
		t.Parallel()

		f := docsumhttp.NewFetcher()
		require.NoError(t, f.Close())

		_, err := f.Fetch(context.Background(), srv.URL+"/docs/guide")
		assert.NoError(t, err)
	})
}
