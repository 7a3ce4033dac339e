package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "image/png; charset=binary")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	p, err := New(0).Fetch(context.Background(), srv.URL+"/cover")
	require.NoError(t, err)
	assert.Equal(t, "png", p.Format)
	assert.Equal(t, []byte("png-bytes"), p.Data)
}

func TestFetchFormatFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	p, err := New(0).Fetch(context.Background(), srv.URL+"/covers/1-L.JPG?zoom=1")
	require.NoError(t, err)
	assert.Equal(t, "jpeg", p.Format)
}

func TestFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(strings.Repeat("a", 64)))
	}))
	defer srv.Close()

	c := New(0)
	_, err := c.Fetch(context.Background(), srv.URL+"/missing")
	assert.ErrorContains(t, err, "HTTP 404")

	c.MaxBytes = 16
	_, err = c.Fetch(context.Background(), srv.URL+"/big")
	assert.ErrorIs(t, err, ErrTooLarge)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Fetch(ctx, srv.URL+"/big")
	assert.ErrorIs(t, err, context.Canceled)
}
