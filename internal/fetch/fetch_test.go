package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_SendsHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte("tile"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(WithUserAgent("test-agent/1"), WithHeader("X-Api-Key", "k"))
	data, err := f.Fetch(context.Background(), Request{URL: srv.URL + "/1/2/3.png", Referer: "https://map.example/"})
	require.NoError(t, err)

	assert.Equal(t, []byte("tile"), data)
	assert.Equal(t, "test-agent/1", got.Get("User-Agent"))
	assert.Equal(t, "k", got.Get("X-Api-Key"))
	assert.Equal(t, "https://map.example/", got.Get("Referer"))
}

func TestHTTPFetcher_RefererOverride(t *testing.T) {
	var ref string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ref = r.Referer()
	}))
	defer srv.Close()

	f := NewHTTPFetcher(WithHeader("Referer", "https://override.example/"))
	_, err := f.Fetch(context.Background(), Request{URL: srv.URL, Referer: "https://map.example/"})
	require.NoError(t, err)
	assert.Equal(t, "https://override.example/", ref)
}

func TestHTTPFetcher_DefaultUserAgent(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.UserAgent()
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(WithUserAgent("")).Fetch(context.Background(), Request{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, ua)
}

func TestHTTPFetcher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher().Fetch(context.Background(), Request{URL: srv.URL + "/missing"})
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusNotFound, serr.StatusCode)
	assert.Equal(t, srv.URL+"/missing", serr.URL)
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewHTTPFetcher().Fetch(ctx, Request{URL: srv.URL})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

type countingFetcher struct {
	calls atomic.Int32
	err   error
}

func (c *countingFetcher) Fetch(_ context.Context, r Request) ([]byte, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return []byte(r.URL), nil
}

func TestCachedFetcher_Hits(t *testing.T) {
	next := &countingFetcher{}
	c := NewCachedFetcher(next, time.Minute, 10)

	for i := 0; i < 3; i++ {
		data, err := c.Fetch(context.Background(), Request{URL: "a"})
		require.NoError(t, err)
		assert.Equal(t, []byte("a"), data)
	}
	_, err := c.Fetch(context.Background(), Request{URL: "b"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), next.calls.Load())
	assert.Equal(t, 2, c.Len())
}

func TestCachedFetcher_DoesNotCacheErrors(t *testing.T) {
	next := &countingFetcher{err: errors.New("boom")}
	c := NewCachedFetcher(next, time.Minute, 10)

	for i := 0; i < 2; i++ {
		_, err := c.Fetch(context.Background(), Request{URL: "a"})
		require.Error(t, err)
	}
	assert.Equal(t, int32(2), next.calls.Load())
	assert.Zero(t, c.Len())
}

func TestCachedFetcher_Capacity(t *testing.T) {
	c := NewCachedFetcher(&countingFetcher{}, time.Minute, 2)
	for _, u := range []string{"a", "b", "c"} {
		_, err := c.Fetch(context.Background(), Request{URL: u})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Len())
}

func TestCachedFetcher_Expiry(t *testing.T) {
	next := &countingFetcher{}
	c := NewCachedFetcher(next, 20*time.Millisecond, 10)

	_, err := c.Fetch(context.Background(), Request{URL: "a"})
	require.NoError(t, err)
	time.Sleep(40 * time.Millisecond)
	_, err = c.Fetch(context.Background(), Request{URL: "a"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), next.calls.Load())
}
