// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bookshelf/internal/httputil"
	"github.com/pdiddy/bookshelf/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

const sampleCatalogJSON = `{
  "count": 2, "page": 1, "first": 1, "last": 2, "hits": 2, "pageCount": 1,
  "Items": [
    {
      "title": "みんなのPython",
      "author": "柴田 淳",
      "publisherName": "SBクリエイティブ",
      "isbn": "9784797389463",
      "itemPrice": 2970,
      "salesDate": "2016年12月",
      "itemCaption": "480ページで学ぶPython",
      "smallImageUrl": "https://thumbnail.image.rakuten.co.jp/s.jpg",
      "largeImageUrl": "https://thumbnail.image.rakuten.co.jp/l.jpg",
      "size": "単行本"
    },
    {"title": "", "isbn": "9780000000000"},
    {
      "title": "Python入門",
      "author": "",
      "isbn": "",
      "salesDate": "2019年頃"
    }
  ]
}`

func testClient(baseURL string) *Client {
	return NewClient(types.CatalogConfig{
		HTTPConfig:        types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test/0.1"},
		BaseURL:           baseURL,
		ApplicationID:     "app-123",
		RequestsPerSecond: 1000,
		MaxRetries:        1,
	}, nil)
}

func TestClient_SearchByTitle(t *testing.T) {
	var got atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.URL.Query())
		assert.Equal(t, "test/0.1", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleCatalogJSON)
	}))
	defer ts.Close()

	entries, err := testClient(ts.URL).SearchByTitle(context.Background(), "  Python ", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2, "record without title must be skipped")

	assert.Equal(t, "9784797389463", entries[0].Identifier)
	assert.Equal(t, "柴田 淳", entries[0].Author)
	assert.Equal(t, 480, entries[0].PageCount)
	assert.Equal(t, "Python入門", entries[1].Title)
	assert.Empty(t, entries[1].Identifier)

	q := got.Load().(url.Values)
	assert.Equal(t, []string{"Python"}, q["title"])
	assert.Equal(t, []string{"2"}, q["page"])
	assert.Equal(t, []string{"30"}, q["hits"])
	assert.Equal(t, []string{"standard"}, q["sort"])
	assert.Equal(t, []string{"app-123"}, q["applicationId"])
	assert.NotContains(t, q, "author")
}

func TestClient_FieldScoping(t *testing.T) {
	var lastQuery atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastQuery.Store(r.URL.RawQuery)
		fmt.Fprint(w, `{"Items": []}`)
	}))
	defer ts.Close()
	c := testClient(ts.URL)

	_, err := c.SearchByAuthor(context.Background(), "柴田", 1)
	require.NoError(t, err)
	assert.Contains(t, lastQuery.Load().(string), "author=")
	assert.NotContains(t, lastQuery.Load().(string), "title=")

	_, err = c.SearchByIdentifier(context.Background(), "9784797389463")
	require.NoError(t, err)
	assert.Contains(t, lastQuery.Load().(string), "isbn=9784797389463")
	assert.Contains(t, lastQuery.Load().(string), "page=1")
}

func TestClient_EmptyInputSkipsNetwork(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()
	c := testClient(ts.URL)

	for _, text := range []string{"", "   ", "\t\n"} {
		entries, err := c.SearchByTitle(context.Background(), text, 1)
		assert.NoError(t, err)
		assert.Empty(t, entries)
		entries, err = c.SearchByAuthor(context.Background(), text, 1)
		assert.NoError(t, err)
		assert.Empty(t, entries)
		entries, err = c.SearchByIdentifier(context.Background(), text)
		assert.NoError(t, err)
		assert.Empty(t, entries)
	}
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestClient_HTTPStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"wrong_parameter","error_description":"specify valid applicationId"}`)
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).SearchByTitle(context.Background(), "Python", 1)
	require.Error(t, err)

	var herr *HTTPStatusError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, http.StatusBadRequest, herr.StatusCode)
	assert.Equal(t, "specify valid applicationId", herr.Detail)
	assert.True(t, Retryable(err))
}

func TestClient_ThrottledExhaustionIsStatusError(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).SearchByTitle(context.Background(), "Python", 1)
	var herr *HTTPStatusError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, http.StatusTooManyRequests, herr.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_DecodeError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>maintenance</html>"},
		{"missing items", `{"count": 0}`},
		{"wrong items type", `{"Items": "none"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			_, err := testClient(ts.URL).SearchByTitle(context.Background(), "Python", 1)
			var derr *DecodeError
			require.True(t, errors.As(err, &derr), "got %v", err)
			var herr *HTTPStatusError
			assert.False(t, errors.As(err, &herr))
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := ts.URL
	ts.Close()

	_, err := testClient(addr).SearchByTitle(context.Background(), "Python", 1)
	var terr *TransportError
	require.True(t, errors.As(err, &terr), "got %v", err)
	assert.True(t, Retryable(err))
}

func TestClient_CancelledContextIsTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"Items": []}`)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(ts.URL).SearchByTitle(ctx, "Python", 1)
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_ZeroMaxRetriesSendsOneRequest(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := NewClient(types.CatalogConfig{BaseURL: ts.URL, RequestsPerSecond: 1000}, nil)
	_, err := c.SearchByTitle(context.Background(), "Python", 1)
	var herr *HTTPStatusError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, http.StatusServiceUnavailable, herr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_BothLanesOfAPageLeaveTogether(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, sampleCatalogJSON)
	}))
	defer ts.Close()

	c := NewClient(types.CatalogConfig{BaseURL: ts.URL, RequestsPerSecond: 1}, nil)
	assert.Equal(t, laneBurst, c.limiter.Burst())

	start := time.Now()
	errs := make(chan error, 2)
	go func() {
		_, err := c.SearchByTitle(context.Background(), "Python", 1)
		errs <- err
	}()
	go func() {
		_, err := c.SearchByAuthor(context.Background(), "Python", 1)
		errs <- err
	}()
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(nil))
	assert.False(t, Retryable(errors.New("other")))
	assert.True(t, Retryable(fmt.Errorf("lane: %w", &DecodeError{Err: errors.New("x")})))
	assert.True(t, strings.Contains((&HTTPStatusError{StatusCode: 500}).Error(), "500"))
}
