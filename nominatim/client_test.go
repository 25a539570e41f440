package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Options{
		BaseURL:   server.URL,
		UserAgent: "LocationFinder/test",
		Log:       zerolog.Nop(),
	})
}

func TestSearch(t *testing.T) {
	assert := assert.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("/search", r.URL.Path)
		assert.Equal("Eiffel", r.URL.Query().Get("q"))
		assert.Equal("json", r.URL.Query().Get("format"))
		assert.Equal("5", r.URL.Query().Get("limit"))
		assert.Equal("1", r.URL.Query().Get("addressdetails"))
		assert.Equal("LocationFinder/test", r.Header.Get("User-Agent"))
		assert.Equal(DefaultLanguage, r.Header.Get("Accept-Language"))

		w.Write([]byte(`[{
			"place_id": 12345,
			"licence": "Data © OpenStreetMap contributors",
			"osm_type": "way",
			"osm_id": 5013364,
			"lat": "48.8584",
			"lon": "2.2945",
			"display_name": "Tour Eiffel, Paris, France",
			"address": {"tourism": "Tour Eiffel", "city": "Paris", "country": "France"},
			"boundingbox": ["48.8574", "48.8594", "2.2933", "2.2956"]
		}]`))
	})

	got := c.Search(context.Background(), "Eiffel")

	require.Len(t, got, 1)
	assert.Equal(int64(12345), got[0].PlaceID)
	assert.Equal("48.8584", got[0].Lat)
	assert.Equal("2.2945", got[0].Lon)
	assert.Equal(TypeTourism, got[0].Type)
	assert.Equal(0.012345, got[0].Importance)
}

func TestSearchFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"rate limited", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>maintenance</html>"))
		}},
		{"error object", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": "bad request"}`))
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := newTestClient(t, test.handler)

			got := c.Search(context.Background(), "Eiffel")

			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestSearchTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := NewClient(Options{BaseURL: url, Log: zerolog.Nop()})

	assert.Empty(t, c.Search(context.Background(), "Eiffel"))
	assert.Nil(t, c.Reverse(context.Background(), 1, 2))
}

func TestReverse(t *testing.T) {
	assert := assert.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("/reverse", r.URL.Path)
		assert.Equal("51.5", r.URL.Query().Get("lat"))
		assert.Equal("-0.1", r.URL.Query().Get("lon"))
		assert.Equal("json", r.URL.Query().Get("format"))
		assert.Equal("1", r.URL.Query().Get("addressdetails"))

		w.Write([]byte(`{"place_id": 987, "lat": "51.5", "lon": "-0.1", "display_name": "Somewhere in the Thames"}`))
	})

	got := c.Reverse(context.Background(), 51.5, -0.1)

	require.NotNil(t, got)
	assert.Equal(int64(987), got.PlaceID)
	assert.Equal(TypeUnknown, got.Type)
	assert.Nil(got.Address)
}

func TestReverseFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"unable to geocode", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": "Unable to geocode"}`))
		}},
		{"bad gateway", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"truncated body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"place_id": 1, "lat": `))
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := newTestClient(t, test.handler)

			assert.Nil(t, c.Reverse(context.Background(), 51.5, -0.1))
		})
	}
}

func TestRateLimitHonoursContext(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := NewClient(Options{BaseURL: server.URL, RateLimit: 0.001, Log: zerolog.Nop()})

	// the first request uses the burst
	assert.Empty(t, c.Search(context.Background(), "first"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Empty(t, c.Search(ctx, "second"))

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
