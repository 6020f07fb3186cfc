package geocode

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"ctis-scraper/config"
)

func testFetcher(t *testing.T, handler http.HandlerFunc) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		GeocodingBaseURL:   srv.URL,
		GeocodingUserAgent: "test-agent/0.0.1",
	}
	return NewFetcher(cfg, zap.NewNop())
}

func TestLookupFound(t *testing.T) {
	f := testFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent/0.0.1" {
			t.Errorf("unexpected user agent %q", got)
		}
		q := r.URL.Query()
		if q.Get("street") != "Hauptstr. 1" || q.Get("format") != "json" || q.Get("limit") != "1" {
			t.Errorf("unexpected query: %v", q)
		}
		w.Write([]byte(`[{"lat":"52.5200","lon":"13.4050"}]`))
	})

	result, err := f.Lookup("Hauptstr. 1", "Berlin", "10115", "Germany")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if result == nil || result.Latitude != 52.52 || result.Longitude != 13.405 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestLookupNotFound(t *testing.T) {
	f := testFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	result, err := f.Lookup("Nowhere 1", "", "", "Atlantis")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if result != nil {
		t.Errorf("empty response should yield nil result, got %+v", result)
	}
}

func TestLookupBlocked(t *testing.T) {
	f := testFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := f.Lookup("Hauptstr. 1", "Berlin", "10115", "Germany")
	if !errors.Is(err, ErrBlocked) {
		t.Errorf("got %v, want ErrBlocked", err)
	}
}

func TestLookupServerError(t *testing.T) {
	f := testFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := f.Lookup("Hauptstr. 1", "Berlin", "10115", "Germany")
	if err == nil || errors.Is(err, ErrBlocked) {
		t.Errorf("got %v, want plain error", err)
	}
}
