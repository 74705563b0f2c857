package httpclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mverdi/loadburst/internal/httpclient"
	"github.com/mverdi/loadburst/internal/results"
)

// TestDoCapturesStatusAndSnippet checks the happy path against a live server.
func TestDoCapturesStatusAndSnippet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := httpclient.New(srv.URL, httpclient.Options{})
	status, snippet, err := c.Do(context.Background())
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	if snippet != `{"ok":true}` {
		t.Fatalf("snippet %q", snippet)
	}
}

// TestDoErrorStatusIsNotAnError ensures 4xx/5xx come back as plain status
// codes with their body snippet.
func TestDoErrorStatusIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("overloaded"))
	}))
	defer srv.Close()

	c := httpclient.New(srv.URL, httpclient.Options{})
	status, snippet, err := c.Do(context.Background())
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if status != http.StatusServiceUnavailable {
		t.Fatalf("status %d", status)
	}
	if snippet != "overloaded" {
		t.Fatalf("snippet %q", snippet)
	}
}

// TestDoTruncatesLongBodies caps the snippet at the shared limit.
func TestDoTruncatesLongBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 10*results.SnippetMax)))
	}))
	defer srv.Close()

	c := httpclient.New(srv.URL, httpclient.Options{})
	_, snippet, err := c.Do(context.Background())
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if len(snippet) != results.SnippetMax {
		t.Fatalf("snippet length %d, want %d", len(snippet), results.SnippetMax)
	}
}

// TestDoTransportFailure returns status zero and an error when no response
// arrives.
func TestDoTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := httpclient.New(srv.URL, httpclient.Options{})
	status, snippet, err := c.Do(context.Background())
	if err == nil {
		t.Fatal("expected a transport error")
	}
	if status != 0 || snippet != "" {
		t.Fatalf("got status %d snippet %q on failure", status, snippet)
	}
}

// TestDoDefeatsCaches ensures every request carries no-cache headers.
func TestDoDefeatsCaches(t *testing.T) {
	var cacheControl, pragma string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cacheControl = r.Header.Get("Cache-Control")
		pragma = r.Header.Get("Pragma")
	}))
	defer srv.Close()

	c := httpclient.New(srv.URL, httpclient.Options{})
	if _, _, err := c.Do(context.Background()); err != nil {
		t.Fatalf("do: %v", err)
	}
	if cacheControl != "no-cache" || pragma != "no-cache" {
		t.Fatalf("cache headers %q / %q", cacheControl, pragma)
	}
}
