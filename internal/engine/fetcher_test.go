package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetcher_BasicFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><h1>Hello</h1></body></html>"))
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), nil, "HarvestBot/1.0 (test)")
	page, err := f.Fetch(context.Background(), server.URL, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if page.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", page.StatusCode)
	}
	if !strings.Contains(page.Body, "<h1>Hello</h1>") {
		t.Errorf("body missing content: %q", page.Body)
	}
	if page.ResponseTime <= 0 {
		t.Error("expected a positive response time")
	}
}

func TestFetcher_NonOKStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), nil, "HarvestBot/1.0 (test)")
	page, err := f.Fetch(context.Background(), server.URL, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if page.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", page.StatusCode)
	}
}

func TestFetcher_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), nil, "HarvestBot/1.0 (test)")
	_, err := f.Fetch(context.Background(), server.URL, 100*time.Millisecond, nil)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestFetcher_InvalidURL(t *testing.T) {
	f := NewFetcher(http.DefaultClient, nil, "HarvestBot/1.0 (test)")
	_, err := f.Fetch(context.Background(), "ftp://example.com/x", time.Second, nil)
	if !errors.Is(err, ErrInvalidURL) {
		t.Errorf("expected ErrInvalidURL, got %v", err)
	}
}

func TestFetcher_CustomHeaders(t *testing.T) {
	var gotAgent, gotCustom string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotCustom = r.Header.Get("X-Custom-Header")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), nil, "HarvestBot/1.0 (test)")
	_, err := f.Fetch(context.Background(), server.URL, 5*time.Second, map[string]string{
		"X-Custom-Header": "TestValue",
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if gotAgent != "HarvestBot/1.0 (test)" {
		t.Errorf("User-Agent = %q", gotAgent)
	}
	if gotCustom != "TestValue" {
		t.Errorf("X-Custom-Header = %q", gotCustom)
	}
}
