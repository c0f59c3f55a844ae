package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PiotrLaszczyk/graphql-requests/pkg/config"
)

func retryConfig(attempts int) *config.Retry {
	return &config.Retry{
		MaxAttempts:       attempts,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		RetryableStatuses: []int{429, 502, 503, 504},
	}
}

func TestRetryTransport_RetriesIdempotentRequests(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := &http.Client{Transport: NewRetryTransport(nil, retryConfig(5))}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	resp.Body.Close()

	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}

func TestRetryTransport_NeverRetriesPost(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := &http.Client{Transport: NewRetryTransport(nil, retryConfig(5))}
	resp, err := client.Post(server.URL, "application/json", nil)
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	resp.Body.Close()

	// POST carries the GraphQL operation and must go out exactly once
	if attempts != 1 {
		t.Errorf("Expected 1 attempt for POST, got %d", attempts)
	}
}

func TestRetryTransport_NonRetryableStatus(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := &http.Client{Transport: NewRetryTransport(nil, retryConfig(5))}
	_, err := client.Get(server.URL)
	if err == nil {
		t.Fatal("Expected HTTPError for 400, got nil")
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt for non-retryable status, got %d", attempts)
	}
}

func TestRetryTransport_ExhaustedReturnsLastResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := &http.Client{Transport: NewRetryTransport(nil, retryConfig(2))}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected last 503 response after exhausting retries, got %d", resp.StatusCode)
	}
}

func TestRetryTransport_DisabledPassesThrough(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := &http.Client{Transport: NewRetryTransport(nil, nil)}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	resp.Body.Close()

	if attempts != 1 {
		t.Errorf("Expected 1 attempt with retries disabled, got %d", attempts)
	}
}
