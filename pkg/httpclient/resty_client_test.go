package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRestyClientGetJoinsBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/licenses/ABC" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept header = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "checker-test" {
			t.Errorf("User-Agent header = %q", got)
		}
		w.Header().Set("X-Request-Id", "req-1")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := NewRestyClientWithOptions(Options{
		BaseURL:        srv.URL + "/",
		Timeout:        2 * time.Second,
		ConnectTimeout: time.Second,
		UserAgent:      "checker-test",
	})

	resp, err := client.Get(context.Background(), "/api/v1/licenses/ABC", map[string]string{"Accept": "application/json"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	if string(resp.Body()) != `{"success":true}` {
		t.Fatalf("body = %s", resp.Body())
	}
	if got := resp.Header().Get("X-Request-Id"); got != "req-1" {
		t.Fatalf("response header = %q", got)
	}
}

func TestRestyClientPostSendsJSON(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewRestyClientWithOptions(Options{BaseURL: srv.URL, Timeout: 2 * time.Second})
	resp, err := client.Post(context.Background(), "/activate", map[string]any{"license_key": "K"}, map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.StatusCode() != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	if received["license_key"] != "K" {
		t.Fatalf("unexpected body %#v", received)
	}
}

func TestRestyClientNon2xxIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewRestyClientWithOptions(Options{Timeout: time.Second})
	resp, err := client.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Get returned error for 500: %v", err)
	}
	if resp.StatusCode() != http.StatusInternalServerError {
		t.Fatalf("status = %d", resp.StatusCode())
	}
}

func TestRestyClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewRestyClientWithOptions(Options{Timeout: time.Second, ConnectTimeout: 200 * time.Millisecond})
	if _, err := client.Get(context.Background(), url, nil); err == nil {
		t.Fatalf("expected error for closed server")
	}
}
