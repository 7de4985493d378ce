package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/johnquangdev/meeting-insights/pkg/config"
)

func newTestClient(t *testing.T, serverURL string) *GeminiClient {
	t.Helper()
	c, err := NewGeminiClient(&config.GeminiConfig{
		APIKey:  "test-key",
		BaseURL: serverURL,
		Model:   "gemini-1.5-flash",
		Timeout: 2 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("NewGeminiClient: %v", err)
	}
	return c
}

func TestNewGeminiClientMissingKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := NewGeminiClient(&config.GeminiConfig{}, nil)
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestGenerateContentSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Goog-Api-Key") != "test-key" {
			t.Errorf("missing api key header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"summary\":\"ok\"}"}]}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.GenerateContent(context.Background(), "hello")
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if got != `{"summary":"ok"}` {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestGenerateContentStatusClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrServiceUnauthenticated},
		{"forbidden", http.StatusForbidden, ErrServiceUnauthenticated},
		{"rate limited", http.StatusTooManyRequests, ErrServiceQuotaExceeded},
		{"server error", http.StatusInternalServerError, ErrServiceUnavailable},
		{"bad gateway", http.StatusBadGateway, ErrServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL)
			_, err := c.GenerateContent(context.Background(), "hello")
			if !errors.Is(err, tc.want) {
				t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
			}
		})
	}
}

func TestGenerateContentTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c, err := NewGeminiClient(&config.GeminiConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Timeout: 50 * time.Millisecond,
	}, nil)
	if err != nil {
		t.Fatalf("NewGeminiClient: %v", err)
	}

	_, err = c.GenerateContent(context.Background(), "hello")
	if !errors.Is(err, ErrServiceTimeout) {
		t.Fatalf("expected ErrServiceTimeout, got %v", err)
	}
}

func TestGenerateContentTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := newTestClient(t, srv.URL)
	_, err := c.GenerateContent(context.Background(), "hello")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestGenerateContentEmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.GenerateContent(context.Background(), "hello")
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}
