package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sideeq12/tutorhub/pkg"
)

// staticTokens, testler için sabit token kaynağı.
type staticTokens struct{ token string }

func (s staticTokens) AccessToken() string { return s.token }

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := New(server.URL, 5*time.Second, staticTokens{token: token})
	return client, server
}

func TestDoAttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID, gotContentType string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"ok":true}`))
	}, "token-123")

	if _, err := client.Do(context.Background(), http.MethodPost, "/api/courses", map[string]string{"title": "Go"}); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if gotAuth != "Bearer token-123" {
		t.Fatalf("authorization = %q, want bearer token", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatal("expected X-Request-ID header")
	}
	if gotContentType != "application/json" {
		t.Fatalf("content-type = %q", gotContentType)
	}
}

func TestDoPublicWithholdsToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}, "stale-token")

	// Önceki oturumdan token dursa bile signin/signup isteği taşımamalı.
	if _, err := client.DoPublic(context.Background(), http.MethodPost, "/api/tutors/signin", nil); err != nil {
		t.Fatalf("DoPublic failed: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("authorization = %q, want empty", gotAuth)
	}
}

func TestDoSkipsAuthHeaderWhenNoToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}, "")

	if _, err := client.Do(context.Background(), http.MethodGet, "/api/courses", nil); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("authorization = %q, want empty when token source is empty", gotAuth)
	}
}

func TestEnvelopeDecode(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"course":{"id":"c1","title":"Go 101"},"total":1}`))
	}, "token")

	env, err := client.Do(context.Background(), http.MethodGet, "/api/courses/c1", nil)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}

	var course struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	if err := env.Decode("course", &course); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if course.ID != "c1" || course.Title != "Go 101" {
		t.Fatalf("unexpected course: %+v", course)
	}

	if !env.Has("total") {
		t.Fatal("expected total key")
	}
	if err := env.Decode("missing", &course); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestErrorResponseParsing(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"error field wins", 401, `{"error":"invalid credentials","message":"ignored"}`, "invalid credentials"},
		{"message fallback", 422, `{"message":"title is required"}`, "title is required"},
		{"unparseable body", 500, `<html>boom</html>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}, "token")

			_, err := client.Do(context.Background(), http.MethodGet, "/api/courses", nil)
			if err == nil {
				t.Fatal("expected error")
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error type = %T, want *APIError", err)
			}
			if apiErr.Status != tt.status {
				t.Fatalf("status = %d, want %d", apiErr.Status, tt.status)
			}
			if apiErr.Message != tt.wantMessage {
				t.Fatalf("message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
		})
	}
}

func TestNetworkFailureWrapsSentinel(t *testing.T) {
	// Kapalı bir sunucuya istek — bağlantı hatası üretmenin garantili yolu.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := New(server.URL, time.Second, staticTokens{})
	_, err := client.Do(context.Background(), http.MethodGet, "/api/courses", nil)
	if !errors.Is(err, pkg.ErrNetwork) {
		t.Fatalf("error = %v, want wrapped ErrNetwork", err)
	}
}
