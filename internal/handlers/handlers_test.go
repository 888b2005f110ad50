package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/presyohub/presyo/internal/auth"
	"github.com/presyohub/presyo/internal/config"
	"github.com/presyohub/presyo/internal/store"
)

const testClientID = "client-id.apps.googleusercontent.com"

type memoryUserStore struct {
	users map[string]store.User
}

func (m *memoryUserStore) UserByGoogleID(ctx context.Context, googleID string) (*store.User, error) {
	if u, ok := m.users[googleID]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *memoryUserStore) InsertUser(ctx context.Context, user store.User) error {
	if m.users == nil {
		m.users = map[string]store.User{}
	}
	m.users[user.GoogleID] = user
	return nil
}

func newTestHandler(t *testing.T, aud string) *Handler {
	t.Helper()

	tokeninfo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := map[string]string{
			"aud":            aud,
			"sub":            "108123456789",
			"email":          "ana@example.com",
			"name":           "Ana Santos",
			"email_verified": "true",
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(claims); err != nil {
			t.Errorf("failed to encode claims: %v", err)
		}
	}))
	t.Cleanup(tokeninfo.Close)

	cfg := &config.Gateway{
		GoogleClientID: testClientID,
		SessionSecret:  "test-secret",
	}
	svc := auth.NewService(cfg, &memoryUserStore{})
	svc.TokeninfoURL = tokeninfo.URL

	return New(svc)
}

func TestHandleHealth(t *testing.T) {
	h := newTestHandler(t, testClientID)

	w := httptest.NewRecorder()
	h.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %q", body["status"])
	}
}

func TestHandleGoogleAuth(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		audience       string
		expectedStatus int
	}{
		{
			name:           "success",
			method:         http.MethodPost,
			body:           `{"token":"raw-token"}`,
			audience:       testClientID,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "audience mismatch",
			method:         http.MethodPost,
			body:           `{"token":"raw-token"}`,
			audience:       "someone-else",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid body",
			method:         http.MethodPost,
			body:           `{`,
			audience:       testClientID,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing token",
			method:         http.MethodPost,
			body:           `{"token":""}`,
			audience:       testClientID,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "wrong method",
			method:         http.MethodGet,
			body:           "",
			audience:       testClientID,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, tt.audience)

			req := httptest.NewRequest(tt.method, "/api/auth/google/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.HandleGoogleAuth(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.expectedStatus == http.StatusOK {
				var body struct {
					Status string     `json:"status"`
					User   store.User `json:"user"`
					Token  string     `json:"token"`
				}
				if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode body: %v", err)
				}
				if body.Status != "success" {
					t.Errorf("Expected success status, got %q", body.Status)
				}
				if body.User.GoogleID != "108123456789" {
					t.Errorf("Expected mapped user, got %+v", body.User)
				}
				if body.Token == "" {
					t.Error("Expected a session token")
				}
				return
			}

			var body map[string]string
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode error body: %v", err)
			}
			if body["detail"] == "" {
				t.Error("Expected a detail message on error")
			}
		})
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{"http://localhost:5173"}, next)

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
			t.Errorf("Expected origin echoed, got %q", got)
		}
		if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Error("Expected credentials allowed")
		}
	})

	t.Run("disallowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://evil.example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Expected no CORS headers for disallowed origin, got %q", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/auth/google/", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Headers", "content-type")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected 204 for preflight, got %d", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Headers"); got != "content-type" {
			t.Errorf("Expected requested headers echoed, got %q", got)
		}
	})
}
