package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"alto-client/internal/domain"
)

// TestLoginThenRefreshUsesCookie tests that the refresh cookie from login is sent on refresh
func TestLoginThenRefreshUsesCookie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case loginPath:
			var req domain.LoginRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("failed to decode login body: %v", err)
			}
			if req.Email != "student@example.com" {
				t.Errorf("expected email in body, got: %s", req.Email)
			}
			http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "rt-1", Path: "/", HttpOnly: true})
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"data": map[string]interface{}{
					"access_token": "at-1",
					"user":         map[string]string{"email": "student@example.com", "name": "Student"},
				},
			})
		case refreshPath:
			cookie, err := r.Cookie("refresh_token")
			if err != nil || cookie.Value != "rt-1" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Refresh token not found"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"data": map[string]string{"access_token": "at-2"}})
		}
	}))
	defer server.Close()

	store := &mockTokenStore{}
	client := newTestClient(t, server.URL, store, newMockRecorder())
	ctx := context.Background()

	result, err := client.Login(ctx, domain.LoginRequest{Email: "student@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.AccessToken != "at-1" || result.User.Name != "Student" {
		t.Errorf("unexpected login result: %+v", result)
	}

	token, err := client.Refresh(ctx)
	if err != nil {
		t.Fatalf("expected refresh to succeed with the cookie, got: %v", err)
	}
	if token != "at-2" || store.token != "at-2" {
		t.Errorf("expected at-2 stored, got %q / %q", token, store.token)
	}
}

// TestLoginRejectsResponseWithoutToken tests boundary validation of the login result
func TestLoginRejectsResponseWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"data": map[string]interface{}{"user": map[string]string{}}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, &mockTokenStore{}, newMockRecorder())

	_, err := client.Login(context.Background(), domain.LoginRequest{Email: "a@b.co", Password: "x"})
	if !errors.Is(err, domain.ErrInvalidResponse) {
		t.Errorf("expected ErrInvalidResponse, got: %v", err)
	}
}

// TestRefreshRejectedClearsToken tests that a 401 on refresh confirms the session is gone
func TestRefreshRejectedClearsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Refresh token expired"})
	}))
	defer server.Close()

	store := &mockTokenStore{token: "at-1"}
	recorder := newMockRecorder()
	client := newTestClient(t, server.URL, store, recorder)

	if _, err := client.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if store.token != "" {
		t.Errorf("expected token cleared, got %q", store.token)
	}
	if recorder.refreshes["expired"] != 1 {
		t.Errorf("expected one expired refresh, got %v", recorder.refreshes)
	}
}

// TestRefreshServerErrorKeepsToken tests that a transient refresh failure keeps the token
func TestRefreshServerErrorKeepsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "try later"})
	}))
	defer server.Close()

	store := &mockTokenStore{token: "at-1"}
	client := newTestClient(t, server.URL, store, newMockRecorder())

	if _, err := client.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if store.token != "at-1" {
		t.Errorf("expected token kept, got %q", store.token)
	}
}

// TestLogoutAndProfile tests the bearer-authenticated account calls
func TestLogoutAndProfile(t *testing.T) {
	var logoutCalled bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			t.Errorf("expected bearer on %s, got %q", r.URL.Path, r.Header.Get("Authorization"))
		}
		switch {
		case r.URL.Path == logoutPath && r.Method == http.MethodPost:
			logoutCalled = true
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == profilePath && r.Method == http.MethodPut:
			var req domain.ProfileUpdateRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"data": map[string]string{"email": "s@example.com", "college": req.College, "major": req.Major},
			})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, &mockTokenStore{token: "at-1"}, newMockRecorder())
	ctx := context.Background()

	user, err := client.UpdateProfile(ctx, domain.ProfileUpdateRequest{College: "MIT", Major: "Physics"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !user.HasProfile() {
		t.Errorf("expected profile to be returned, got %+v", user)
	}

	if err := client.Logout(ctx); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !logoutCalled {
		t.Error("expected logout endpoint to be called")
	}
}
