package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/astreus-ai/astreus-admin-be/internal/auth"
	"github.com/astreus-ai/astreus-admin-be/internal/models"
	"github.com/astreus-ai/astreus-admin-be/internal/services"
)

func testAuthHandler(service *fakeUserService) *AuthHandler {
	tokens := auth.NewTokenManager("jwt-test-secret")
	verifier := auth.NewVerifier(tokens, "legacy-test-secret", service)
	return NewAuthHandler(service, tokens, verifier, false)
}

func TestAuthHandler_Login_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `nope`},
		{"missing username", `{"password":"pw"}`},
		{"missing password", `{"username":"alice"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testAuthHandler(&fakeUserService{})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			h.Login(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d; want 400", rec.Code)
			}
		})
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	h := testAuthHandler(&fakeUserService{
		authFunc: func(username, password string) (models.User, error) {
			return models.User{}, fmt.Errorf("authentication failed: invalid password")
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"alice","password":"wrong"}`))
	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d; want 401", rec.Code)
	}
}

func TestAuthHandler_Login_DatabaseDown(t *testing.T) {
	h := testAuthHandler(&fakeUserService{
		authFunc: func(username, password string) (models.User, error) {
			return models.User{}, fmt.Errorf("authentication failed: %w", services.ErrUnavailable)
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"alice","password":"pw"}`))
	h.Login(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d; want 503", rec.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	h := testAuthHandler(&fakeUserService{
		authFunc: func(username, password string) (models.User, error) {
			return models.User{ID: "u-1", Username: username, IsAdmin: true}, nil
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"alice","password":"pw"}`))
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Token == "" {
		t.Error("expected a token in the response")
	}
	if body.User.Username != "alice" {
		t.Errorf("user = %+v; want alice", body.User)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected a token cookie to be set")
	}
	if !cookie.HttpOnly {
		t.Error("token cookie must be HTTP-only")
	}
	if cookie.Value != body.Token {
		t.Error("cookie and body token differ")
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	h := testAuthHandler(&fakeUserService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			cookie = c
		}
	}
	if cookie == nil || cookie.MaxAge >= 0 || cookie.Value != "" {
		t.Errorf("cookie = %+v; want an expired empty token cookie", cookie)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := testAuthHandler(&fakeUserService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	h.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"authenticated":false`) {
		t.Errorf("body %s; want authenticated:false", rec.Body.String())
	}
}
