package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"delivery_kitchen/internal/models"
	"delivery_kitchen/internal/service"
)

func postJSON(r http.Handler, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandlers_SignUp(t *testing.T) {
	joined := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	auth := &mockAuth{dispatcher: models.Dispatcher{ID: 42, Username: "expo", PasswordHash: "secret-hash", CreatedAt: joined}}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := postJSON(r, "/auth/sign-up", `{"username":"Expo","password":"correct-horse"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("sign-up status=%d, body=%s", w.Code, w.Body.String())
	}
	if auth.lastUsername != "Expo" || auth.lastPassword != "correct-horse" {
		t.Fatalf("service got %q/%q", auth.lastUsername, auth.lastPassword)
	}

	var got map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got["id"] != float64(42) || got["username"] != "expo" {
		t.Fatalf("unexpected body %v", got)
	}
	if _, leaked := got["password_hash"]; leaked {
		t.Fatalf("password hash must not be serialised: %v", got)
	}
}

func TestAuthHandlers_SignUpErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"missing password", `{"username":"expo"}`, nil, http.StatusBadRequest},
		{"bad username", `{"username":"a b","password":"correct-horse"}`, service.ErrInvalidUsername, http.StatusBadRequest},
		{"weak password", `{"username":"expo","password":"x"}`, service.ErrWeakPassword, http.StatusBadRequest},
		{"taken", `{"username":"expo","password":"correct-horse"}`, service.ErrUsernameTaken, http.StatusConflict},
		{"storage failure", `{"username":"expo","password":"correct-horse"}`, errors.New("disk I/O error"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Authorization: &mockAuth{signUpErr: tc.err}})
			w := postJSON(r, "/auth/sign-up", tc.body)
			if w.Code != tc.want {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestAuthHandlers_SignIn(t *testing.T) {
	auth := &mockAuth{token: "tok123"}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := postJSON(r, "/auth/sign-in", `{"username":"expo","password":"correct-horse"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in status=%d, body=%s", w.Code, w.Body.String())
	}
	var got map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got["token"] != "tok123" {
		t.Fatalf("token = %q", got["token"])
	}

	if w := postJSON(r, "/auth/sign-in", `{"username":1}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}

	auth.signInErr = service.ErrInvalidCredentials
	if w := postJSON(r, "/auth/sign-in", `{"username":"expo","password":"nope-nope"}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	auth.signInErr = errors.New("database is locked")
	w = postJSON(r, "/auth/sign-in", `{"username":"expo","password":"correct-horse"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("locked")) {
		t.Fatalf("internal error leaked: %s", w.Body.String())
	}
}

func TestAuthHandlers_WhoAmI(t *testing.T) {
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 7, parseName: "expo"}})

	w := do(r, http.MethodGet, "/api/v1/me", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var who models.Identity
	_ = json.Unmarshal(w.Body.Bytes(), &who)
	if who != (models.Identity{DispatcherID: 7, Username: "expo"}) {
		t.Fatalf("identity = %+v", who)
	}
}
