package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"Gallerist/internal/model"
	"Gallerist/internal/service"
)

// fakeVerifier принимает только токен "good".
type fakeVerifier struct {
	err error
}

func (f fakeVerifier) Verify(_ context.Context, token string) (*model.Admin, error) {
	if f.err != nil {
		return nil, f.err
	}
	if token != "good" {
		return nil, &service.Error{Kind: service.ErrUnauthorized, Message: "Not authorized, token invalid"}
	}
	return &model.Admin{ID: "a1", Username: "admin"}, nil
}

func protected(v TokenVerifier) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a, found := AdminFromContext(r.Context()); !found || a.ID != "a1" {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return WithAuth(v)(RequireAdmin(ok))
}

func messageOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	if env.Success {
		t.Fatalf("success must be false on auth failure")
	}
	return env.Message
}

// Тест: валидный bearer токен — администратор попадает в контекст
func TestRequireAdmin_ValidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr := httptest.NewRecorder()
	protected(fakeVerifier{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", rr.Code)
	}
}

// Тест: без заголовка — 401 "no token"
func TestRequireAdmin_NoToken(t *testing.T) {
	rr := httptest.NewRecorder()
	protected(fakeVerifier{}).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if msg := messageOf(t, rr); msg != "Not authorized, no token" {
		t.Fatalf("unexpected message %q", msg)
	}
}

// Тест: невалидный токен и неверная схема
func TestRequireAdmin_InvalidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rr := httptest.NewRecorder()
	protected(fakeVerifier{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if msg := messageOf(t, rr); msg != "Not authorized, token invalid" {
		t.Fatalf("unexpected message %q", msg)
	}

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Basic good")
	rr = httptest.NewRecorder()
	protected(fakeVerifier{}).ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("non-bearer scheme must be rejected, got %d", rr.Code)
	}
}

// Тест: сбой хранилища при проверке — 500, а не 401
func TestRequireAdmin_VerifierFailure(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr := httptest.NewRecorder()
	protected(fakeVerifier{err: errors.New("db down")}).ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

// Тест: WithAuth без RequireAdmin не блокирует публичные запросы
func TestWithAuth_LeavesPublicRoutesOpen(t *testing.T) {
	h := WithAuth(fakeVerifier{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := AdminFromContext(r.Context()); ok {
			t.Fatalf("admin must not be set with invalid token")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
