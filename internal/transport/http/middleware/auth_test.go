package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leavedesk/internal/auth"
)

const testSecret = "test-secret"

func testToken(t *testing.T, employeeID int64, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, auth.Claims{EmployeeID: employeeID, Role: role}, time.Hour)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}
	return token
}

func TestAuthMiddlewareAttachesCaller(t *testing.T) {
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := GetCaller(r.Context())
		if !ok {
			t.Fatal("expected caller in context")
		}
		if caller.EmployeeID != 42 || caller.Role != auth.RoleAdmin {
			t.Fatalf("unexpected caller %+v", caller)
		}
		if !caller.IsAdmin() {
			t.Fatal("expected admin caller")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, 42, auth.RoleAdmin))
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestAuthMiddlewareIgnoresBadToken(t *testing.T) {
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetCaller(r.Context()); ok {
			t.Fatal("expected anonymous request")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAdminRejectsEmployee(t *testing.T) {
	chain := Auth(testSecret)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, 7, auth.RoleEmployee))
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	ran := false
	chain := Auth(testSecret)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, 7, auth.RoleAdmin))
	chain.ServeHTTP(httptest.NewRecorder(), req)

	if !ran {
		t.Fatal("expected handler to run for admin")
	}
}
