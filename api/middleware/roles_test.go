package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireRoleAllowsListedRoles(t *testing.T) {
	handler := RequireRole(nil, "staff", "admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, role := range []string{"staff", "admin"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithRole(req.Context(), role))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("role %s: expected 200 got %d", role, resp.Code)
		}
	}
}

func TestRequireRoleRejectsCustomer(t *testing.T) {
	handlerCalled := false
	handler := RequireRole(nil, "staff", "admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), "customer"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
	if handlerCalled {
		t.Fatal("handler should not run for customer role")
	}
}
