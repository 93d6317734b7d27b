package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"clinicdesk/internal/domain/entity"

	"github.com/google/uuid"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithRole(roleID int) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return req.WithContext(WithActor(req.Context(), uuid.New(), roleID))
}

func TestRequireDoctor(t *testing.T) {
	handler := RequireDoctor(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithRole(entity.RoleIDDoctor))
	if rec.Code != http.StatusOK {
		t.Errorf("doctor: status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithRole(entity.RoleIDReceptionist))
	if rec.Code != http.StatusForbidden {
		t.Errorf("receptionist: status = %d, want 403", rec.Code)
	}
}

func TestRequireReceptionist(t *testing.T) {
	handler := RequireReceptionist(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithRole(entity.RoleIDReceptionist))
	if rec.Code != http.StatusOK {
		t.Errorf("receptionist: status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithRole(entity.RoleIDDoctor))
	if rec.Code != http.StatusForbidden {
		t.Errorf("doctor: status = %d, want 403", rec.Code)
	}
}

func TestRequireRoleWithoutContext(t *testing.T) {
	handler := RequireRole(entity.RoleIDDoctor)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no context: status = %d, want 401", rec.Code)
	}
}
