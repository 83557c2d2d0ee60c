package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/staffhubhq/staffhub-backend/internal/authz"
	"github.com/staffhubhq/staffhub-backend/pkg/enums"
	pkgerrors "github.com/staffhubhq/staffhub-backend/pkg/errors"
)

type stubAuthorizer struct {
	actor *authz.Actor
	err   error

	method string
	path   string
}

func (s *stubAuthorizer) Authorize(ctx context.Context, userID uuid.UUID, method, path string) (*authz.Actor, error) {
	s.method = method
	s.path = path
	if s.err != nil {
		return nil, s.err
	}
	return s.actor, nil
}

func TestPermitAttachesActor(t *testing.T) {
	userID := uuid.New()
	gate := &stubAuthorizer{actor: &authz.Actor{UserID: userID, RoleType: enums.RoleTypeManager}}

	var seen *authz.Actor
	handler := Permit(gate, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/abc", nil)
	req = req.WithContext(WithUserID(req.Context(), userID))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if seen == nil || seen.UserID != userID {
		t.Fatalf("expected actor in context, got %+v", seen)
	}
	if gate.method != http.MethodDelete || gate.path != "/api/v1/users/abc" {
		t.Fatalf("unexpected authorize args: %s %s", gate.method, gate.path)
	}
}

func TestPermitRejectsWithoutIdentity(t *testing.T) {
	gate := &stubAuthorizer{actor: &authz.Actor{}}
	handler := Permit(gate, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestPermitPropagatesForbidden(t *testing.T) {
	gate := &stubAuthorizer{err: pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions")}
	handler := Permit(gate, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req = req.WithContext(WithUserID(req.Context(), uuid.New()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
