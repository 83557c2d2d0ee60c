package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/staffhubhq/staffhub-backend/api/responses"
	"github.com/staffhubhq/staffhub-backend/internal/authz"
	pkgerrors "github.com/staffhubhq/staffhub-backend/pkg/errors"
	"github.com/staffhubhq/staffhub-backend/pkg/logger"
)

// Authorizer resolves whether a user may call a method and path.
type Authorizer interface {
	Authorize(ctx context.Context, userID uuid.UUID, method, path string) (*authz.Actor, error)
}

// Permit checks the authenticated user's role permissions against the
// request method and path, and attaches the resolved actor to the context.
func Permit(gate Authorizer, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := UserIDFromContext(r.Context())
			if userID == uuid.Nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			actor, err := gate.Authorize(r.Context(), userID, r.Method, r.URL.Path)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}
