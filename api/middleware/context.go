package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/staffhubhq/staffhub-backend/internal/authz"
	"github.com/staffhubhq/staffhub-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID   contextKey = "user_id"
	ctxRoleType contextKey = "role_type"
	ctxAccessID contextKey = "access_id"
	ctxActor    contextKey = "actor"
)

func UserIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxUserID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func RoleTypeFromContext(ctx context.Context) enums.RoleType {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRoleType).(enums.RoleType); ok {
		return v
	}
	return ""
}

// AccessIDFromContext returns the session identifier carried by the bearer token.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// ActorFromContext returns the fully resolved actor seeded by the Permit middleware.
func ActorFromContext(ctx context.Context) *authz.Actor {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxActor).(*authz.Actor); ok {
		return v
	}
	return nil
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithActor injects the resolved actor into the context for downstream handlers.
func WithActor(ctx context.Context, actor *authz.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}
