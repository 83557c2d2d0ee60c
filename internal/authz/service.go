package authz

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
	"github.com/staffhubhq/staffhub-backend/pkg/enums"
	pkgerrors "github.com/staffhubhq/staffhub-backend/pkg/errors"
)

// Actor is the resolved identity attached to an authorized request.
type Actor struct {
	UserID   uuid.UUID
	RoleID   uuid.UUID
	RoleType enums.RoleType
}

// CanDecideTimeOff reports whether the actor may approve or decline requests.
func (a Actor) CanDecideTimeOff() bool {
	return a.RoleType.CanDecideTimeOff()
}

// Repository loads users with their role and its permission set.
type Repository interface {
	FindUserWithPermissions(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ServiceParams groups dependencies for the authorization gate.
type ServiceParams struct {
	Repo Repository
}

// Service checks a user's stored permissions against incoming requests.
type Service struct {
	repo Repository
}

// NewService builds the authorization gate.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// Authorize resolves the user and verifies that their role grants the
// requested method and path. Every call reloads the permission set so role
// edits take effect immediately.
func (s *Service) Authorize(ctx context.Context, userID uuid.UUID, method, path string) (*Actor, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}

	user, err := s.repo.FindUserWithPermissions(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user permissions")
	}
	if user.Blocked {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is blocked")
	}
	if user.Role == nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "user has no role assigned")
	}

	if !matchAny(user.Role.Permissions, method, path) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "permission denied")
	}

	return &Actor{
		UserID:   user.ID,
		RoleID:   user.RoleID,
		RoleType: user.Role.Type,
	}, nil
}

func matchAny(perms []models.Permission, method, path string) bool {
	method = strings.ToUpper(strings.TrimSpace(method))
	for _, perm := range perms {
		if perm.Method != method {
			continue
		}
		if MatchRoute(perm.Route, path) {
			return true
		}
	}
	return false
}

// MatchRoute compares a stored route template against a concrete request
// path. Template segments wrapped in braces match any single path segment,
// so "/api/v1/users/{id}" matches "/api/v1/users/42".
func MatchRoute(template, path string) bool {
	templateSegments := splitPath(template)
	pathSegments := splitPath(path)
	if len(templateSegments) != len(pathSegments) {
		return false
	}
	for i, segment := range templateSegments {
		if isParam(segment) {
			if pathSegments[i] == "" {
				return false
			}
			continue
		}
		if !strings.EqualFold(segment, pathSegments[i]) {
			return false
		}
	}
	return true
}

func splitPath(value string) []string {
	value = strings.Trim(strings.TrimSpace(value), "/")
	if value == "" {
		return nil
	}
	return strings.Split(value, "/")
}

func isParam(segment string) bool {
	return len(segment) >= 2 && segment[0] == '{' && segment[len(segment)-1] == '}'
}
