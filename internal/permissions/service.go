package permissions

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffhubhq/staffhub-backend/pkg/db"
	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
	pkgerrors "github.com/staffhubhq/staffhub-backend/pkg/errors"
)

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// ServiceParams groups dependencies for the permission service.
type ServiceParams struct {
	Repo Repository
}

// Service manages the API permission catalog.
type Service struct {
	repo Repository
}

// NewService builds a permission service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// PermissionInput carries the fields accepted on create and update. Method is
// normalized to uppercase and route to lowercase before persistence.
type PermissionInput struct {
	Method string
	Route  string
}

func (s *Service) Create(ctx context.Context, input PermissionInput) (*models.Permission, error) {
	perm, err := permissionFromInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreatePermission(ctx, perm); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "this method and route pair already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating permission")
	}
	return perm, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Permission, error) {
	perm, err := s.repo.FindPermission(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "permission not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading permission")
	}
	return perm, nil
}

func (s *Service) List(ctx context.Context) ([]models.Permission, error) {
	perms, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing permissions")
	}
	return perms, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input PermissionInput) (*models.Permission, error) {
	perm, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := permissionFromInput(input)
	if err != nil {
		return nil, err
	}
	perm.Method = updated.Method
	perm.Route = updated.Route

	if err := s.repo.UpdatePermission(ctx, perm); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "this method and route pair already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating permission")
	}
	return perm, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeletePermission(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting permission")
	}
	return nil
}

func permissionFromInput(input PermissionInput) (*models.Permission, error) {
	method := strings.ToUpper(strings.TrimSpace(input.Method))
	if !allowedMethods[method] {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "method must be one of GET, POST, PUT, PATCH, DELETE")
	}
	route := strings.ToLower(strings.TrimSpace(input.Route))
	if route == "" || !strings.HasPrefix(route, "/") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "route must start with /")
	}
	return &models.Permission{Method: method, Route: route}, nil
}
