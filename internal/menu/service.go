package menu

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
	pkgerrors "github.com/staffhubhq/staffhub-backend/pkg/errors"
)

// Repository loads the client permissions attached to a role.
type Repository interface {
	ClientPermissionsForRole(ctx context.Context, roleID uuid.UUID) ([]models.ClientPermission, error)
}

// ServiceParams groups dependencies for the menu service.
type ServiceParams struct {
	Repo Repository
}

// Service resolves the navigation tree for a role.
type Service struct {
	repo Repository
}

// NewService builds a menu service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// ForRole returns the navigation tree for the provided role.
func (s *Service) ForRole(ctx context.Context, roleID uuid.UUID) ([]Entry, error) {
	if roleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role id is required")
	}
	perms, err := s.repo.ClientPermissionsForRole(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "role not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading client permissions")
	}
	return Build(perms), nil
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to menu lookups.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ClientPermissionsForRole(ctx context.Context, roleID uuid.UUID) ([]models.ClientPermission, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).
		Preload("ClientPermissions").
		First(&role, "id = ?", roleID).Error; err != nil {
		return nil, err
	}
	return role.ClientPermissions, nil
}
