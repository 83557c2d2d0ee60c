package permissions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
)

// Repository exposes persistence for API permissions and client permissions.
type Repository interface {
	CreatePermission(ctx context.Context, perm *models.Permission) error
	FindPermission(ctx context.Context, id uuid.UUID) (*models.Permission, error)
	ListPermissions(ctx context.Context) ([]models.Permission, error)
	UpdatePermission(ctx context.Context, perm *models.Permission) error
	DeletePermission(ctx context.Context, id uuid.UUID) error

	CreateClientPermission(ctx context.Context, perm *models.ClientPermission) error
	FindClientPermission(ctx context.Context, id uuid.UUID) (*models.ClientPermission, error)
	ListClientPermissions(ctx context.Context) ([]models.ClientPermission, error)
	UpdateClientPermission(ctx context.Context, perm *models.ClientPermission) error
	DeleteClientPermission(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to permission operations.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePermission(ctx context.Context, perm *models.Permission) error {
	return r.db.WithContext(ctx).Create(perm).Error
}

func (r *repository) FindPermission(ctx context.Context, id uuid.UUID) (*models.Permission, error) {
	var perm models.Permission
	if err := r.db.WithContext(ctx).First(&perm, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *repository) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	var perms []models.Permission
	if err := r.db.WithContext(ctx).Order("route asc, method asc").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *repository) UpdatePermission(ctx context.Context, perm *models.Permission) error {
	return r.db.WithContext(ctx).Save(perm).Error
}

func (r *repository) DeletePermission(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Permission{}, "id = ?", id).Error
}

func (r *repository) CreateClientPermission(ctx context.Context, perm *models.ClientPermission) error {
	return r.db.WithContext(ctx).Create(perm).Error
}

func (r *repository) FindClientPermission(ctx context.Context, id uuid.UUID) (*models.ClientPermission, error) {
	var perm models.ClientPermission
	if err := r.db.WithContext(ctx).First(&perm, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *repository) ListClientPermissions(ctx context.Context) ([]models.ClientPermission, error) {
	var perms []models.ClientPermission
	if err := r.db.WithContext(ctx).Order("menu asc, sort asc, name asc").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *repository) UpdateClientPermission(ctx context.Context, perm *models.ClientPermission) error {
	return r.db.WithContext(ctx).Save(perm).Error
}

func (r *repository) DeleteClientPermission(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ClientPermission{}, "id = ?", id).Error
}
