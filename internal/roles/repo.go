package roles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
	"github.com/staffhubhq/staffhub-backend/pkg/enums"
)

// Repository exposes role persistence operations.
type Repository interface {
	Create(ctx context.Context, role *models.Role) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Role, error)
	FindByType(ctx context.Context, roleType enums.RoleType) (*models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountUsers(ctx context.Context, id uuid.UUID) (int64, error)
	ReplacePermissions(ctx context.Context, role *models.Role, perms []models.Permission) error
	ReplaceClientPermissions(ctx context.Context, role *models.Role, perms []models.ClientPermission) error
	FindPermissionsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Permission, error)
	FindClientPermissionsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ClientPermission, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to role operations.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).
		Preload("Permissions").
		Preload("ClientPermissions").
		First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *repository) FindByType(ctx context.Context, roleType enums.RoleType) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).
		Where("type = ?", roleType).
		Order("created_at asc").
		First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *repository) List(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.WithContext(ctx).
		Preload("Permissions").
		Preload("ClientPermissions").
		Order("name asc").
		Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *repository) Update(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).
		Omit("Permissions", "ClientPermissions").
		Save(role).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Permissions", "ClientPermissions").
		Delete(&models.Role{ID: id}).Error
}

func (r *repository) CountUsers(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReplacePermissions reconnects the role's permission links wholesale.
func (r *repository) ReplacePermissions(ctx context.Context, role *models.Role, perms []models.Permission) error {
	return r.db.WithContext(ctx).Model(role).Association("Permissions").Replace(perms)
}

// ReplaceClientPermissions reconnects the role's client permission links wholesale.
func (r *repository) ReplaceClientPermissions(ctx context.Context, role *models.Role, perms []models.ClientPermission) error {
	return r.db.WithContext(ctx).Model(role).Association("ClientPermissions").Replace(perms)
}

func (r *repository) FindPermissionsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var perms []models.Permission
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *repository) FindClientPermissionsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ClientPermission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var perms []models.ClientPermission
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}
