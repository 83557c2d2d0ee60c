package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
	"github.com/staffhubhq/staffhub-backend/pkg/pagination"
)

// ListQuery filters and paginates the admin user listing.
type ListQuery struct {
	TeamID *uuid.UUID
	RoleID *uuid.UUID
	Limit  int
	After  *pagination.Cursor
}

// Repository exposes user persistence operations.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, query ListQuery) ([]models.User, *pagination.Cursor, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	CountByRoleType(ctx context.Context, roleType string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to user operations.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Team").
		First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Role.ClientPermissions").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]models.User, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(query.Limit)

	tx := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Team").
		Order("created_at desc, id desc").
		Limit(limit + 1)

	if query.TeamID != nil {
		tx = tx.Where("team_id = ?", *query.TeamID)
	}
	if query.RoleID != nil {
		tx = tx.Where("role_id = ?", *query.RoleID)
	}
	if query.After != nil {
		tx = tx.Where("(created_at, id) < (?, ?)", query.After.CreatedAt, query.After.ID)
	}

	var users []models.User
	if err := tx.Find(&users).Error; err != nil {
		return nil, nil, err
	}

	var next *pagination.Cursor
	if len(users) > limit {
		users = users[:limit]
		last := users[len(users)-1]
		next = &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return users, next, nil
}

func (r *repository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).
		Omit("Role", "Team").
		Save(user).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}

func (r *repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

func (r *repository) CountByRoleType(ctx context.Context, roleType string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.type = ?", roleType).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
