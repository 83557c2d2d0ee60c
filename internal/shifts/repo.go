package shifts

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
)

// Repository exposes shift persistence operations.
type Repository interface {
	Create(ctx context.Context, shift *models.Shift) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shift, error)
	FindByName(ctx context.Context, name string) (*models.Shift, error)
	List(ctx context.Context) ([]models.Shift, error)
	Update(ctx context.Context, shift *models.Shift) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to shift operations.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, shift *models.Shift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shift, error) {
	var shift models.Shift
	if err := r.db.WithContext(ctx).First(&shift, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *repository) FindByName(ctx context.Context, name string) (*models.Shift, error) {
	var shift models.Shift
	if err := r.db.WithContext(ctx).
		Where("lower(name) = lower(?)", strings.TrimSpace(name)).
		First(&shift).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *repository) List(ctx context.Context) ([]models.Shift, error) {
	var shifts []models.Shift
	if err := r.db.WithContext(ctx).Order("name asc").Find(&shifts).Error; err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *repository) Update(ctx context.Context, shift *models.Shift) error {
	return r.db.WithContext(ctx).Save(shift).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Shift{}, "id = ?", id).Error
}
