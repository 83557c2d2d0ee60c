package timeoff

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
	"github.com/staffhubhq/staffhub-backend/pkg/enums"
)

// Repository exposes time-off persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.TimeOff) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.TimeOff, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TimeOff, error)
	ListAll(ctx context.Context, status *enums.TimeOffStatus) ([]models.TimeOff, error)
	FindOverlapping(ctx context.Context, userID uuid.UUID, start, end time.Time, exclude *uuid.UUID) ([]models.TimeOff, error)
	Update(ctx context.Context, request *models.TimeOff) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to time-off operations.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, request *models.TimeOff) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.TimeOff, error) {
	var request models.TimeOff
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TimeOff, error) {
	var requests []models.TimeOff
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date desc").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *repository) ListAll(ctx context.Context, status *enums.TimeOffStatus) ([]models.TimeOff, error) {
	tx := r.db.WithContext(ctx).
		Preload("User").
		Order("start_date desc")
	if status != nil {
		tx = tx.Where("status = ?", *status)
	}
	var requests []models.TimeOff
	if err := tx.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FindOverlapping returns the user's pending or approved requests whose date
// range intersects [start, end], bounds inclusive.
func (r *repository) FindOverlapping(ctx context.Context, userID uuid.UUID, start, end time.Time, exclude *uuid.UUID) ([]models.TimeOff, error) {
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("status IN ?", []enums.TimeOffStatus{enums.TimeOffPending, enums.TimeOffApproved}).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if exclude != nil {
		tx = tx.Where("id <> ?", *exclude)
	}
	var requests []models.TimeOff
	if err := tx.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *repository) Update(ctx context.Context, request *models.TimeOff) error {
	return r.db.WithContext(ctx).
		Omit("User").
		Save(request).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.TimeOff{}, "id = ?", id).Error
}
