package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
)

// Repository exposes schedule persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	DistinctDates(ctx context.Context, teamID *uuid.UUID) ([]time.Time, error)
	ListBetween(ctx context.Context, first, last time.Time, teamID *uuid.UUID) ([]models.ScheduleEntry, error)
	FindEntry(ctx context.Context, id uuid.UUID) (*models.ScheduleEntry, error)
	Upsert(ctx context.Context, entry *models.ScheduleEntry) error
	UpdateShift(ctx context.Context, id, shiftID uuid.UUID) error
	RepointRangeWithTx(tx *gorm.DB, userID, shiftID uuid.UUID, start, end time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to schedule operations.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// DistinctDates returns every date carrying at least one schedule entry,
// ascending.
func (r *repository) DistinctDates(ctx context.Context, teamID *uuid.UUID) ([]time.Time, error) {
	tx := r.db.WithContext(ctx).
		Model(&models.ScheduleEntry{}).
		Distinct("date").
		Order("date asc")
	if teamID != nil {
		tx = tx.Joins("JOIN users ON users.id = schedule_entries.user_id").
			Where("users.team_id = ?", *teamID)
	}

	var dates []time.Time
	if err := tx.Pluck("date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

func (r *repository) ListBetween(ctx context.Context, first, last time.Time, teamID *uuid.UUID) ([]models.ScheduleEntry, error) {
	tx := r.db.WithContext(ctx).
		Preload("User").
		Preload("User.Team").
		Preload("Shift").
		Where("date BETWEEN ? AND ?", first, last).
		Order("date asc")
	if teamID != nil {
		tx = tx.Joins("JOIN users ON users.id = schedule_entries.user_id").
			Where("users.team_id = ?", *teamID)
	}

	var entries []models.ScheduleEntry
	if err := tx.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) FindEntry(ctx context.Context, id uuid.UUID) (*models.ScheduleEntry, error) {
	var entry models.ScheduleEntry
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Shift").
		First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Upsert inserts the entry, or repoints the shift when the user already has
// an entry on that date.
func (r *repository) Upsert(ctx context.Context, entry *models.ScheduleEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"shift_id", "updated_at"}),
		}).
		Create(entry).Error
}

func (r *repository) UpdateShift(ctx context.Context, id, shiftID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.ScheduleEntry{}).
		Where("id = ?", id).
		UpdateColumn("shift_id", shiftID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RepointRangeWithTx moves every entry of the user inside [start, end] to the
// provided shift, using the caller's transaction.
func (r *repository) RepointRangeWithTx(tx *gorm.DB, userID, shiftID uuid.UUID, start, end time.Time) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.
		Model(&models.ScheduleEntry{}).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, end).
		UpdateColumn("shift_id", shiftID).Error
}
