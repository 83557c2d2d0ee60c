package models

import (
	"time"

	"github.com/google/uuid"
)

// Shift is a named, timed, colored assignment type (work or absence).
type Shift struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null;uniqueIndex" json:"name"`
	StartTime string    `gorm:"column:start_time;type:text" json:"startTime"`
	EndTime   string    `gorm:"column:end_time;type:text" json:"endTime"`
	Color     string    `gorm:"type:text;not null;default:''" json:"color"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
