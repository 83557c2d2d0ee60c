package models

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleEntry assigns a shift to a user on a calendar date. One entry per
// user per date.
type ScheduleEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_schedule_user_date" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_schedule_user_date" json:"date"`
	ShiftID   uuid.UUID `gorm:"column:shift_id;type:uuid;not null" json:"shiftId"`
	Shift     *Shift    `gorm:"foreignKey:ShiftID" json:"shift,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
