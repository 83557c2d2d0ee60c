package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/staffhubhq/staffhub-backend/pkg/enums"
)

// TimeOff is a user's time-off request. Reason conventionally carries the
// shift-type name applied to the schedule on approval.
type TimeOff struct {
	ID        uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	User      *User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	StartDate time.Time           `gorm:"column:start_date;type:date;not null" json:"startDate"`
	EndDate   time.Time           `gorm:"column:end_date;type:date;not null" json:"endDate"`
	Reason    string              `gorm:"type:text;not null" json:"reason"`
	Status    enums.TimeOffStatus `gorm:"type:text;not null;default:'pending';index" json:"status"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
