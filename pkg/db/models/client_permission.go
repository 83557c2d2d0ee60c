package models

import (
	"time"

	"github.com/google/uuid"
)

// ClientPermission controls navigation-menu visibility for the SPA, distinct
// from the API-level Permission. Menu is a category key: "hidden", "profile",
// "normal", or a named group that becomes a parent menu entry.
type ClientPermission struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Menu      string    `gorm:"type:text;not null" json:"menu"`
	Path      string    `gorm:"type:text;not null;uniqueIndex" json:"path"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Sort      int       `gorm:"not null;default:0" json:"sort"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
