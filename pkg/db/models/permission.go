package models

import (
	"time"

	"github.com/google/uuid"
)

// Permission is an atomic (HTTP method, route template) authorization unit.
// Method is stored uppercase, route lowercase; the pair is unique together.
type Permission struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Method    string    `gorm:"type:text;not null;uniqueIndex:idx_permissions_method_route" json:"method"`
	Route     string    `gorm:"type:text;not null;uniqueIndex:idx_permissions_method_route" json:"route"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
