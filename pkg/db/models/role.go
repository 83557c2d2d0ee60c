package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/staffhubhq/staffhub-backend/pkg/enums"
)

// Role is a named permission bundle. Type is derived from Name at write time
// and acts as the stable discriminator (e.g. SUPER_ADMIN).
type Role struct {
	ID                uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name              string             `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Type              enums.RoleType     `gorm:"type:text;not null;index" json:"type"`
	Permissions       []Permission       `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
	ClientPermissions []ClientPermission `gorm:"many2many:role_client_permissions" json:"clientPermissions,omitempty"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
