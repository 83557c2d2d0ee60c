package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string     `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	FirstName    string     `gorm:"column:first_name;not null" json:"firstName"`
	LastName     string     `gorm:"column:last_name;not null" json:"lastName"`
	Confirmed    bool       `gorm:"column:confirmed;not null;default:false" json:"confirmed"`
	Blocked      bool       `gorm:"column:blocked;not null;default:false" json:"blocked"`
	RoleID       uuid.UUID  `gorm:"column:role_id;type:uuid;not null" json:"roleId"`
	Role         *Role      `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	TeamID       *uuid.UUID `gorm:"column:team_id;type:uuid" json:"teamId,omitempty"`
	Team         *Team      `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
