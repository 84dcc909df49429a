package model

import (
	"time"

	"github.com/google/uuid"
)

// RoleRegistration is a purchasable variation inside a group.
// Price is stored in whole currency units; the gateway layer converts to cents.
type RoleRegistration struct {
	RoleID uuid.UUID `gorm:"column:role_id;type:uuid;default:gen_random_uuid();primaryKey" json:"role_id"`

	RoleGroupID     uuid.UUID `gorm:"column:role_group_id;type:uuid;not null;index" json:"role_group_id"`
	RoleDescription string    `gorm:"column:role_description;not null" json:"role_description"`
	RolePrice       int       `gorm:"column:role_price;not null;check:role_price >= 0" json:"role_price"`

	CreatedAt time.Time `gorm:"column:role_created_at;autoCreateTime" json:"role_created_at"`
	UpdatedAt time.Time `gorm:"column:role_updated_at;autoUpdateTime" json:"role_updated_at"`

	Group *GroupRole `gorm:"foreignKey:RoleGroupID;references:GroupRoleID" json:"group,omitempty"`
}

func (RoleRegistration) TableName() string { return "roles_registration" }
