package model

import (
	"time"

	"github.com/google/uuid"
)

// GroupRole is a capacity-bounded group of roles inside an event.
// A nil capacity means unlimited seats.
type GroupRole struct {
	GroupRoleID uuid.UUID `gorm:"column:group_role_id;type:uuid;default:gen_random_uuid();primaryKey" json:"group_role_id"`

	GroupRoleEventID  uuid.UUID `gorm:"column:group_role_event_id;type:uuid;not null;index" json:"group_role_event_id"`
	GroupRoleName     string    `gorm:"column:group_role_name;not null" json:"group_role_name"`
	GroupRoleCapacity *int      `gorm:"column:group_role_capacity" json:"group_role_capacity,omitempty"`

	CreatedAt time.Time `gorm:"column:group_role_created_at;autoCreateTime" json:"group_role_created_at"`
	UpdatedAt time.Time `gorm:"column:group_role_updated_at;autoUpdateTime" json:"group_role_updated_at"`

	Roles []RoleRegistration `gorm:"foreignKey:RoleGroupID;references:GroupRoleID" json:"roles,omitempty"`
}

func (GroupRole) TableName() string { return "group_roles" }

// HasSeatFor reports whether one more seat fits under the capacity.
func (g *GroupRole) HasSeatFor(taken int64) bool {
	return g.GroupRoleCapacity == nil || taken < int64(*g.GroupRoleCapacity)
}
