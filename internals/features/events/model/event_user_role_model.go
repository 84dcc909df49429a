package model

import (
	"time"

	"github.com/google/uuid"
)

// EventUserRole is a confirmed seat: one unit of a group's capacity,
// owner of exactly one payment.
type EventUserRole struct {
	EventUserRoleID uuid.UUID `gorm:"column:event_user_role_id;type:uuid;default:gen_random_uuid();primaryKey" json:"event_user_role_id"`

	EventUserRoleUserID  uuid.UUID `gorm:"column:event_user_role_user_id;type:uuid;not null;uniqueIndex:uq_event_user_role,priority:1" json:"event_user_role_user_id"`
	EventUserRoleEventID uuid.UUID `gorm:"column:event_user_role_event_id;type:uuid;not null;uniqueIndex:uq_event_user_role,priority:2;index" json:"event_user_role_event_id"`
	EventUserRoleRoleID  uuid.UUID `gorm:"column:event_user_role_role_id;type:uuid;not null;uniqueIndex:uq_event_user_role,priority:3;index" json:"event_user_role_role_id"`

	// Optional discount applied when the seat is settled.
	EventUserRoleDiscountID *uuid.UUID `gorm:"column:event_user_role_discount_id;type:uuid" json:"event_user_role_discount_id,omitempty"`

	CreatedAt time.Time `gorm:"column:event_user_role_created_at;autoCreateTime" json:"event_user_role_created_at"`

	Role     *RoleRegistration `gorm:"foreignKey:EventUserRoleRoleID;references:RoleID" json:"role,omitempty"`
	Discount *Discount         `gorm:"foreignKey:EventUserRoleDiscountID;references:DiscountID" json:"discount,omitempty"`
}

func (EventUserRole) TableName() string { return "event_user_roles" }
