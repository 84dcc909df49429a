package model

import (
	"time"

	"github.com/google/uuid"
)

// WaitlistEntry is the overflow record for a full group. Mutually exclusive
// with a confirmed seat for the same (user, event, role) triple.
type WaitlistEntry struct {
	WaitlistID uuid.UUID `gorm:"column:waitlist_id;type:uuid;default:gen_random_uuid();primaryKey" json:"waitlist_id"`

	WaitlistUserID  uuid.UUID `gorm:"column:waitlist_user_id;type:uuid;not null;uniqueIndex:uq_waitlist_entry,priority:1" json:"waitlist_user_id"`
	WaitlistEventID uuid.UUID `gorm:"column:waitlist_event_id;type:uuid;not null;uniqueIndex:uq_waitlist_entry,priority:2;index" json:"waitlist_event_id"`
	WaitlistRoleID  uuid.UUID `gorm:"column:waitlist_role_id;type:uuid;not null;uniqueIndex:uq_waitlist_entry,priority:3" json:"waitlist_role_id"`

	CreatedAt time.Time `gorm:"column:waitlist_created_at;autoCreateTime" json:"waitlist_created_at"`

	Role *RoleRegistration `gorm:"foreignKey:WaitlistRoleID;references:RoleID" json:"role,omitempty"`
}

func (WaitlistEntry) TableName() string { return "waitlist" }
