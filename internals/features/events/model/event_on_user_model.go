package model

import (
	"time"

	"github.com/google/uuid"
)

// EventOnUser marks a user as participating in an event. Created lazily on
// the first confirmed seat, never earlier.
type EventOnUser struct {
	EventOnUserUserID  uuid.UUID `gorm:"column:event_on_user_user_id;type:uuid;primaryKey" json:"event_on_user_user_id"`
	EventOnUserEventID uuid.UUID `gorm:"column:event_on_user_event_id;type:uuid;primaryKey" json:"event_on_user_event_id"`

	CreatedAt time.Time `gorm:"column:event_on_user_created_at;autoCreateTime" json:"event_on_user_created_at"`
}

func (EventOnUser) TableName() string { return "event_on_users" }
