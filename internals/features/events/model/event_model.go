package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Event struct {
	EventID uuid.UUID `gorm:"column:event_id;type:uuid;default:gen_random_uuid();primaryKey" json:"event_id"`

	EventName      string    `gorm:"column:event_name;not null" json:"event_name"`
	EventType      *string   `gorm:"column:event_type" json:"event_type,omitempty"`
	EventStartDate time.Time `gorm:"column:event_start_date;not null" json:"event_start_date"`
	EventEndDate   time.Time `gorm:"column:event_end_date;not null" json:"event_end_date"`
	EventIsActive  bool      `gorm:"column:event_is_active;not null;default:true" json:"event_is_active"`
	EventGroupLink *string   `gorm:"column:event_group_link" json:"event_group_link,omitempty"`

	// Free-form presentation blob (venue, cover image url, etc).
	EventData datatypes.JSONMap `gorm:"column:event_data;type:jsonb" json:"event_data,omitempty"`

	CreatedAt time.Time `gorm:"column:event_created_at;autoCreateTime" json:"event_created_at"`
	UpdatedAt time.Time `gorm:"column:event_updated_at;autoUpdateTime" json:"event_updated_at"`

	GroupRoles []GroupRole `gorm:"foreignKey:GroupRoleEventID;references:EventID" json:"group_roles,omitempty"`
}

func (Event) TableName() string { return "events" }
