package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	eventModel "eventku_backend/internals/features/events/model"
)

type RoleRequest struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Description string     `json:"description" validate:"required"`
	Price       int        `json:"price" validate:"gte=0"`
}

type GroupRoleRequest struct {
	ID       *uuid.UUID    `json:"id,omitempty"`
	Name     string        `json:"name" validate:"required"`
	Capacity *int          `json:"capacity,omitempty" validate:"omitempty,gte=0"`
	Roles    []RoleRequest `json:"roles" validate:"dive"`
}

type EventRequest struct {
	Name       string             `json:"name" validate:"required"`
	Type       *string            `json:"type,omitempty"`
	StartDate  time.Time          `json:"start_date" validate:"required"`
	EndDate    time.Time          `json:"end_date" validate:"required"`
	IsActive   bool               `json:"is_active"`
	GroupLink  *string            `json:"group_link,omitempty"`
	Data       datatypes.JSONMap  `json:"data,omitempty"`
	GroupRoles []GroupRoleRequest `json:"group_roles" validate:"dive"`
}

func (r *EventRequest) ToModel() *eventModel.Event {
	event := &eventModel.Event{
		EventName:      r.Name,
		EventType:      r.Type,
		EventStartDate: r.StartDate,
		EventEndDate:   r.EndDate,
		EventIsActive:  r.IsActive,
		EventGroupLink: r.GroupLink,
		EventData:      r.Data,
	}
	for _, g := range r.GroupRoles {
		group := eventModel.GroupRole{
			GroupRoleName:     g.Name,
			GroupRoleCapacity: g.Capacity,
		}
		for _, role := range g.Roles {
			group.Roles = append(group.Roles, eventModel.RoleRegistration{
				RoleDescription: role.Description,
				RolePrice:       role.Price,
			})
		}
		event.GroupRoles = append(event.GroupRoles, group)
	}
	return event
}

/* ===================== Responses ===================== */

type RoleDetail struct {
	RoleID      uuid.UUID `json:"role_id"`
	Description string    `json:"description"`
	Price       int       `json:"price"`
	Registered  int64     `json:"registered"`
}

type GroupRoleDetail struct {
	GroupRoleID uuid.UUID    `json:"group_role_id"`
	Name        string       `json:"name"`
	Capacity    *int         `json:"capacity,omitempty"`
	Roles       []RoleDetail `json:"roles"`
}

type EventDetail struct {
	EventID    uuid.UUID         `json:"event_id"`
	Name       string            `json:"name"`
	Type       *string           `json:"type,omitempty"`
	StartDate  time.Time         `json:"start_date"`
	EndDate    time.Time         `json:"end_date"`
	IsActive   bool              `json:"is_active"`
	GroupLink  *string           `json:"group_link,omitempty"`
	Data       datatypes.JSONMap `json:"data,omitempty"`
	GroupRoles []GroupRoleDetail `json:"group_roles"`
}

func NewEventDetail(e *eventModel.Event, registeredByRole map[uuid.UUID]int64) *EventDetail {
	detail := &EventDetail{
		EventID:   e.EventID,
		Name:      e.EventName,
		Type:      e.EventType,
		StartDate: e.EventStartDate,
		EndDate:   e.EventEndDate,
		IsActive:  e.EventIsActive,
		GroupLink: e.EventGroupLink,
		Data:      e.EventData,
	}
	for _, g := range e.GroupRoles {
		group := GroupRoleDetail{
			GroupRoleID: g.GroupRoleID,
			Name:        g.GroupRoleName,
			Capacity:    g.GroupRoleCapacity,
		}
		for _, role := range g.Roles {
			group.Roles = append(group.Roles, RoleDetail{
				RoleID:      role.RoleID,
				Description: role.RoleDescription,
				Price:       role.RolePrice,
				Registered:  registeredByRole[role.RoleID],
			})
		}
		detail.GroupRoles = append(detail.GroupRoles, group)
	}
	return detail
}

type EventSummary struct {
	EventID   uuid.UUID         `json:"event_id"`
	Name      string            `json:"name"`
	Type      *string           `json:"type,omitempty"`
	StartDate time.Time         `json:"start_date"`
	EndDate   time.Time         `json:"end_date"`
	IsActive  bool              `json:"is_active"`
	Data      datatypes.JSONMap `json:"data,omitempty"`
	Capacity  int               `json:"capacity"`
	Users     int64             `json:"users"`
	Waitlist  int64             `json:"waitlist"`
}

func NewEventSummary(e *eventModel.Event, users, waitlist int64) EventSummary {
	capacity := 0
	for _, g := range e.GroupRoles {
		if g.GroupRoleCapacity != nil {
			capacity += *g.GroupRoleCapacity
		}
	}
	return EventSummary{
		EventID:   e.EventID,
		Name:      e.EventName,
		Type:      e.EventType,
		StartDate: e.EventStartDate,
		EndDate:   e.EventEndDate,
		IsActive:  e.EventIsActive,
		Data:      e.EventData,
		Capacity:  capacity,
		Users:     users,
		Waitlist:  waitlist,
	}
}
