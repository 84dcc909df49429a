package service

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "eventku_backend/internals/features/events/dto"
	eventModel "eventku_backend/internals/features/events/model"
)

type EventService struct {
	DB *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{DB: db}
}

// CreateEvent persists an event together with its nested groups and roles.
func (s *EventService) CreateEvent(ctx context.Context, req *dto.EventRequest) (*eventModel.Event, error) {
	event := req.ToModel()
	if err := s.DB.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

// UpdateEvent reconciles groups and roles against the stored set. Groups and
// roles with seated users cannot be removed, and a group's capacity cannot
// drop below its current usage.
func (s *EventService) UpdateEvent(ctx context.Context, eventID uuid.UUID, req *dto.EventRequest) (*eventModel.Event, error) {
	var event eventModel.Event
	if err := s.DB.WithContext(ctx).Preload("GroupRoles.Roles").
		First(&event, "event_id = ?", eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "Event does not exist")
		}
		return nil, err
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&eventModel.Event{}).
			Where("event_id = ?", eventID).
			Updates(map[string]interface{}{
				"event_name":       req.Name,
				"event_type":       req.Type,
				"event_start_date": req.StartDate,
				"event_end_date":   req.EndDate,
				"event_is_active":  req.IsActive,
				"event_group_link": req.GroupLink,
				"event_data":       req.Data,
			}).Error; err != nil {
			return err
		}

		if len(req.GroupRoles) == 0 {
			return nil
		}

		incomingGroups := make(map[uuid.UUID]dto.GroupRoleRequest)
		for _, g := range req.GroupRoles {
			if g.ID != nil {
				incomingGroups[*g.ID] = g
			}
		}

		// Remove absent groups, refusing when seats are taken.
		for _, group := range event.GroupRoles {
			if _, keep := incomingGroups[group.GroupRoleID]; keep {
				continue
			}
			taken, err := s.groupUsageTx(tx, group.GroupRoleID, eventID)
			if err != nil {
				return err
			}
			if taken > 0 {
				return fiber.NewError(fiber.StatusBadRequest,
					"Group \""+group.GroupRoleName+"\" has registered users and cannot be removed")
			}
			if err := tx.Where("role_group_id = ?", group.GroupRoleID).
				Delete(&eventModel.RoleRegistration{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&group).Error; err != nil {
				return err
			}
		}

		storedGroups := make(map[uuid.UUID]eventModel.GroupRole)
		for _, g := range event.GroupRoles {
			storedGroups[g.GroupRoleID] = g
		}

		for _, group := range req.GroupRoles {
			groupID, err := s.upsertGroupTx(tx, eventID, group, storedGroups)
			if err != nil {
				return err
			}
			if err := s.reconcileRolesTx(tx, groupID, group, storedGroups); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var updated eventModel.Event
	if err := s.DB.WithContext(ctx).Preload("GroupRoles.Roles").
		First(&updated, "event_id = ?", eventID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *EventService) upsertGroupTx(tx *gorm.DB, eventID uuid.UUID, group dto.GroupRoleRequest, stored map[uuid.UUID]eventModel.GroupRole) (uuid.UUID, error) {
	if group.ID != nil {
		if _, ok := stored[*group.ID]; ok {
			taken, err := s.groupUsageTx(tx, *group.ID, eventID)
			if err != nil {
				return uuid.Nil, err
			}
			if group.Capacity != nil && int64(*group.Capacity) < taken {
				return uuid.Nil, fiber.NewError(fiber.StatusBadRequest,
					"Capacity of group \""+group.Name+"\" cannot drop below current usage")
			}
			return *group.ID, tx.Model(&eventModel.GroupRole{}).
				Where("group_role_id = ?", *group.ID).
				Updates(map[string]interface{}{
					"group_role_name":     group.Name,
					"group_role_capacity": group.Capacity,
				}).Error
		}
	}

	created := eventModel.GroupRole{
		GroupRoleEventID:  eventID,
		GroupRoleName:     group.Name,
		GroupRoleCapacity: group.Capacity,
	}
	if err := tx.Create(&created).Error; err != nil {
		return uuid.Nil, err
	}
	return created.GroupRoleID, nil
}

func (s *EventService) reconcileRolesTx(tx *gorm.DB, groupID uuid.UUID, group dto.GroupRoleRequest, stored map[uuid.UUID]eventModel.GroupRole) error {
	var storedRoles []eventModel.RoleRegistration
	if g, ok := stored[groupID]; ok {
		storedRoles = g.Roles
	}

	incomingRoles := make(map[uuid.UUID]struct{})
	for _, r := range group.Roles {
		if r.ID != nil {
			incomingRoles[*r.ID] = struct{}{}
		}
	}

	for _, role := range storedRoles {
		if _, keep := incomingRoles[role.RoleID]; keep {
			continue
		}
		var seats int64
		if err := tx.Model(&eventModel.EventUserRole{}).
			Where("event_user_role_role_id = ?", role.RoleID).
			Count(&seats).Error; err != nil {
			return err
		}
		if seats > 0 {
			return fiber.NewError(fiber.StatusBadRequest,
				"Role \""+role.RoleDescription+"\" already has users and cannot be removed")
		}
		if err := tx.Delete(&role).Error; err != nil {
			return err
		}
	}

	for _, role := range group.Roles {
		if role.ID != nil {
			if err := tx.Model(&eventModel.RoleRegistration{}).
				Where("role_id = ?", *role.ID).
				Updates(map[string]interface{}{
					"role_description": role.Description,
					"role_price":       role.Price,
				}).Error; err != nil {
				return err
			}
			continue
		}
		if err := tx.Create(&eventModel.RoleRegistration{
			RoleGroupID:     groupID,
			RoleDescription: role.Description,
			RolePrice:       role.Price,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *EventService) groupUsageTx(tx *gorm.DB, groupID, eventID uuid.UUID) (int64, error) {
	var taken int64
	err := tx.Model(&eventModel.EventUserRole{}).
		Joins("JOIN roles_registration r ON r.role_id = event_user_roles.event_user_role_role_id").
		Where("r.role_group_id = ? AND event_user_role_event_id = ?", groupID, eventID).
		Count(&taken).Error
	return taken, err
}

// FindOne loads an event with per-role registration counts.
func (s *EventService) FindOne(ctx context.Context, eventID uuid.UUID) (*dto.EventDetail, error) {
	var event eventModel.Event
	if err := s.DB.WithContext(ctx).Preload("GroupRoles.Roles").
		First(&event, "event_id = ?", eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "Event does not exist")
		}
		return nil, err
	}

	type roleCount struct {
		RoleID uuid.UUID
		Total  int64
	}
	var counts []roleCount
	if err := s.DB.WithContext(ctx).Model(&eventModel.EventUserRole{}).
		Select("event_user_role_role_id AS role_id, COUNT(*) AS total").
		Where("event_user_role_event_id = ?", eventID).
		Group("event_user_role_role_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	byRole := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		byRole[c.RoleID] = c.Total
	}
	return dto.NewEventDetail(&event, byRole), nil
}

// FindAll lists events with registration/waitlist summary counts.
func (s *EventService) FindAll(ctx context.Context, name string) ([]dto.EventSummary, error) {
	var events []eventModel.Event
	q := s.DB.WithContext(ctx).Preload("GroupRoles")
	if name != "" {
		q = q.Where("event_name ILIKE ?", "%"+name+"%")
	}
	if err := q.Order("event_start_date DESC").Find(&events).Error; err != nil {
		return nil, err
	}

	out := make([]dto.EventSummary, 0, len(events))
	for i := range events {
		var users, waitlist int64
		if err := s.DB.WithContext(ctx).Model(&eventModel.EventOnUser{}).
			Where("event_on_user_event_id = ?", events[i].EventID).
			Count(&users).Error; err != nil {
			return nil, err
		}
		if err := s.DB.WithContext(ctx).Model(&eventModel.WaitlistEntry{}).
			Where("waitlist_event_id = ?", events[i].EventID).
			Count(&waitlist).Error; err != nil {
			return nil, err
		}
		out = append(out, dto.NewEventSummary(&events[i], users, waitlist))
	}
	return out, nil
}

// FindWaitlist lists waitlist entries of an event with their role data.
func (s *EventService) FindWaitlist(ctx context.Context, eventID uuid.UUID) ([]eventModel.WaitlistEntry, error) {
	var entries []eventModel.WaitlistEntry
	if err := s.DB.WithContext(ctx).Preload("Role.Group").
		Where("waitlist_event_id = ?", eventID).
		Order("waitlist_created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
