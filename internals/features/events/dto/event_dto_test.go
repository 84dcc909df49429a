package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRequestToModel(t *testing.T) {
	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	capacity := 30

	req := EventRequest{
		Name:      "Retiro 2026",
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
		GroupRoles: []GroupRoleRequest{
			{
				Name:     "Participante",
				Capacity: &capacity,
				Roles: []RoleRequest{
					{Description: "Inteira", Price: 150},
					{Description: "Meia", Price: 75},
				},
			},
		},
	}

	event := req.ToModel()
	assert.Equal(t, "Retiro 2026", event.EventName)
	assert.Equal(t, start, event.EventStartDate)
	assert.Equal(t, end, event.EventEndDate)
	assert.True(t, event.EventIsActive)

	require.Len(t, event.GroupRoles, 1)
	group := event.GroupRoles[0]
	assert.Equal(t, "Participante", group.GroupRoleName)
	require.NotNil(t, group.GroupRoleCapacity)
	assert.Equal(t, 30, *group.GroupRoleCapacity)
	require.Len(t, group.Roles, 2)
	assert.Equal(t, "Inteira", group.Roles[0].RoleDescription)
	assert.Equal(t, 150, group.Roles[0].RolePrice)
}

func TestEventRequestToModelInactive(t *testing.T) {
	req := EventRequest{
		Name:      "Rascunho",
		StartDate: time.Now(),
		EndDate:   time.Now().Add(time.Hour),
		IsActive:  false,
	}

	event := req.ToModel()
	assert.False(t, event.EventIsActive, "create must honor is_active from the request")
}
