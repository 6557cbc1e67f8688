package rbac

import (
	"testing"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestCanPerform(t *testing.T) {
	cases := []struct {
		role    model.Role
		action  Action
		allowed bool
	}{
		{model.RoleWaiter, ActionCreateOrder, true},
		{model.RoleWaiter, ActionCompleteOrder, true},
		{model.RoleWaiter, ActionCancelOrder, true},
		{model.RoleWaiter, ActionViewOrders, true},
		{model.RoleWaiter, ActionStartCooking, false},
		{model.RoleWaiter, ActionDeleteOrder, false},
		{model.RoleWaiter, ActionManageMenu, false},
		{model.RoleWaiter, ActionManageTables, false},
		{model.RoleWaiter, ActionManageEmployees, false},

		{model.RoleChef, ActionStartCooking, true},
		{model.RoleChef, ActionViewOrders, true},
		{model.RoleChef, ActionCreateOrder, false},
		{model.RoleChef, ActionCompleteOrder, false},
		{model.RoleChef, ActionCancelOrder, false},
		{model.RoleChef, ActionDeleteOrder, false},
		{model.RoleChef, ActionManageMenu, false},

		{model.RoleAdmin, ActionCreateOrder, true},
		{model.RoleAdmin, ActionCompleteOrder, true},
		{model.RoleAdmin, ActionCancelOrder, true},
		{model.RoleAdmin, ActionDeleteOrder, true},
		{model.RoleAdmin, ActionManageMenu, true},
		{model.RoleAdmin, ActionManageTables, true},
		{model.RoleAdmin, ActionManageEmployees, true},
		{model.RoleAdmin, ActionViewOrders, true},
		{model.RoleAdmin, ActionStartCooking, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanPerform(tc.role, tc.action), "%s / %s", tc.role, tc.action)
	}
}

func TestCanPerformUnknown(t *testing.T) {
	assert.False(t, CanPerform(model.Role("guest"), ActionViewOrders))
	assert.False(t, CanPerform(model.RoleAdmin, Action("fly")))
}

func TestActionForEvent(t *testing.T) {
	assert.Equal(t, ActionStartCooking, ActionForEvent(model.EventStart))
	assert.Equal(t, ActionStartCooking, ActionForEvent(model.EventMarkReady))
	assert.Equal(t, ActionCompleteOrder, ActionForEvent(model.EventComplete))
	assert.Equal(t, ActionCancelOrder, ActionForEvent(model.EventCancel))
	assert.Equal(t, Action(""), ActionForEvent(model.OrderEvent("explode")))
}

func TestRolesFor(t *testing.T) {
	assert.Equal(t, []string{"waiter", "admin"}, RolesFor(ActionCreateOrder))
	assert.Equal(t, []string{"chef"}, RolesFor(ActionStartCooking))
	assert.Equal(t, []string{"admin"}, RolesFor(ActionDeleteOrder))
	assert.Equal(t, []string{"waiter", "chef", "admin"}, RolesFor(ActionViewOrders))
}
