// Package rbac holds the role/action permission matrix. It is the single
// source of truth for what each role may do: services consult it before
// mutating state, and the router derives its route guards from it.
package rbac

import "github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"

// Action is a gated operation name.
type Action string

const (
	ActionCreateOrder     Action = "create_order"
	ActionStartCooking    Action = "start_cooking" // covers start and mark_ready
	ActionCompleteOrder   Action = "complete_order"
	ActionCancelOrder     Action = "cancel_order"
	ActionDeleteOrder     Action = "delete_order"
	ActionManageMenu      Action = "manage_menu"
	ActionManageTables    Action = "manage_tables"
	ActionManageEmployees Action = "manage_employees"
	ActionViewOrders      Action = "view_orders"
)

// matrix lists the allowed (role, action) pairs. Every pair not present
// is denied — CanPerform is total over roles and actions.
var matrix = map[model.Role]map[Action]bool{
	model.RoleWaiter: {
		ActionCreateOrder:   true,
		ActionCompleteOrder: true,
		ActionCancelOrder:   true,
		ActionViewOrders:    true,
	},
	model.RoleChef: {
		ActionStartCooking: true,
		ActionViewOrders:   true,
	},
	model.RoleAdmin: {
		ActionCreateOrder:     true,
		ActionCompleteOrder:   true,
		ActionCancelOrder:     true,
		ActionDeleteOrder:     true,
		ActionManageMenu:      true,
		ActionManageTables:    true,
		ActionManageEmployees: true,
		ActionViewOrders:      true,
	},
}

// CanPerform reports whether role is allowed to perform action.
// Unknown roles and unknown actions are always denied.
func CanPerform(role model.Role, action Action) bool {
	return matrix[role][action]
}

// ActionForEvent maps a lifecycle event to the action gating it.
func ActionForEvent(event model.OrderEvent) Action {
	switch event {
	case model.EventStart, model.EventMarkReady:
		return ActionStartCooking
	case model.EventComplete:
		return ActionCompleteOrder
	case model.EventCancel:
		return ActionCancelOrder
	default:
		return Action("")
	}
}

// RolesFor returns every role allowed to perform action, in a stable
// order. The router uses it to build RequireRole guards from the matrix
// instead of repeating role lists by hand.
func RolesFor(action Action) []string {
	ordered := []model.Role{model.RoleWaiter, model.RoleChef, model.RoleAdmin}
	var roles []string
	for _, r := range ordered {
		if matrix[r][action] {
			roles = append(roles, string(r))
		}
	}
	return roles
}
