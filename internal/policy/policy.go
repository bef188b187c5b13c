// Package policy содержит статическую таблицу разрешений (роль, действие).
// Грубая проверка роли; проверка владения конкретной задачей выполняется
// в сервисах поверх этой таблицы.
package policy

import "taskassistant/internal/models"

// Action определяет действия, требующие проверки роли
type Action string

const (
	ActionCreateTask Action = "create_task"
	ActionUpdateTask Action = "update_task"
	ActionDeleteTask Action = "delete_task"
	ActionAssignTask Action = "assign_task"
	ActionGradeTask  Action = "grade_task"

	ActionCreateResource Action = "create_resource"
	ActionDeleteResource Action = "delete_resource"

	ActionManageTags  Action = "manage_tags"  // справочник этикеток
	ActionManageGoals Action = "manage_goals" // цели и их вязки с задачами
	ActionManageUsers Action = "manage_users"
)

// elevated - роли с правом на привилегированные действия.
// guest_instructor намеренно не входит в этот набор.
var elevated = map[models.Role]bool{
	models.RoleAdmin:          true,
	models.RoleLeadInstructor: true,
}

var table = map[Action]map[models.Role]bool{
	ActionCreateTask:     elevated,
	ActionUpdateTask:     elevated,
	ActionDeleteTask:     elevated,
	ActionAssignTask:     elevated,
	ActionGradeTask:      elevated,
	ActionCreateResource: elevated,
	ActionDeleteResource: elevated,
	ActionManageTags:     elevated,
	ActionManageGoals:    elevated,
	ActionManageUsers: {
		models.RoleAdmin: true,
	},
}

// Can сообщает, разрешено ли роли выполнять действие.
// Неизвестное действие запрещено для всех ролей.
func Can(role models.Role, action Action) bool {
	allowed, ok := table[action]
	if !ok {
		return false
	}
	return allowed[role]
}

// Roles возвращает список ролей, которым разрешено действие.
func Roles(action Action) []models.Role {
	var out []models.Role
	for _, r := range []models.Role{models.RoleAdmin, models.RoleLeadInstructor, models.RoleGuestInstructor, models.RoleStudent} {
		if Can(r, action) {
			out = append(out, r)
		}
	}
	return out
}
