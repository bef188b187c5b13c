package models

import (
	"time"

	"github.com/google/uuid"
)

// Role определяет роли пользователей
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleLeadInstructor  Role = "lead_instructor"
	RoleGuestInstructor Role = "guest_instructor"
	RoleStudent         Role = "student"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLeadInstructor, RoleGuestInstructor, RoleStudent:
		return true
	}
	return false
}

// User представляет пользователя системы
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"` // bcrypt hash
	Name      string    `json:"name" gorm:"not null"`
	Role      Role      `json:"role" gorm:"default:'student'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Principal - аутентифицированный пользователь текущего запроса.
// Собирается из проверенного JWT и передается в сервисы явно.
type Principal struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  Role      `json:"role"`
}

// PrincipalFromUser строит Principal из записи пользователя.
func PrincipalFromUser(u *User) Principal {
	return Principal{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}
