package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType определяет типы уведомлений
type NotificationType string

const (
	NotificationGradeReceived NotificationType = "grade_received"
	NotificationMentioned     NotificationType = "mentioned"
	NotificationTaskAssigned  NotificationType = "task_assigned"
)

// Notification представляет событие, о котором следует уведомить пользователя.
// Доставка выполняется внешними системами; ядро только фиксирует событие.
type Notification struct {
	ID      uuid.UUID        `json:"id" gorm:"type:text;primary_key"`
	UserID  uuid.UUID        `json:"user_id" gorm:"type:text;not null;index"`
	Type    NotificationType `json:"type" gorm:"not null"`
	Message string           `json:"message" gorm:"not null"`
	Payload string           `json:"payload,omitempty"` // JSON со ссылками на сущности
	Read    bool             `json:"read" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
}
