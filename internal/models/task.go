package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus определяет статусы задачи
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TaskPriority определяет приоритеты задачи
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task представляет задачу
type Task struct {
	ID                uuid.UUID    `json:"id" gorm:"type:text;primary_key"`
	Title             string       `json:"title" gorm:"not null"`
	Description       string       `json:"description"`
	Status            TaskStatus   `json:"status" gorm:"default:'pending'"`
	Priority          TaskPriority `json:"priority" gorm:"default:'medium'"`
	Progress          int          `json:"progress" gorm:"default:0"` // 0-100
	LoggedTimeMinutes int          `json:"logged_time_minutes" gorm:"default:0"`
	RequiresFile      bool         `json:"requires_file" gorm:"default:false"`
	DueDate           *time.Time   `json:"due_date,omitempty"`

	CreatorID  uuid.UUID  `json:"creator_id" gorm:"type:text;not null"`
	AssigneeID *uuid.UUID `json:"assignee_id,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Связи
	Creator   User       `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	Assignee  *User      `json:"assignee,omitempty" gorm:"foreignKey:AssigneeID"`
	Grades    []Grade    `json:"grades,omitempty" gorm:"foreignKey:TaskID"`
	Resources []Resource `json:"resources,omitempty" gorm:"foreignKey:TaskID"`
	Comments  []Comment  `json:"comments,omitempty" gorm:"foreignKey:TaskID"`
}

// Grade представляет оценку завершенной задачи
type Grade struct {
	ID       uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	TaskID   uuid.UUID `json:"task_id" gorm:"type:text;not null;index"`
	GraderID uuid.UUID `json:"grader_id" gorm:"type:text;not null"`
	Score    int       `json:"score" gorm:"not null"` // 0-100
	Note     string    `json:"note"`

	CreatedAt time.Time `json:"created_at"`

	// Связи
	Grader User `json:"grader,omitempty" gorm:"foreignKey:GraderID"`
}

// ResourceKind определяет типы ресурсов задачи
type ResourceKind string

const (
	ResourceLink  ResourceKind = "link"
	ResourcePDF   ResourceKind = "pdf"
	ResourceImage ResourceKind = "image"
	ResourceVideo ResourceKind = "video"
	ResourceOther ResourceKind = "other"
)

// ResourceKindFromMime определяет тип ресурса по MIME-типу файла.
func ResourceKindFromMime(mimeType string) ResourceKind {
	switch {
	case mimeType == "application/pdf":
		return ResourcePDF
	case strings.HasPrefix(mimeType, "image/"):
		return ResourceImage
	case strings.HasPrefix(mimeType, "video/"):
		return ResourceVideo
	}
	return ResourceOther
}

// Resource представляет прикрепленный к задаче ресурс (ссылка или файл)
type Resource struct {
	ID       uuid.UUID    `json:"id" gorm:"type:text;primary_key"`
	TaskID   uuid.UUID    `json:"task_id" gorm:"type:text;not null;index"`
	Kind     ResourceKind `json:"kind" gorm:"not null"`
	Name     string       `json:"name" gorm:"not null"`
	URL      string       `json:"url" gorm:"not null"` // внешняя ссылка или путь в хранилище
	Size     int64        `json:"size,omitempty"`
	MimeType string       `json:"mime_type,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Pin представляет закладку пользователя на задачу
type Pin struct {
	ID     uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	UserID uuid.UUID `json:"user_id" gorm:"type:text;not null;uniqueIndex:idx_pin_user_task"`
	TaskID uuid.UUID `json:"task_id" gorm:"type:text;not null;uniqueIndex:idx_pin_user_task"`

	CreatedAt time.Time `json:"created_at"`
}
