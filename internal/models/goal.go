package models

import (
	"time"

	"github.com/google/uuid"
)

// Goal представляет цель, группирующую задачи
type Goal struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Связи
	TaskLinks []GoalTaskLink `json:"task_links,omitempty" gorm:"foreignKey:GoalID"`
}

// GoalTaskLink связывает задачу с целью
type GoalTaskLink struct {
	ID     uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	GoalID uuid.UUID `json:"goal_id" gorm:"type:text;not null;uniqueIndex:idx_goal_task"`
	TaskID uuid.UUID `json:"task_id" gorm:"type:text;not null;uniqueIndex:idx_goal_task"`

	CreatedAt time.Time `json:"created_at"`

	// Связи
	Task Task `json:"task,omitempty" gorm:"foreignKey:TaskID"`
}
