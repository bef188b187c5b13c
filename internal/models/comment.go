package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment представляет комментарий к задаче
type Comment struct {
	ID       uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	TaskID   uuid.UUID `json:"task_id" gorm:"type:text;not null;index"`
	AuthorID uuid.UUID `json:"author_id" gorm:"type:text;not null"`
	Content  string    `json:"content" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`

	// Связи
	Author   User      `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Mentions []Mention `json:"mentions,omitempty" gorm:"foreignKey:CommentID"`
}

// Mention представляет упоминание пользователя в комментарии
type Mention struct {
	ID              uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	CommentID       uuid.UUID `json:"comment_id" gorm:"type:text;not null;index"`
	MentionedUserID uuid.UUID `json:"mentioned_user_id" gorm:"type:text;not null"`

	CreatedAt time.Time `json:"created_at"`
}
