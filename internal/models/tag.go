package models

import (
	"time"

	"github.com/google/uuid"
)

// TagKind определяет виды этикеток
type TagKind string

const (
	TagColor   TagKind = "color"
	TagKeyword TagKind = "keyword"
)

// Valid reports whether k is one of the known tag kinds.
func (k TagKind) Valid() bool {
	return k == TagColor || k == TagKeyword
}

// ColorTag представляет цветовую этикетку из общего справочника
type ColorTag struct {
	ID    uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Color string    `json:"color" gorm:"uniqueIndex;not null"`

	CreatedAt time.Time `json:"created_at"`
}

// KeywordTag представляет этикетку-ключевое слово из общего справочника
type KeywordTag struct {
	ID   uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Word string    `json:"word" gorm:"uniqueIndex;not null"`

	CreatedAt time.Time `json:"created_at"`
}

// TagLink связывает этикетку из справочника с конкретной задачей
type TagLink struct {
	ID     uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	TaskID uuid.UUID `json:"task_id" gorm:"type:text;not null;uniqueIndex:idx_tag_link"`
	TagID  uuid.UUID `json:"tag_id" gorm:"type:text;not null;uniqueIndex:idx_tag_link"`
	Kind   TagKind   `json:"kind" gorm:"not null;uniqueIndex:idx_tag_link"`

	CreatedAt time.Time `json:"created_at"`
}
