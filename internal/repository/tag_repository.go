package repository

import (
	"taskassistant/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TagRepository interface {
	// Цветовые этикетки
	CreateColor(tag *models.ColorTag) error
	GetAllColors() ([]models.ColorTag, error)
	ColorExists(id uuid.UUID) (bool, error)
	DeleteColor(id uuid.UUID) (int64, error)

	// Этикетки-ключевые слова
	CreateKeyword(tag *models.KeywordTag) error
	GetAllKeywords() ([]models.KeywordTag, error)
	KeywordExists(id uuid.UUID) (bool, error)
	DeleteKeyword(id uuid.UUID) (int64, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) CreateColor(tag *models.ColorTag) error {
	return r.db.Create(tag).Error
}

func (r *tagRepository) GetAllColors() ([]models.ColorTag, error) {
	var tags []models.ColorTag
	err := r.db.Order("created_at ASC").Find(&tags).Error
	return tags, err
}

func (r *tagRepository) ColorExists(id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.ColorTag{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// DeleteColor удаляет этикетку из справочника вместе с ее вязками к задачам.
func (r *tagRepository) DeleteColor(id uuid.UUID) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ? AND kind = ?", id, models.TagColor).
			Delete(&models.TagLink{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.ColorTag{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	return affected, err
}

func (r *tagRepository) CreateKeyword(tag *models.KeywordTag) error {
	return r.db.Create(tag).Error
}

func (r *tagRepository) GetAllKeywords() ([]models.KeywordTag, error) {
	var tags []models.KeywordTag
	err := r.db.Order("created_at ASC").Find(&tags).Error
	return tags, err
}

func (r *tagRepository) KeywordExists(id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.KeywordTag{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *tagRepository) DeleteKeyword(id uuid.UUID) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ? AND kind = ?", id, models.TagKeyword).
			Delete(&models.TagLink{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.KeywordTag{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	return affected, err
}
