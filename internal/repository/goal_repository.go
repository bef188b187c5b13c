package repository

import (
	"taskassistant/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GoalRepository interface {
	Create(goal *models.Goal) error
	GetByID(id uuid.UUID) (*models.Goal, error)
	GetAll() ([]models.Goal, error)
	Delete(id uuid.UUID) (int64, error)

	CreateLink(link *models.GoalTaskLink) error
	DeleteLink(goalID, taskID uuid.UUID) (int64, error)
}

type goalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *models.Goal) error {
	return r.db.Create(goal).Error
}

func (r *goalRepository) GetByID(id uuid.UUID) (*models.Goal, error) {
	var goal models.Goal
	err := r.db.Preload("TaskLinks").Preload("TaskLinks.Task").
		Where("id = ?", id).First(&goal).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *goalRepository) GetAll() ([]models.Goal, error) {
	var goals []models.Goal
	err := r.db.Preload("TaskLinks").Preload("TaskLinks.Task").
		Order("created_at DESC").Find(&goals).Error
	return goals, err
}

// Delete удаляет цель вместе с вязками задач.
func (r *goalRepository) Delete(id uuid.UUID) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goal_id = ?", id).Delete(&models.GoalTaskLink{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Goal{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	return affected, err
}

func (r *goalRepository) CreateLink(link *models.GoalTaskLink) error {
	return r.db.Create(link).Error
}

func (r *goalRepository) DeleteLink(goalID, taskID uuid.UUID) (int64, error) {
	result := r.db.Where("goal_id = ? AND task_id = ?", goalID, taskID).
		Delete(&models.GoalTaskLink{})
	return result.RowsAffected, result.Error
}
