package repository

import (
	"taskassistant/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository interface {
	Create(task *models.Task) error
	GetByID(id uuid.UUID) (*models.Task, error)
	GetAll() ([]models.Task, error)
	GetVisibleTo(userID uuid.UUID) ([]models.Task, error)
	UpdateFields(id uuid.UUID, fields map[string]interface{}) error
	Delete(id uuid.UUID) error

	// Assignment / progress / time
	SetAssignee(id, assigneeID uuid.UUID) error
	SetProgress(id uuid.UUID, progress int, status models.TaskStatus) error
	IncrementLoggedTime(id uuid.UUID, minutes int) error

	// Grades
	CreateGrade(grade *models.Grade) error
	GetGradesByTaskID(taskID uuid.UUID) ([]models.Grade, error)

	// Resources
	CreateResource(resource *models.Resource) error
	GetResourcesByTaskID(taskID uuid.UUID) ([]models.Resource, error)
	DeleteResource(id uuid.UUID) (int64, error)

	// Pins
	CreatePin(pin *models.Pin) error
	DeletePin(userID, taskID uuid.UUID) (int64, error)
	GetPinsByUserID(userID uuid.UUID) ([]models.Pin, error)

	// Tag links
	CreateTagLink(link *models.TagLink) error
	DeleteTagLink(taskID, tagID uuid.UUID, kind models.TagKind) (int64, error)
	GetTagLinksByTaskID(taskID uuid.UUID) ([]models.TagLink, error)
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

func (r *taskRepository) GetByID(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.Preload("Creator").Preload("Assignee").
		Preload("Grades", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Grades.Grader").
		Preload("Resources").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Author").Preload("Comments.Mentions").
		Where("id = ?", id).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) GetAll() ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Preload("Creator").Preload("Assignee").
		Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) GetVisibleTo(userID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Preload("Creator").Preload("Assignee").
		Where("creator_id = ? OR assignee_id = ?", userID, userID).
		Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	return r.db.Model(&models.Task{}).Where("id = ?", id).Updates(fields).Error
}

// Delete удаляет задачу вместе с зависимыми записями в одной транзакции.
func (r *taskRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("task_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.Mention{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.Grade{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.Resource{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TagLink{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.GoalTaskLink{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.Pin{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, "id = ?", id).Error
	})
}

func (r *taskRepository) SetAssignee(id, assigneeID uuid.UUID) error {
	return r.db.Model(&models.Task{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"assignee_id": assigneeID,
			"progress":    0,
			"status":      models.StatusPending,
		}).Error
}

// SetProgress записывает прогресс и производный статус одним UPDATE,
// чтобы промежуточное состояние не было видно параллельным читателям.
func (r *taskRepository) SetProgress(id uuid.UUID, progress int, status models.TaskStatus) error {
	return r.db.Model(&models.Task{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"progress": progress,
			"status":   status,
		}).Error
}

// IncrementLoggedTime инкрементирует счетчик на стороне БД, а не через
// чтение-модификацию-запись, чтобы параллельные вызовы не теряли минуты.
func (r *taskRepository) IncrementLoggedTime(id uuid.UUID, minutes int) error {
	return r.db.Model(&models.Task{}).Where("id = ?", id).
		UpdateColumn("logged_time_minutes", gorm.Expr("logged_time_minutes + ?", minutes)).Error
}

// Grades

func (r *taskRepository) CreateGrade(grade *models.Grade) error {
	return r.db.Create(grade).Error
}

func (r *taskRepository) GetGradesByTaskID(taskID uuid.UUID) ([]models.Grade, error) {
	var grades []models.Grade
	err := r.db.Preload("Grader").
		Where("task_id = ?", taskID).
		Order("created_at DESC").Find(&grades).Error
	return grades, err
}

// Resources

func (r *taskRepository) CreateResource(resource *models.Resource) error {
	return r.db.Create(resource).Error
}

func (r *taskRepository) GetResourcesByTaskID(taskID uuid.UUID) ([]models.Resource, error) {
	var resources []models.Resource
	err := r.db.Where("task_id = ?", taskID).
		Order("created_at ASC").Find(&resources).Error
	return resources, err
}

func (r *taskRepository) DeleteResource(id uuid.UUID) (int64, error) {
	result := r.db.Delete(&models.Resource{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

// Pins

func (r *taskRepository) CreatePin(pin *models.Pin) error {
	return r.db.Create(pin).Error
}

func (r *taskRepository) DeletePin(userID, taskID uuid.UUID) (int64, error) {
	result := r.db.Where("user_id = ? AND task_id = ?", userID, taskID).Delete(&models.Pin{})
	return result.RowsAffected, result.Error
}

func (r *taskRepository) GetPinsByUserID(userID uuid.UUID) ([]models.Pin, error) {
	var pins []models.Pin
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&pins).Error
	return pins, err
}

// Tag links

func (r *taskRepository) CreateTagLink(link *models.TagLink) error {
	return r.db.Create(link).Error
}

func (r *taskRepository) DeleteTagLink(taskID, tagID uuid.UUID, kind models.TagKind) (int64, error) {
	result := r.db.Where("task_id = ? AND tag_id = ? AND kind = ?", taskID, tagID, kind).
		Delete(&models.TagLink{})
	return result.RowsAffected, result.Error
}

func (r *taskRepository) GetTagLinksByTaskID(taskID uuid.UUID) ([]models.TagLink, error) {
	var links []models.TagLink
	err := r.db.Where("task_id = ?", taskID).Find(&links).Error
	return links, err
}
