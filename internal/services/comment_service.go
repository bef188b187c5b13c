package services

import (
	"errors"

	"taskassistant/internal/apperr"
	"taskassistant/internal/models"
	"taskassistant/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentService добавляет комментарии к задачам и фиксирует упоминания.
type CommentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
}

func NewCommentService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, taskRepo: taskRepo}
}

// Create создает комментарий и его упоминания атомарно: комментарий с
// упоминаниями не бывает виден без них, некорректное упоминание
// откатывает всю операцию.
func (s *CommentService) Create(taskID uuid.UUID, principal models.Principal, content string, mentions []uuid.UUID) (*models.Comment, error) {
	if content == "" {
		return nil, apperr.Validation("content is required")
	}
	if err := s.checkTaskVisible(taskID, principal); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:       uuid.New(),
		TaskID:   taskID,
		AuthorID: principal.ID,
		Content:  content,
	}
	if err := s.commentRepo.CreateWithMentions(comment, mentions); err != nil {
		return nil, err
	}
	return comment, nil
}

// List возвращает комментарии задачи, старые первыми.
func (s *CommentService) List(taskID uuid.UUID, principal models.Principal) ([]models.Comment, error) {
	if err := s.checkTaskVisible(taskID, principal); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByTaskID(taskID)
}

func (s *CommentService) checkTaskVisible(taskID uuid.UUID, principal models.Principal) error {
	task, err := s.taskRepo.GetByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("task %s not found", taskID)
		}
		return err
	}
	if principal.Role == models.RoleAdmin {
		return nil
	}
	if task.CreatorID == principal.ID {
		return nil
	}
	if task.AssigneeID != nil && *task.AssigneeID == principal.ID {
		return nil
	}
	return apperr.Forbidden("no access to task %s", taskID)
}
