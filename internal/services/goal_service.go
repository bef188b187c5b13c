package services

import (
	"errors"

	"taskassistant/internal/apperr"
	"taskassistant/internal/models"
	"taskassistant/internal/policy"
	"taskassistant/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GoalService управляет целями и их вязками с задачами. Цели -
// инструмент планирования, поэтому и вязка гейтится по роли.
type GoalService struct {
	goalRepo repository.GoalRepository
	taskRepo repository.TaskRepository
}

func NewGoalService(goalRepo repository.GoalRepository, taskRepo repository.TaskRepository) *GoalService {
	return &GoalService{goalRepo: goalRepo, taskRepo: taskRepo}
}

// Create создает цель.
func (s *GoalService) Create(principal models.Principal, title, description string) (*models.Goal, error) {
	if !policy.Can(principal.Role, policy.ActionManageGoals) {
		return nil, apperr.Forbidden("role %s cannot manage goals", principal.Role)
	}
	if title == "" {
		return nil, apperr.Validation("title is required")
	}

	goal := &models.Goal{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
	}
	if err := s.goalRepo.Create(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// List возвращает все цели с вязанными задачами; чтение открыто всем.
func (s *GoalService) List() ([]models.Goal, error) {
	return s.goalRepo.GetAll()
}

// Get возвращает цель по id.
func (s *GoalService) Get(id uuid.UUID) (*models.Goal, error) {
	goal, err := s.goalRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("goal %s not found", id)
		}
		return nil, err
	}
	return goal, nil
}

// Delete удаляет цель вместе с вязками задач.
func (s *GoalService) Delete(id uuid.UUID, principal models.Principal) error {
	if !policy.Can(principal.Role, policy.ActionManageGoals) {
		return apperr.Forbidden("role %s cannot manage goals", principal.Role)
	}
	affected, err := s.goalRepo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("goal %s not found", id)
	}
	return nil
}

// LinkTask вяжет задачу к цели. Повторная вязка - конфликт.
func (s *GoalService) LinkTask(goalID, taskID uuid.UUID, principal models.Principal) (*models.GoalTaskLink, error) {
	if !policy.Can(principal.Role, policy.ActionManageGoals) {
		return nil, apperr.Forbidden("role %s cannot manage goals", principal.Role)
	}
	if _, err := s.Get(goalID); err != nil {
		return nil, err
	}
	if _, err := s.taskRepo.GetByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("task %s not found", taskID)
		}
		return nil, err
	}

	link := &models.GoalTaskLink{
		ID:     uuid.New(),
		GoalID: goalID,
		TaskID: taskID,
	}
	if err := s.goalRepo.CreateLink(link); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("task %s is already linked to goal %s", taskID, goalID)
		}
		return nil, err
	}
	return link, nil
}

// UnlinkTask отвязывает задачу от цели.
func (s *GoalService) UnlinkTask(goalID, taskID uuid.UUID, principal models.Principal) error {
	if !policy.Can(principal.Role, policy.ActionManageGoals) {
		return apperr.Forbidden("role %s cannot manage goals", principal.Role)
	}
	affected, err := s.goalRepo.DeleteLink(goalID, taskID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("task %s is not linked to goal %s", taskID, goalID)
	}
	return nil
}
