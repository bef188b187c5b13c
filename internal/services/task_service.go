package services

import (
	"errors"
	"fmt"
	"time"

	"taskassistant/internal/apperr"
	"taskassistant/internal/models"
	"taskassistant/internal/policy"
	"taskassistant/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskService реализует жизненный цикл задачи: CRUD, назначение,
// прогресс, учет времени, оценивание, ресурсы, закладки и этикетки.
type TaskService struct {
	taskRepo         repository.TaskRepository
	userRepo         repository.UserRepository
	tagRepo          repository.TagRepository
	notificationRepo repository.NotificationRepository
}

func NewTaskService(
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	tagRepo repository.TagRepository,
	notificationRepo repository.NotificationRepository,
) *TaskService {
	return &TaskService{
		taskRepo:         taskRepo,
		userRepo:         userRepo,
		tagRepo:          tagRepo,
		notificationRepo: notificationRepo,
	}
}

// CreateTaskInput представляет входные данные создания задачи
type CreateTaskInput struct {
	Title        string
	Description  string
	Priority     models.TaskPriority
	RequiresFile bool
	DueDate      *time.Time
	AssigneeID   *uuid.UUID
}

// UpdateTaskInput представляет частичное обновление: меняются только
// заполненные поля
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	DueDate     *time.Time
}

// Create создает задачу со статусом pending и нулевым прогрессом.
func (s *TaskService) Create(principal models.Principal, input CreateTaskInput) (*models.Task, error) {
	if !policy.Can(principal.Role, policy.ActionCreateTask) {
		return nil, apperr.Forbidden("role %s cannot create tasks", principal.Role)
	}
	if input.Title == "" {
		return nil, apperr.Validation("title is required")
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperr.Validation("unknown priority %q", priority)
	}

	if input.AssigneeID != nil {
		if err := s.checkAssignable(*input.AssigneeID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		ID:           uuid.New(),
		Title:        input.Title,
		Description:  input.Description,
		Status:       models.StatusPending,
		Priority:     priority,
		Progress:     0,
		RequiresFile: input.RequiresFile,
		DueDate:      input.DueDate,
		CreatorID:    principal.ID,
		AssigneeID:   input.AssigneeID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

// FindAll возвращает задачи, видимые пользователю: администратор видит
// все, остальные - созданные ими или назначенные им. Новые первыми.
func (s *TaskService) FindAll(principal models.Principal) ([]models.Task, error) {
	if principal.Role == models.RoleAdmin {
		return s.taskRepo.GetAll()
	}
	return s.taskRepo.GetVisibleTo(principal.ID)
}

// FindOne возвращает задачу со связями. NotFound, если id не существует;
// Forbidden, если пользователь не администратор, не создатель и не
// исполнитель.
func (s *TaskService) FindOne(taskID uuid.UUID, principal models.Principal) (*models.Task, error) {
	task, err := s.getTask(taskID)
	if err != nil {
		return nil, err
	}
	if err := s.checkVisibility(task, principal); err != nil {
		return nil, err
	}
	return task, nil
}

// Update применяет частичное обновление. Разрешено создателю или
// администратору; исполнителю - нет.
func (s *TaskService) Update(taskID uuid.UUID, principal models.Principal, patch UpdateTaskInput) (*models.Task, error) {
	if !policy.Can(principal.Role, policy.ActionUpdateTask) {
		return nil, apperr.Forbidden("role %s cannot update tasks", principal.Role)
	}
	task, err := s.getTask(taskID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(task, principal); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, apperr.Validation("title cannot be empty")
		}
		fields["title"] = *patch.Title
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, apperr.Validation("unknown status %q", *patch.Status)
		}
		fields["status"] = *patch.Status
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, apperr.Validation("unknown priority %q", *patch.Priority)
		}
		fields["priority"] = *patch.Priority
	}
	if patch.DueDate != nil {
		fields["due_date"] = *patch.DueDate
	}

	if len(fields) > 0 {
		if err := s.taskRepo.UpdateFields(taskID, fields); err != nil {
			return nil, err
		}
	}
	return s.getTask(taskID)
}

// Remove удаляет задачу вместе с оценками, ресурсами, комментариями,
// этикетками, вязками целей и закладками.
func (s *TaskService) Remove(taskID uuid.UUID, principal models.Principal) error {
	if !policy.Can(principal.Role, policy.ActionDeleteTask) {
		return apperr.Forbidden("role %s cannot delete tasks", principal.Role)
	}
	task, err := s.getTask(taskID)
	if err != nil {
		return err
	}
	if err := s.checkOwnership(task, principal); err != nil {
		return err
	}
	return s.taskRepo.Delete(taskID)
}

// Assign назначает исполнителя. Переназначение - новый старт: прогресс
// сбрасывается в 0, статус - в pending.
func (s *TaskService) Assign(taskID, assigneeID uuid.UUID, principal models.Principal) (*models.Task, error) {
	if !policy.Can(principal.Role, policy.ActionAssignTask) {
		return nil, apperr.Forbidden("role %s cannot assign tasks", principal.Role)
	}
	task, err := s.getTask(taskID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAssignable(assigneeID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.SetAssignee(taskID, assigneeID); err != nil {
		return nil, err
	}

	s.notify(assigneeID, models.NotificationTaskAssigned,
		"Task assigned to you: "+task.Title, taskID)

	return s.getTask(taskID)
}

// UpdateProgress записывает прогресс исполнителя. Разрешено строго
// исполнителю: создатель и администратор отчитываться за него не могут.
// Значение вне [0,100] приводится к ближайшей границе. Статус выводится
// из прогресса и пишется тем же обновлением.
func (s *TaskService) UpdateProgress(taskID uuid.UUID, principal models.Principal, percentage int) (*models.Task, error) {
	task, err := s.getTask(taskID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAssignee(task, principal); err != nil {
		return nil, err
	}

	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}

	status := models.StatusPending
	switch {
	case percentage == 100:
		status = models.StatusCompleted
	case percentage > 0:
		status = models.StatusInProgress
	}

	if err := s.taskRepo.SetProgress(taskID, percentage, status); err != nil {
		return nil, err
	}
	return s.getTask(taskID)
}

// LogTime добавляет минуты к учтенному времени исполнителя. Инкремент
// атомарный, поэтому параллельные вызовы не теряют минуты.
func (s *TaskService) LogTime(taskID uuid.UUID, principal models.Principal, minutes int) (*models.Task, error) {
	task, err := s.getTask(taskID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAssignee(task, principal); err != nil {
		return nil, err
	}
	if minutes <= 0 {
		return nil, apperr.Validation("minutes must be a positive integer")
	}

	if err := s.taskRepo.IncrementLoggedTime(taskID, minutes); err != nil {
		return nil, err
	}
	return s.getTask(taskID)
}

// Grade оценивает завершенную задачу. Оценка незавершенной задачи -
// нарушение доменного правила, а не отсутствие ресурса.
func (s *TaskService) Grade(taskID uuid.UUID, principal models.Principal, score int, note string) (*models.Grade, error) {
	if !policy.Can(principal.Role, policy.ActionGradeTask) {
		return nil, apperr.Forbidden("role %s cannot grade tasks", principal.Role)
	}
	task, err := s.getTask(taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != models.StatusCompleted {
		return nil, apperr.Precondition("cannot grade a task with status %s", task.Status)
	}
	if score < 0 || score > 100 {
		return nil, apperr.Validation("score must be between 0 and 100, got %d", score)
	}

	grade := &models.Grade{
		ID:       uuid.New(),
		TaskID:   taskID,
		GraderID: principal.ID,
		Score:    score,
		Note:     note,
	}
	if err := s.taskRepo.CreateGrade(grade); err != nil {
		return nil, err
	}

	if task.AssigneeID != nil {
		s.notify(*task.AssigneeID, models.NotificationGradeReceived,
			"Your task was graded: "+task.Title, taskID)
	}

	return grade, nil
}

// Grades возвращает оценки задачи, новые первыми.
func (s *TaskService) Grades(taskID uuid.UUID, principal models.Principal) ([]models.Grade, error) {
	task, err := s.getTask(taskID)
	if err != nil {
		return nil, err
	}
	if err := s.checkVisibility(task, principal); err != nil {
		return nil, err
	}
	return s.taskRepo.GetGradesByTaskID(taskID)
}

// AddLinkResource прикрепляет внешнюю ссылку к задаче.
func (s *TaskService) AddLinkResource(taskID uuid.UUID, principal models.Principal, name, url string) (*models.Resource, error) {
	if !policy.Can(principal.Role, policy.ActionCreateResource) {
		return nil, apperr.Forbidden("role %s cannot attach resources", principal.Role)
	}
	if _, err := s.getTask(taskID); err != nil {
		return nil, err
	}
	if name == "" || url == "" {
		return nil, apperr.Validation("resource name and url are required")
	}

	resource := &models.Resource{
		ID:     uuid.New(),
		TaskID: taskID,
		Kind:   models.ResourceLink,
		Name:   name,
		URL:    url,
	}
	if err := s.taskRepo.CreateResource(resource); err != nil {
		return nil, err
	}
	return resource, nil
}

// AddFileResource регистрирует загруженный файл как ресурс задачи.
// Тип ресурса выводится из MIME-типа.
func (s *TaskService) AddFileResource(taskID uuid.UUID, principal models.Principal, name, path string, size int64, mimeType string) (*models.Resource, error) {
	if !policy.Can(principal.Role, policy.ActionCreateResource) {
		return nil, apperr.Forbidden("role %s cannot attach resources", principal.Role)
	}
	if _, err := s.getTask(taskID); err != nil {
		return nil, err
	}

	resource := &models.Resource{
		ID:       uuid.New(),
		TaskID:   taskID,
		Kind:     models.ResourceKindFromMime(mimeType),
		Name:     name,
		URL:      path,
		Size:     size,
		MimeType: mimeType,
	}
	if err := s.taskRepo.CreateResource(resource); err != nil {
		return nil, err
	}
	return resource, nil
}

// Resources возвращает ресурсы задачи.
func (s *TaskService) Resources(taskID uuid.UUID, principal models.Principal) ([]models.Resource, error) {
	if _, err := s.getTask(taskID); err != nil {
		return nil, err
	}
	return s.taskRepo.GetResourcesByTaskID(taskID)
}

// RemoveResource удаляет ресурс задачи.
func (s *TaskService) RemoveResource(resourceID uuid.UUID, principal models.Principal) error {
	if !policy.Can(principal.Role, policy.ActionDeleteResource) {
		return apperr.Forbidden("role %s cannot delete resources", principal.Role)
	}
	affected, err := s.taskRepo.DeleteResource(resourceID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("resource %s not found", resourceID)
	}
	return nil
}

// Pin добавляет задачу в закладки пользователя. Повторная закладка -
// конфликт, а не тихий успех.
func (s *TaskService) Pin(taskID uuid.UUID, principal models.Principal) (*models.Pin, error) {
	if _, err := s.getTask(taskID); err != nil {
		return nil, err
	}

	pin := &models.Pin{
		ID:     uuid.New(),
		UserID: principal.ID,
		TaskID: taskID,
	}
	if err := s.taskRepo.CreatePin(pin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("task %s is already pinned", taskID)
		}
		return nil, err
	}
	return pin, nil
}

// Unpin убирает задачу из закладок пользователя.
func (s *TaskService) Unpin(taskID uuid.UUID, principal models.Principal) error {
	affected, err := s.taskRepo.DeletePin(principal.ID, taskID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("task %s is not pinned", taskID)
	}
	return nil
}

// Pins возвращает закладки пользователя.
func (s *TaskService) Pins(principal models.Principal) ([]models.Pin, error) {
	return s.taskRepo.GetPinsByUserID(principal.ID)
}

// LinkTag вяжет существующую этикетку справочника к задаче. Вязка
// этикеток коллективная и роли не требует.
func (s *TaskService) LinkTag(taskID, tagID uuid.UUID, kind models.TagKind, principal models.Principal) (*models.TagLink, error) {
	if !kind.Valid() {
		return nil, apperr.Validation("unknown tag kind %q", kind)
	}
	if _, err := s.getTask(taskID); err != nil {
		return nil, err
	}

	var exists bool
	var err error
	if kind == models.TagColor {
		exists, err = s.tagRepo.ColorExists(tagID)
	} else {
		exists, err = s.tagRepo.KeywordExists(tagID)
	}
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("%s tag %s not found", kind, tagID)
	}

	link := &models.TagLink{
		ID:     uuid.New(),
		TaskID: taskID,
		TagID:  tagID,
		Kind:   kind,
	}
	if err := s.taskRepo.CreateTagLink(link); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("tag %s is already linked to task %s", tagID, taskID)
		}
		return nil, err
	}
	return link, nil
}

// UnlinkTag отвязывает этикетку от задачи.
func (s *TaskService) UnlinkTag(taskID, tagID uuid.UUID, kind models.TagKind, principal models.Principal) error {
	if !kind.Valid() {
		return apperr.Validation("unknown tag kind %q", kind)
	}
	affected, err := s.taskRepo.DeleteTagLink(taskID, tagID, kind)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("tag %s is not linked to task %s", tagID, taskID)
	}
	return nil
}

// Tags возвращает вязки этикеток задачи.
func (s *TaskService) Tags(taskID uuid.UUID, principal models.Principal) ([]models.TagLink, error) {
	task, err := s.getTask(taskID)
	if err != nil {
		return nil, err
	}
	if err := s.checkVisibility(task, principal); err != nil {
		return nil, err
	}
	return s.taskRepo.GetTagLinksByTaskID(taskID)
}

// --- helpers ---

func (s *TaskService) getTask(taskID uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("task %s not found", taskID)
		}
		return nil, err
	}
	return task, nil
}

// checkVisibility применяется к каждому чтению и мутации одной задачи.
func (s *TaskService) checkVisibility(task *models.Task, principal models.Principal) error {
	if principal.Role == models.RoleAdmin {
		return nil
	}
	if task.CreatorID == principal.ID {
		return nil
	}
	if task.AssigneeID != nil && *task.AssigneeID == principal.ID {
		return nil
	}
	return apperr.Forbidden("no access to task %s", task.ID)
}

// checkOwnership - для update/delete: создатель или администратор,
// но не исполнитель.
func (s *TaskService) checkOwnership(task *models.Task, principal models.Principal) error {
	if principal.Role == models.RoleAdmin || task.CreatorID == principal.ID {
		return nil
	}
	return apperr.Forbidden("only the creator or an admin can modify task %s", task.ID)
}

// checkAssignee - для прогресса и времени: строго исполнитель.
func (s *TaskService) checkAssignee(task *models.Task, principal models.Principal) error {
	if task.AssigneeID == nil || *task.AssigneeID != principal.ID {
		return apperr.Forbidden("only the assignee can report on task %s", task.ID)
	}
	return nil
}

// checkAssignable проверяет, что исполнитель существует и имеет роль student.
func (s *TaskService) checkAssignable(assigneeID uuid.UUID) error {
	user, err := s.userRepo.GetByID(assigneeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("assignee %s not found", assigneeID)
		}
		return err
	}
	if user.Role != models.RoleStudent {
		return apperr.Validation("assignee must have role student, got %s", user.Role)
	}
	return nil
}

func (s *TaskService) notify(userID uuid.UUID, kind models.NotificationType, message string, taskID uuid.UUID) {
	notification := &models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    kind,
		Message: message,
		Payload: fmt.Sprintf(`{"task_id":%q}`, taskID),
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		// Фиксация уведомления не должна валить основную операцию
		fmt.Printf("Failed to record notification: %v\n", err)
	}
}
