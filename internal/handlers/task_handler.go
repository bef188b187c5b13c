package handlers

import (
	"net/http"
	"time"

	"taskassistant/internal/models"
	"taskassistant/internal/services"
	"taskassistant/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TaskHandler представляет обработчик задач
type TaskHandler struct {
	taskService    *services.TaskService
	commentService *services.CommentService
	storage        *storage.Storage
}

// NewTaskHandler создает новый обработчик задач
func NewTaskHandler(taskService *services.TaskService, commentService *services.CommentService, storage *storage.Storage) *TaskHandler {
	return &TaskHandler{
		taskService:    taskService,
		commentService: commentService,
		storage:        storage,
	}
}

// CreateTaskRequest представляет запрос на создание задачи
type CreateTaskRequest struct {
	Title        string              `json:"title" binding:"required"`
	Description  string              `json:"description"`
	Priority     models.TaskPriority `json:"priority"`
	RequiresFile bool                `json:"requires_file"`
	DueDate      *time.Time          `json:"due_date"`
	AssigneeID   *uuid.UUID          `json:"assignee_id"`
}

// UpdateTaskRequest представляет частичное обновление задачи
type UpdateTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *models.TaskStatus   `json:"status"`
	Priority    *models.TaskPriority `json:"priority"`
	DueDate     *time.Time           `json:"due_date"`
}

// AssignTaskRequest представляет запрос на назначение исполнителя
type AssignTaskRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// UpdateProgressRequest представляет запрос на обновление прогресса
type UpdateProgressRequest struct {
	Percentage *int `json:"percentage" binding:"required"`
}

// LogTimeRequest представляет запрос на регистрацию времени
type LogTimeRequest struct {
	Minutes int `json:"minutes" binding:"required"`
}

// GradeTaskRequest представляет запрос на оценку задачи
type GradeTaskRequest struct {
	Score *int   `json:"score" binding:"required"`
	Note  string `json:"note"`
}

// LinkResourceRequest представляет запрос на прикрепление ссылки
type LinkResourceRequest struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required,url"`
}

// LinkTagRequest представляет запрос на вязку этикетки
type LinkTagRequest struct {
	TagID uuid.UUID `json:"tag_id" binding:"required"`
}

// AddCommentRequest представляет запрос на добавление комментария
type AddCommentRequest struct {
	Content  string      `json:"content" binding:"required"`
	Mentions []uuid.UUID `json:"mentions"`
}

// CreateTask создает новую задачу
func (h *TaskHandler) CreateTask(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Create(principal, services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		RequiresFile: req.RequiresFile,
		DueDate:      req.DueDate,
		AssigneeID:   req.AssigneeID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetTasks возвращает задачи, видимые текущему пользователю
func (h *TaskHandler) GetTasks(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.FindAll(principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// GetTask возвращает одну задачу со связями
func (h *TaskHandler) GetTask(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.FindOne(taskID, principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTask применяет частичное обновление задачи
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Update(taskID, principal, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask удаляет задачу вместе с зависимыми записями
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.Remove(taskID, principal); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AssignTask назначает исполнителя задачи
func (h *TaskHandler) AssignTask(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Assign(taskID, req.UserID, principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateProgress обновляет прогресс задачи (только исполнитель)
func (h *TaskHandler) UpdateProgress(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.UpdateProgress(taskID, principal, *req.Percentage)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// LogTime регистрирует затраченное время (только исполнитель)
func (h *TaskHandler) LogTime(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req LogTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.LogTime(taskID, principal, req.Minutes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// GradeTask оценивает завершенную задачу
func (h *TaskHandler) GradeTask(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req GradeTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grade, err := h.taskService.Grade(taskID, principal, *req.Score, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, grade)
}

// GetGrades возвращает оценки задачи
func (h *TaskHandler) GetGrades(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	grades, err := h.taskService.Grades(taskID, principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, grades)
}

// AddLinkResource прикрепляет ссылку к задаче
func (h *TaskHandler) AddLinkResource(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req LinkResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resource, err := h.taskService.AddLinkResource(taskID, principal, req.Name, req.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resource)
}

// UploadFileResource загружает файл и прикрепляет его к задаче
func (h *TaskHandler) UploadFileResource(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	path, err := h.storage.SaveTaskFile(file, taskID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mimeType := file.Header.Get("Content-Type")
	resource, err := h.taskService.AddFileResource(taskID, principal, file.Filename, path, file.Size, mimeType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resource)
}

// GetResources возвращает ресурсы задачи
func (h *TaskHandler) GetResources(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	resources, err := h.taskService.Resources(taskID, principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resources)
}

// DeleteResource удаляет ресурс задачи
func (h *TaskHandler) DeleteResource(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	resourceID, err := uuid.Parse(c.Param("resourceId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	if err := h.taskService.RemoveResource(resourceID, principal); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PinTask добавляет задачу в закладки текущего пользователя
func (h *TaskHandler) PinTask(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	pin, err := h.taskService.Pin(taskID, principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, pin)
}

// UnpinTask убирает задачу из закладок текущего пользователя
func (h *TaskHandler) UnpinTask(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.Unpin(taskID, principal); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetPins возвращает закладки текущего пользователя
func (h *TaskHandler) GetPins(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	pins, err := h.taskService.Pins(principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pins)
}

// LinkTag вяжет этикетку справочника к задаче
func (h *TaskHandler) LinkTag(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}
	kind := models.TagKind(c.Param("kind"))

	var req LinkTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.taskService.LinkTag(taskID, req.TagID, kind, principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, link)
}

// UnlinkTag отвязывает этикетку от задачи
func (h *TaskHandler) UnlinkTag(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}
	kind := models.TagKind(c.Param("kind"))

	tagID, err := uuid.Parse(c.Param("tagId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID"})
		return
	}

	if err := h.taskService.UnlinkTag(taskID, tagID, kind, principal); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetTaskTags возвращает вязки этикеток задачи
func (h *TaskHandler) GetTaskTags(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	links, err := h.taskService.Tags(taskID, principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, links)
}

// AddComment добавляет комментарий с упоминаниями
func (h *TaskHandler) AddComment(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Create(taskID, principal, req.Content, req.Mentions)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// GetComments возвращает комментарии задачи
func (h *TaskHandler) GetComments(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	comments, err := h.commentService.List(taskID, principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

// taskIDParam парсит :id маршрута как uuid
func taskIDParam(c *gin.Context) (uuid.UUID, bool) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return uuid.Nil, false
	}
	return taskID, true
}
