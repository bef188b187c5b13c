package handlers

import (
	"net/http"

	"taskassistant/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GoalHandler представляет обработчик целей
type GoalHandler struct {
	goalService *services.GoalService
}

// NewGoalHandler создает новый обработчик целей
func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoalRequest представляет запрос на создание цели
type CreateGoalRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// LinkTaskRequest представляет запрос на вязку задачи к цели
type LinkTaskRequest struct {
	TaskID uuid.UUID `json:"task_id" binding:"required"`
}

// CreateGoal создает цель
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := h.goalService.Create(principal, req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, goal)
}

// GetGoals возвращает все цели с вязанными задачами
func (h *GoalHandler) GetGoals(c *gin.Context) {
	goals, err := h.goalService.List()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, goals)
}

// GetGoal возвращает цель по id
func (h *GoalHandler) GetGoal(c *gin.Context) {
	id, ok := goalIDParam(c)
	if !ok {
		return
	}

	goal, err := h.goalService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// DeleteGoal удаляет цель вместе с вязками
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := goalIDParam(c)
	if !ok {
		return
	}

	if err := h.goalService.Delete(id, principal); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// LinkTask вяжет задачу к цели
func (h *GoalHandler) LinkTask(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := goalIDParam(c)
	if !ok {
		return
	}

	var req LinkTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.goalService.LinkTask(id, req.TaskID, principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, link)
}

// UnlinkTask отвязывает задачу от цели
func (h *GoalHandler) UnlinkTask(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := goalIDParam(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	if err := h.goalService.UnlinkTask(id, taskID, principal); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// goalIDParam парсит :id маршрута как uuid
func goalIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal ID"})
		return uuid.Nil, false
	}
	return id, true
}
