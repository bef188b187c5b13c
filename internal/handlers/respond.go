package handlers

import (
	"errors"
	"net/http"

	"taskassistant/internal/apperr"
	"taskassistant/internal/models"

	"github.com/gin-gonic/gin"
)

// currentPrincipal достает Principal, сохраненный AuthMiddleware.
func currentPrincipal(c *gin.Context) (models.Principal, bool) {
	val, exists := c.Get("principal")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return models.Principal{}, false
	}
	principal, ok := val.(models.Principal)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return models.Principal{}, false
	}
	return principal, true
}

// respondError сопоставляет класс доменной ошибки со статус-кодом.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrPrecondition):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
