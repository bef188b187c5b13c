package handlers

import (
	"net/http"

	"taskassistant/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TagHandler представляет обработчик справочника этикеток
type TagHandler struct {
	tagService *services.TagService
}

// NewTagHandler создает новый обработчик этикеток
func NewTagHandler(tagService *services.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// CreateColorTagRequest представляет запрос на создание цветовой этикетки
type CreateColorTagRequest struct {
	Color string `json:"color" binding:"required"`
}

// CreateKeywordTagRequest представляет запрос на создание этикетки-слова
type CreateKeywordTagRequest struct {
	Word string `json:"word" binding:"required"`
}

// CreateColorTag добавляет цветовую этикетку в справочник
func (h *TagHandler) CreateColorTag(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req CreateColorTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := h.tagService.CreateColor(principal, req.Color)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tag)
}

// GetColorTags возвращает цветовые этикетки
func (h *TagHandler) GetColorTags(c *gin.Context) {
	tags, err := h.tagService.ListColors()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tags)
}

// DeleteColorTag удаляет цветовую этикетку
func (h *TagHandler) DeleteColorTag(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID"})
		return
	}

	if err := h.tagService.DeleteColor(id, principal); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateKeywordTag добавляет этикетку-ключевое слово в справочник
func (h *TagHandler) CreateKeywordTag(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req CreateKeywordTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := h.tagService.CreateKeyword(principal, req.Word)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tag)
}

// GetKeywordTags возвращает этикетки-ключевые слова
func (h *TagHandler) GetKeywordTags(c *gin.Context) {
	tags, err := h.tagService.ListKeywords()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tags)
}

// DeleteKeywordTag удаляет этикетку-ключевое слово
func (h *TagHandler) DeleteKeywordTag(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID"})
		return
	}

	if err := h.tagService.DeleteKeyword(id, principal); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
