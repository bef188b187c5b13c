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

// TagService управляет справочником этикеток. Справочник привилегирован;
// вязка этикеток к задачам живет в TaskService и открыта всем.
type TagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// CreateColor добавляет цветовую этикетку в справочник.
func (s *TagService) CreateColor(principal models.Principal, color string) (*models.ColorTag, error) {
	if !policy.Can(principal.Role, policy.ActionManageTags) {
		return nil, apperr.Forbidden("role %s cannot manage tags", principal.Role)
	}
	if color == "" {
		return nil, apperr.Validation("color is required")
	}

	tag := &models.ColorTag{ID: uuid.New(), Color: color}
	if err := s.tagRepo.CreateColor(tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("color tag %q already exists", color)
		}
		return nil, err
	}
	return tag, nil
}

// ListColors возвращает все цветовые этикетки; чтение открыто всем.
func (s *TagService) ListColors() ([]models.ColorTag, error) {
	return s.tagRepo.GetAllColors()
}

// DeleteColor удаляет цветовую этикетку и ее вязки к задачам.
func (s *TagService) DeleteColor(id uuid.UUID, principal models.Principal) error {
	if !policy.Can(principal.Role, policy.ActionManageTags) {
		return apperr.Forbidden("role %s cannot manage tags", principal.Role)
	}
	affected, err := s.tagRepo.DeleteColor(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("color tag %s not found", id)
	}
	return nil
}

// CreateKeyword добавляет этикетку-ключевое слово в справочник.
func (s *TagService) CreateKeyword(principal models.Principal, word string) (*models.KeywordTag, error) {
	if !policy.Can(principal.Role, policy.ActionManageTags) {
		return nil, apperr.Forbidden("role %s cannot manage tags", principal.Role)
	}
	if word == "" {
		return nil, apperr.Validation("word is required")
	}

	tag := &models.KeywordTag{ID: uuid.New(), Word: word}
	if err := s.tagRepo.CreateKeyword(tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("keyword tag %q already exists", word)
		}
		return nil, err
	}
	return tag, nil
}

// ListKeywords возвращает все этикетки-ключевые слова.
func (s *TagService) ListKeywords() ([]models.KeywordTag, error) {
	return s.tagRepo.GetAllKeywords()
}

// DeleteKeyword удаляет этикетку-ключевое слово и ее вязки к задачам.
func (s *TagService) DeleteKeyword(id uuid.UUID, principal models.Principal) error {
	if !policy.Can(principal.Role, policy.ActionManageTags) {
		return apperr.Forbidden("role %s cannot manage tags", principal.Role)
	}
	affected, err := s.tagRepo.DeleteKeyword(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("keyword tag %s not found", id)
	}
	return nil
}
