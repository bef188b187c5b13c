package services

import (
	"taskassistant/internal/apperr"
	"taskassistant/internal/models"
	"taskassistant/internal/repository"

	"github.com/google/uuid"
)

// NotificationService отдает пользователю его уведомления. Ядро только
// фиксирует события; доставку выполняют внешние системы.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// List возвращает уведомления пользователя, новые первыми.
func (s *NotificationService) List(principal models.Principal) ([]models.Notification, error) {
	return s.notificationRepo.GetByUserID(principal.ID)
}

// MarkRead помечает уведомление прочитанным; чужое уведомление
// выглядит как несуществующее.
func (s *NotificationService) MarkRead(id uuid.UUID, principal models.Principal) error {
	affected, err := s.notificationRepo.MarkRead(id, principal.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("notification %s not found", id)
	}
	return nil
}
