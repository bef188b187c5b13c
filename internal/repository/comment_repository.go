package repository

import (
	"fmt"
	"time"

	"taskassistant/internal/apperr"
	"taskassistant/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentRepository interface {
	CreateWithMentions(comment *models.Comment, mentionedUserIDs []uuid.UUID) error
	GetByTaskID(taskID uuid.UUID) ([]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// CreateWithMentions создает комментарий, упоминания и уведомления
// упомянутым пользователям в одной транзакции. Если хотя бы один
// упомянутый пользователь не существует, откатывается все.
func (r *commentRepository) CreateWithMentions(comment *models.Comment, mentionedUserIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		seen := make(map[uuid.UUID]bool, len(mentionedUserIDs))
		for _, userID := range mentionedUserIDs {
			if seen[userID] {
				continue // повторное упоминание одного пользователя не дублируем
			}
			seen[userID] = true

			var count int64
			if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return apperr.Validation("mentioned user %s does not exist", userID)
			}

			mention := models.Mention{
				ID:              uuid.New(),
				CommentID:       comment.ID,
				MentionedUserID: userID,
				CreatedAt:       time.Now(),
			}
			if err := tx.Create(&mention).Error; err != nil {
				return err
			}

			notification := models.Notification{
				ID:        uuid.New(),
				UserID:    userID,
				Type:      models.NotificationMentioned,
				Message:   "You were mentioned in a comment",
				Payload:   fmt.Sprintf(`{"comment_id":%q,"task_id":%q}`, comment.ID, comment.TaskID),
				CreatedAt: time.Now(),
			}
			if err := tx.Create(&notification).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *commentRepository) GetByTaskID(taskID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Author").Preload("Mentions").
		Where("task_id = ?", taskID).
		Order("created_at ASC").Find(&comments).Error
	return comments, err
}
