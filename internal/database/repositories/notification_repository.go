package repositories

import (
	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
)

type notificationRepository struct {
	db core.DB
	*GormRepository[uuid.UUID, models.Notification]
}

func NewNotificationRepository(db core.DB) *notificationRepository {
	if err := db.AutoMigrate(&models.Notification{}); err != nil {
		panic(err)
	}
	return &notificationRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Notification](db),
	}
}

func (g *notificationRepository) GetByRecipientID(recipientID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	var ts []models.Notification
	q := g.db.Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	err := q.Order("created_at DESC").Find(&ts).Error
	return ts, err
}

func (g *notificationRepository) MarkRead(tx core.DB, id uuid.UUID) error {
	return g.GetDB(tx).Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error
}

func (g *notificationRepository) MarkAllRead(tx core.DB, recipientID uuid.UUID) error {
	return g.GetDB(tx).Model(&models.Notification{}).Where("recipient_id = ? AND read = ?", recipientID, false).Update("read", true).Error
}
