package repositories

import (
	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
)

type commentRepository struct {
	db core.DB
	*GormRepository[uuid.UUID, models.Comment]
}

func NewCommentRepository(db core.DB) *commentRepository {
	if err := db.AutoMigrate(&models.Comment{}); err != nil {
		panic(err)
	}
	return &commentRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Comment](db),
	}
}

func (g *commentRepository) GetByProjectID(projectID uuid.UUID) ([]models.Comment, error) {
	var ts []models.Comment
	err := g.db.Where("project_id = ?", projectID).Order("created_at ASC").Find(&ts).Error
	return ts, err
}
