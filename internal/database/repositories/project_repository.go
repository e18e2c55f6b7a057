package repositories

import (
	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
)

type projectRepository struct {
	db core.DB
	*GormRepository[uuid.UUID, models.Project]
}

func NewProjectRepository(db core.DB) *projectRepository {
	if err := db.AutoMigrate(&models.Project{}); err != nil {
		panic(err)
	}
	return &projectRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Project](db),
	}
}

func (g *projectRepository) ReadBySlug(companyID uuid.UUID, slug string) (models.Project, error) {
	var t models.Project
	err := g.db.Where("slug = ? AND company_id = ?", slug, companyID).First(&t).Error
	return t, err
}

func (g *projectRepository) GetByCompanyID(companyID uuid.UUID) ([]models.Project, error) {
	var ts []models.Project
	err := g.db.Where("company_id = ?", companyID).Order("created_at DESC").Find(&ts).Error
	return ts, err
}

// ListOpen returns projects visible on the public board, newest first.
func (g *projectRepository) ListOpen() ([]models.Project, error) {
	var ts []models.Project
	err := g.db.Where("status = ?", models.ProjectStatusOpen).Order("created_at DESC").Find(&ts).Error
	return ts, err
}
