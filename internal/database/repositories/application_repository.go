package repositories

import (
	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
)

type applicationRepository struct {
	db core.DB
	*GormRepository[uuid.UUID, models.Application]
}

func NewApplicationRepository(db core.DB) *applicationRepository {
	if err := db.AutoMigrate(&models.Application{}); err != nil {
		panic(err)
	}
	return &applicationRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Application](db),
	}
}

// ReadWithProject loads the application together with its project. The
// authorization rules need both sides of the ownership relation.
func (g *applicationRepository) ReadWithProject(id uuid.UUID) (models.Application, error) {
	var t models.Application
	err := g.db.Preload("Project").First(&t, id).Error
	return t, err
}

func (g *applicationRepository) GetByProjectID(projectID uuid.UUID) ([]models.Application, error) {
	var ts []models.Application
	err := g.db.Where("project_id = ?", projectID).Order("created_at DESC").Find(&ts).Error
	return ts, err
}

func (g *applicationRepository) GetByApplicantID(applicantID uuid.UUID) ([]models.Application, error) {
	var ts []models.Application
	err := g.db.Where("applicant_id = ?", applicantID).Order("created_at DESC").Find(&ts).Error
	return ts, err
}

// HasAcceptedApplications reports whether the project carries at least one
// accepted application. The delete rule depends on this fact.
func (g *applicationRepository) HasAcceptedApplications(projectID uuid.UUID) (bool, error) {
	var count int64
	err := g.db.Model(&models.Application{}).
		Where("project_id = ? AND status = ?", projectID, models.ApplicationStatusAccepted).
		Count(&count).Error
	return count > 0, err
}
