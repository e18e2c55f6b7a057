package repositories

import (
	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/database"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
)

var _ database.Repository[uuid.UUID, models.User, core.DB] = &userRepository{}

type userRepository struct {
	db core.DB
	*GormRepository[uuid.UUID, models.User]
}

func NewUserRepository(db core.DB) *userRepository {
	if err := db.AutoMigrate(&models.User{}, &models.JuniorProfile{}, &models.CompanyProfile{}); err != nil {
		panic(err)
	}
	return &userRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.User](db),
	}
}

func (g *userRepository) ReadWithProfiles(id uuid.UUID) (models.User, error) {
	var t models.User
	err := g.db.Preload("JuniorProfile").Preload("CompanyProfile").First(&t, "id = ?", id).Error
	return t, err
}

func (g *userRepository) ReadByEmail(email string) (models.User, error) {
	var t models.User
	err := g.db.Preload("JuniorProfile").Preload("CompanyProfile").First(&t, "email = ?", email).Error
	return t, err
}

func (g *userRepository) ReadByExternalID(externalID string) (models.User, error) {
	var t models.User
	err := g.db.First(&t, "external_id = ?", externalID).Error
	return t, err
}

func (g *userRepository) SaveJuniorProfile(tx core.DB, profile *models.JuniorProfile) error {
	return g.GetDB(tx).Save(profile).Error
}

func (g *userRepository) SaveCompanyProfile(tx core.DB, profile *models.CompanyProfile) error {
	return g.GetDB(tx).Save(profile).Error
}
