package project

import (
	"testing"

	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type slugCollidingRepository struct {
	fakeProjectRepository
	taken map[string]bool
}

func (f *slugCollidingRepository) Create(tx core.DB, t *models.Project) error {
	if f.taken[t.Slug] {
		return gorm.ErrDuplicatedKey
	}
	f.taken[t.Slug] = true
	return f.fakeProjectRepository.Create(tx, t)
}

func (f *slugCollidingRepository) Save(tx core.DB, t *models.Project) error {
	if f.taken[t.Slug] {
		return gorm.ErrDuplicatedKey
	}
	f.taken[t.Slug] = true
	return f.fakeProjectRepository.Save(tx, t)
}

func TestCreateProjectSlugCollision(t *testing.T) {
	repo := &slugCollidingRepository{taken: map[string]bool{"build-a-cli": true}}
	svc := NewService(repo)

	project, err := svc.CreateProject(uuid.New(), models.Project{Title: "Build a CLI", Slug: "build-a-cli"})

	require.NoError(t, err)
	assert.Equal(t, "build-a-cli-2", project.Slug)
}

func TestUpdateProjectSlugCollision(t *testing.T) {
	// renaming into a taken title suffixes just like a create would
	repo := &slugCollidingRepository{taken: map[string]bool{"build-a-cli": true}}
	svc := NewService(repo)

	existing := models.Project{Title: "Build a bot", Slug: "build-a-bot", CompanyID: uuid.New()}
	existing.ID = uuid.New()

	project, err := svc.UpdateProject(existing, patchRequest{Title: core.Ptr("Build a CLI")})

	require.NoError(t, err)
	assert.Equal(t, "build-a-cli-2", project.Slug)
	assert.Equal(t, "Build a CLI", project.Title)
}
