package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService(t *testing.T) {
	tokens := NewTokenService("test-secret")

	t.Run("verifies what it issued", func(t *testing.T) {
		subject := uuid.New()
		pair, err := tokens.Issue(subject, models.RoleJunior)
		require.NoError(t, err)

		gotSubject, gotRole, err := tokens.Verify(pair.AccessToken, TokenClassAccess)
		require.NoError(t, err)
		assert.Equal(t, subject, gotSubject)
		assert.Equal(t, models.RoleJunior, gotRole)
	})

	t.Run("rejects a refresh token on the access path", func(t *testing.T) {
		pair, err := tokens.Issue(uuid.New(), models.RoleCompany)
		require.NoError(t, err)

		_, _, err = tokens.Verify(pair.RefreshToken, TokenClassAccess)
		assert.Error(t, err)
	})

	t.Run("rejects an access token on the refresh path", func(t *testing.T) {
		pair, err := tokens.Issue(uuid.New(), models.RoleCompany)
		require.NoError(t, err)

		_, _, err = tokens.Verify(pair.AccessToken, TokenClassRefresh)
		assert.Error(t, err)
	})

	t.Run("rejects tokens signed with a different secret", func(t *testing.T) {
		other := NewTokenService("other-secret")
		pair, err := other.Issue(uuid.New(), models.RoleJunior)
		require.NoError(t, err)

		_, _, err = tokens.Verify(pair.AccessToken, TokenClassAccess)
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, _, err := tokens.Verify("not.a.token", TokenClassAccess)
		assert.Error(t, err)
	})
}
