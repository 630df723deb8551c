package repository

import (
	"context"
	"testing"

	"sunseeker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRepository(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()

	t.Run("count is zero before setup", func(t *testing.T) {
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("missing username yields nil without error", func(t *testing.T) {
		admin, err := repo.GetByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, admin)
	})

	t.Run("create and fetch", func(t *testing.T) {
		created := &models.Admin{Username: "admin", Password: "bcrypt-hash"}
		require.NoError(t, repo.Create(ctx, created))
		require.NotZero(t, created.ID)

		byName, err := repo.GetByUsername(ctx, "admin")
		require.NoError(t, err)
		require.NotNil(t, byName)
		assert.Equal(t, created.ID, byName.ID)

		byID, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "admin", byID.Username)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("unknown id is a not-found error", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 999)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		err := repo.Create(ctx, &models.Admin{Username: "admin", Password: "other"})
		assert.Error(t, err)
	})
}
