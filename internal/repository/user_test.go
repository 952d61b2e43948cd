package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(username, email string) *models.User {
	return &models.User{
		Username:       username,
		Email:          email,
		Password:       "hashed",
		ProfilePicture: models.DefaultProfilePicture,
	}
}

func TestUserRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("firstuser", "first@example.com")))

	t.Run("duplicate username", func(t *testing.T) {
		err := repo.Create(ctx, newUser("firstuser", "other@example.com"))
		require.Error(t, err)

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeConflict, appErr.Code)
		assert.Equal(t, "Username is already taken", appErr.Message)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(ctx, newUser("otheruser", "first@example.com"))
		require.Error(t, err)

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeConflict, appErr.Code)
		assert.Equal(t, "Email is already registered", appErr.Message)
	})

	t.Run("distinct user succeeds", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, newUser("seconduser", "second@example.com")))
	})
}

func TestUserRepository_Lookups(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := newUser("lookupuser", "lookup@example.com")
	require.NoError(t, repo.Create(ctx, user))

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "lookupuser", got.Username)
	})

	t.Run("get by id not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		require.Error(t, err)

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})

	t.Run("get by email absent returns nil nil", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("get by username absent returns nil nil", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestUserRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := newUser("deleteuser", "delete@example.com")
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err := repo.GetByID(ctx, user.ID)
	require.Error(t, err)

	t.Run("missing user", func(t *testing.T) {
		err := repo.Delete(ctx, 9999)
		require.Error(t, err)

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}

func TestUserRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	for _, u := range []*models.User{
		newUser("alphauser", "alpha@example.com"),
		newUser("bravouser", "bravo@example.com"),
		newUser("charlieuser", "charlie@example.com"),
	} {
		require.NoError(t, repo.Create(ctx, u))
	}

	users, total, lastMonth, err := repo.List(ctx, 2, 0, false)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, int64(3), lastMonth)

	t.Run("offset past the page", func(t *testing.T) {
		users, total, _, err := repo.List(ctx, 2, 2, false)
		require.NoError(t, err)
		assert.Len(t, users, 1)
		assert.Equal(t, int64(3), total)
	})
}

func TestUserRepository_CreateDefaultAdmin(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	admin := newUser("rootadmin", "admin@example.com")
	created, err := repo.CreateDefaultAdmin(ctx, admin)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, admin.IsAdmin)

	t.Run("second bootstrap is a no-op", func(t *testing.T) {
		created, err := repo.CreateDefaultAdmin(ctx, newUser("rootadmin", "admin@example.com"))
		require.NoError(t, err)
		assert.False(t, created)

		var count int64
		require.NoError(t, db.Model(&models.User{}).Where("email = ?", "admin@example.com").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("idempotence keys on email, not username", func(t *testing.T) {
		created, err := repo.CreateDefaultAdmin(ctx, newUser("renamedadmin", "admin@example.com"))
		require.NoError(t, err)
		assert.False(t, created)

		var count int64
		require.NoError(t, db.Model(&models.User{}).Where("email = ?", "admin@example.com").Count(&count).Error)
		assert.Equal(t, int64(1), count)

		got, err := repo.GetByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.Equal(t, "rootadmin", got.Username)
	})
}

func TestUserRepository_GetByID_QueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs(1, 1).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetByID(ctx, 1)
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeInternal, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.False(t, isUniqueConstraintError(nil))
	assert.False(t, isUniqueConstraintError(errors.New("connection refused")))
	assert.True(t, isUniqueConstraintError(errors.New(`duplicate key value violates unique constraint "idx_users_email"`)))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: users.username")))
	assert.True(t, isUniqueConstraintError(errors.New("SQLSTATE 23505")))
}
