package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPost(t *testing.T, db *gorm.DB, authorID uint) *models.Post {
	t.Helper()
	post := &models.Post{UserID: authorID, Title: "Commented Post", Slug: "commented-post", Content: "body"}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestCommentRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedAuthor(t, db)
	post := seedPost(t, db, author.ID)

	comment := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "first!"}
	require.NoError(t, repo.Create(ctx, comment))
	assert.NotZero(t, comment.ID)
	assert.NotNil(t, comment.Likes)
	assert.Empty(t, comment.Likes)

	got, err := repo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "first!", got.Content)
	assert.Equal(t, 0, got.NumberOfLikes)
	assert.Empty(t, got.Likes)

	_, err = repo.GetByID(ctx, 9999)
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestCommentRepository_UpdateContent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedAuthor(t, db)
	post := seedPost(t, db, author.ID)

	comment := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "tpyo"}
	require.NoError(t, repo.Create(ctx, comment))

	updated, err := repo.UpdateContent(ctx, comment.ID, "typo fixed")
	require.NoError(t, err)
	assert.Equal(t, "typo fixed", updated.Content)

	_, err = repo.UpdateContent(ctx, 9999, "nope")
	require.Error(t, err)
}

func TestCommentRepository_ToggleLike(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedAuthor(t, db)
	reader := newUser("likereader", "reader@example.com")
	require.NoError(t, db.Create(reader).Error)
	post := seedPost(t, db, author.ID)

	comment := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "like me"}
	require.NoError(t, repo.Create(ctx, comment))

	t.Run("first toggle likes", func(t *testing.T) {
		got, liked, err := repo.ToggleLike(ctx, comment.ID, reader.ID)
		require.NoError(t, err)
		assert.True(t, liked)
		assert.Equal(t, 1, got.NumberOfLikes)
		assert.Equal(t, []uint{reader.ID}, got.Likes)
	})

	t.Run("second toggle unlikes", func(t *testing.T) {
		got, liked, err := repo.ToggleLike(ctx, comment.ID, reader.ID)
		require.NoError(t, err)
		assert.False(t, liked)
		assert.Equal(t, 0, got.NumberOfLikes)
		assert.Empty(t, got.Likes)
	})

	t.Run("two users like independently", func(t *testing.T) {
		_, _, err := repo.ToggleLike(ctx, comment.ID, reader.ID)
		require.NoError(t, err)
		got, _, err := repo.ToggleLike(ctx, comment.ID, author.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.NumberOfLikes)
		assert.ElementsMatch(t, []uint{reader.ID, author.ID}, got.Likes)
	})

	t.Run("counter matches like rows after toggling", func(t *testing.T) {
		var rows int64
		require.NoError(t, db.Model(&models.CommentLike{}).
			Where("comment_id = ?", comment.ID).Count(&rows).Error)

		got, err := repo.GetByID(ctx, comment.ID)
		require.NoError(t, err)
		assert.Equal(t, int(rows), got.NumberOfLikes)
	})

	t.Run("missing comment", func(t *testing.T) {
		_, _, err := repo.ToggleLike(ctx, 9999, reader.ID)
		require.Error(t, err)

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}

func TestCommentRepository_ToggleLikeConcurrent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedAuthor(t, db)
	post := seedPost(t, db, author.ID)
	comment := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "popular"}
	require.NoError(t, repo.Create(ctx, comment))

	const likers = 8
	users := make([]*models.User, likers)
	for i := range users {
		users[i] = newUser(fmt.Sprintf("racer%02d", i), fmt.Sprintf("racer%02d@example.com", i))
		require.NoError(t, db.Create(users[i]).Error)
	}

	// Every user toggles the same comment at once; no like may be lost.
	errs := make(chan error, likers)
	var wg sync.WaitGroup
	for _, u := range users {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, _, err := repo.ToggleLike(ctx, comment.ID, userID)
			errs <- err
		}(u.ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := repo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, likers, got.NumberOfLikes)
	assert.Len(t, got.Likes, likers)

	var rows int64
	require.NoError(t, db.Model(&models.CommentLike{}).
		Where("comment_id = ?", comment.ID).Count(&rows).Error)
	assert.Equal(t, int64(likers), rows)
}

func TestCommentRepository_ListByPost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedAuthor(t, db)
	post := seedPost(t, db, author.ID)
	other := &models.Post{UserID: author.ID, Title: "Other Post", Slug: "other-post", Content: "body"}
	require.NoError(t, db.Create(other).Error)

	for _, content := range []string{"one", "two", "three"} {
		require.NoError(t, repo.Create(ctx, &models.Comment{PostID: post.ID, UserID: author.ID, Content: content}))
	}
	require.NoError(t, repo.Create(ctx, &models.Comment{PostID: other.ID, UserID: author.ID, Content: "elsewhere"}))

	comments, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 3)
	for _, c := range comments {
		assert.Equal(t, post.ID, c.PostID)
		assert.NotNil(t, c.Likes)
	}

	t.Run("post without comments", func(t *testing.T) {
		empty := &models.Post{UserID: author.ID, Title: "Quiet Post", Slug: "quiet-post", Content: "body"}
		require.NoError(t, db.Create(empty).Error)

		comments, err := repo.ListByPost(ctx, empty.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})
}

func TestCommentRepository_ListAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedAuthor(t, db)
	post := seedPost(t, db, author.ID)

	for _, content := range []string{"a", "b", "c", "d"} {
		require.NoError(t, repo.Create(ctx, &models.Comment{PostID: post.ID, UserID: author.ID, Content: content}))
	}

	comments, total, lastMonth, err := repo.ListAll(ctx, 3, 0, false)
	require.NoError(t, err)
	assert.Len(t, comments, 3)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, int64(4), lastMonth)

	comments, _, _, err = repo.ListAll(ctx, 3, 3, false)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestCommentRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedAuthor(t, db)
	post := seedPost(t, db, author.ID)

	comment := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "doomed"}
	require.NoError(t, repo.Create(ctx, comment))
	_, _, err := repo.ToggleLike(ctx, comment.ID, author.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, comment.ID))

	_, err = repo.GetByID(ctx, comment.ID)
	require.Error(t, err)

	// Like rows go with the comment.
	var rows int64
	require.NoError(t, db.Model(&models.CommentLike{}).
		Where("comment_id = ?", comment.ID).Count(&rows).Error)
	assert.Equal(t, int64(0), rows)

	t.Run("missing comment", func(t *testing.T) {
		err := repo.Delete(ctx, 9999)
		require.Error(t, err)

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}
