package repository

import (
	"context"
	"errors"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for comments and their likes.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	UpdateContent(ctx context.Context, id uint, content string) (*models.Comment, error)
	Delete(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, commentID, userID uint) (*models.Comment, bool, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	ListAll(ctx context.Context, limit, offset int, ascending bool) ([]models.Comment, int64, int64, error)
}

type commentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, log: observability.NewRepoLogger("comments")}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	comment.Likes = []uint{}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment")
		}
		r.log.LogError(ctx, err, "get_by_id")
		return nil, models.NewInternalError(err)
	}
	if err := r.loadLikes(ctx, []*models.Comment{&comment}); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id uint, content string) (*models.Comment, error) {
	comment, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(comment).Update("content", content).Error; err != nil {
		r.log.LogError(ctx, err, "update_content")
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Comment{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("comment_id = ?", id).Delete(&models.CommentLike{}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment")
		}
		r.log.LogError(ctx, err, "delete")
		return models.NewInternalError(err)
	}
	return nil
}

// ToggleLike flips the user's like on the comment inside a single transaction
// and keeps the denormalized counter in step with the like rows. It returns
// the refreshed comment and whether the comment ended up liked.
func (r *commentRepository) ToggleLike(ctx context.Context, commentID, userID uint) (*models.Comment, bool, error) {
	span, ctx := observability.NewSpan(ctx, "comment.toggle_like")
	defer span.End()
	span.AddAttributes(
		attribute.Int("comment.id", int(commentID)),
		attribute.Int("user.id", int(userID)),
	)

	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			return err
		}

		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
			Delete(&models.CommentLike{})
		if res.Error != nil {
			return res.Error
		}

		delta := -1
		if res.RowsAffected == 0 {
			// No like row existed, so this toggle adds one.
			if err := tx.Create(&models.CommentLike{CommentID: commentID, UserID: userID}).Error; err != nil {
				return err
			}
			delta = 1
			liked = true
		}

		return tx.Model(&models.Comment{}).Where("id = ?", commentID).
			Update("number_of_likes", gorm.Expr("number_of_likes + ?", delta)).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, models.NewNotFoundError("Comment")
		}
		span.SetError(err)
		r.log.LogError(ctx, err, "toggle_like")
		return nil, false, models.NewInternalError(err)
	}
	span.AddAttributes(attribute.Bool("comment.liked", liked))

	comment, err := r.GetByID(ctx, commentID)
	if err != nil {
		return nil, false, err
	}
	return comment, liked, nil
}

// ListByPost returns the post's comments, newest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).
		Order("created_at DESC").Find(&comments).Error; err != nil {
		r.log.LogError(ctx, err, "list_by_post")
		return nil, models.NewInternalError(err)
	}
	if err := r.loadLikesSlice(ctx, comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// ListAll returns a page of all comments for the admin dashboard plus the
// total comment count and the count created in the trailing 30 days.
func (r *commentRepository) ListAll(ctx context.Context, limit, offset int, ascending bool) ([]models.Comment, int64, int64, error) {
	order := "created_at DESC"
	if ascending {
		order = "created_at ASC"
	}

	var comments []models.Comment
	if err := r.db.WithContext(ctx).Order(order).Limit(limit).Offset(offset).
		Find(&comments).Error; err != nil {
		r.log.LogError(ctx, err, "list_all")
		return nil, 0, 0, models.NewInternalError(err)
	}
	if err := r.loadLikesSlice(ctx, comments); err != nil {
		return nil, 0, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Count(&total).Error; err != nil {
		return nil, 0, 0, models.NewInternalError(err)
	}

	oneMonthAgo := time.Now().AddDate(0, 0, -30)
	var lastMonth int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("created_at >= ?", oneMonthAgo).Count(&lastMonth).Error; err != nil {
		return nil, 0, 0, models.NewInternalError(err)
	}

	return comments, total, lastMonth, nil
}

func (r *commentRepository) loadLikesSlice(ctx context.Context, comments []models.Comment) error {
	ptrs := make([]*models.Comment, len(comments))
	for i := range comments {
		ptrs[i] = &comments[i]
	}
	return r.loadLikes(ctx, ptrs)
}

// loadLikes fills each comment's Likes slice with the ids of users who liked
// it, using one query for the whole batch.
func (r *commentRepository) loadLikes(ctx context.Context, comments []*models.Comment) error {
	if len(comments) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}

	var likes []models.CommentLike
	if err := r.db.WithContext(ctx).Where("comment_id IN ?", ids).Find(&likes).Error; err != nil {
		r.log.LogError(ctx, err, "load_likes")
		return models.NewInternalError(err)
	}

	byComment := make(map[uint][]uint, len(comments))
	for _, like := range likes {
		byComment[like.CommentID] = append(byComment[like.CommentID], like.UserID)
	}
	for _, c := range comments {
		if userIDs, ok := byComment[c.ID]; ok {
			c.Likes = userIDs
		} else {
			c.Likes = []uint{}
		}
	}
	return nil
}
