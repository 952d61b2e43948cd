package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
)

// PostSearch holds the optional filters and paging options for Search.
// Zero values mean "no filter".
type PostSearch struct {
	UserID     uint
	Category   string
	Slug       string
	PostID     uint
	SearchTerm string
	StartIndex int
	Limit      int
	Ascending  bool
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	Search(ctx context.Context, q PostSearch) ([]models.Post, int64, int64, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (*models.Post, error)
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

// Create persists a new post, deriving its slug from the title. A duplicate
// title is rejected outright; a slug collision with a different title gets a
// timestamp suffix so both posts can coexist.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("title = ?", post.Title).Count(&count).Error; err != nil {
		return models.NewInternalError(err)
	}
	if count > 0 {
		return models.NewConflictError("A post with this title already exists")
	}

	slug := Slugify(post.Title)
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("slug = ?", slug).Count(&count).Error; err != nil {
		return models.NewInternalError(err)
	}
	if count > 0 {
		slug = fmt.Sprintf("%s-%d", slug, time.Now().Unix())
	}
	post.Slug = slug

	if post.Category == "" {
		post.Category = models.DefaultPostCategory
	}
	if post.Image == "" {
		post.Image = models.DefaultPostImage
	}

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A post with this title already exists")
		}
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		r.log.LogError(ctx, err, "get_by_id")
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		r.log.LogError(ctx, err, "get_by_slug")
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// Search returns the page of posts matching q, the total count of matching
// posts, and the count of posts (across the whole collection) created in the
// trailing 30 days.
func (r *postRepository) Search(ctx context.Context, q PostSearch) ([]models.Post, int64, int64, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "search", "posts")
	defer span.End()

	limit := q.Limit
	if limit <= 0 {
		limit = 9
	}
	order := "updated_at DESC"
	if q.Ascending {
		order = "updated_at ASC"
	}

	query := r.db.WithContext(ctx).Model(&models.Post{})
	if q.UserID != 0 {
		query = query.Where("user_id = ?", q.UserID)
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Slug != "" {
		query = query.Where("slug = ?", q.Slug)
	}
	if q.PostID != 0 {
		query = query.Where("id = ?", q.PostID)
	}
	if q.SearchTerm != "" {
		// LOWER() keeps the match case-insensitive on both Postgres and SQLite.
		term := "%" + q.SearchTerm + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?)", term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.log.LogError(ctx, err, "search")
		return nil, 0, 0, models.NewInternalError(err)
	}

	var posts []models.Post
	if err := query.Order(order).Offset(q.StartIndex).Limit(limit).Find(&posts).Error; err != nil {
		r.log.LogError(ctx, err, "search")
		return nil, 0, 0, models.NewInternalError(err)
	}

	oneMonthAgo := time.Now().AddDate(0, 0, -30)
	var lastMonth int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("created_at >= ?", oneMonthAgo).Count(&lastMonth).Error; err != nil {
		return nil, 0, 0, models.NewInternalError(err)
	}

	return posts, total, lastMonth, nil
}

// Update applies a partial update to the post's content fields. The slug is
// left untouched so existing links keep working after a title edit.
func (r *postRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (*models.Post, error) {
	post, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(post).Updates(updates).Error; err != nil {
			if isUniqueConstraintError(err) {
				return nil, models.NewConflictError("A post with this title already exists")
			}
			r.log.LogError(ctx, err, "update")
			return nil, models.NewInternalError(err)
		}
	}
	return post, nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete")
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post")
	}
	return nil
}
