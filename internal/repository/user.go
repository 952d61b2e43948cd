// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int, ascending bool) ([]models.User, int64, int64, error)
	CreateDefaultAdmin(ctx context.Context, user *models.User) (bool, error)
}

type userRepository struct {
	db      *gorm.DB
	log     *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db:      db,
		log:     observability.NewRepoLogger("users"),
		metrics: observability.NewDatabaseMetrics(),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer r.metrics.TrackQuery("get_by_id", "users")()

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User")
		}
		r.log.LogError(ctx, err, "get_by_id")
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user has the email, so callers can
// distinguish "absent" from a persistence failure.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.LogError(ctx, err, "get_by_email")
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByUsername returns (nil, nil) when no user has the username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.LogError(ctx, err, "get_by_username")
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer r.metrics.TrackQuery("create", "users")()

	existing, err := r.GetByUsername(ctx, user.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return models.NewConflictError("Username is already taken")
	}

	existing, err = r.GetByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return models.NewConflictError("Email is already registered")
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		// A concurrent signup can slip past the pre-checks.
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already exists")
		}
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; SQLite reports "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Username or email is already taken")
		}
		r.log.LogError(ctx, err, "update")
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete")
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User")
	}
	return nil
}

// List returns a page of users plus the total user count and the count of
// users created in the trailing 30 days.
func (r *userRepository) List(ctx context.Context, limit, offset int, ascending bool) ([]models.User, int64, int64, error) {
	defer r.metrics.TrackQuery("list", "users")()

	order := "created_at DESC"
	if ascending {
		order = "created_at ASC"
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Order(order).Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		r.log.LogError(ctx, err, "list")
		return nil, 0, 0, models.NewInternalError(err)
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, 0, models.NewInternalError(err)
	}

	oneMonthAgo := time.Now().AddDate(0, 0, -30)
	var lastMonth int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("created_at >= ?", oneMonthAgo).Count(&lastMonth).Error; err != nil {
		return nil, 0, 0, models.NewInternalError(err)
	}

	return users, total, lastMonth, nil
}

// CreateDefaultAdmin inserts the bootstrap admin account if no user with its
// email exists yet. It reports whether a new account was created.
func (r *userRepository) CreateDefaultAdmin(ctx context.Context, user *models.User) (bool, error) {
	existing, err := r.GetByEmail(ctx, user.Email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	user.IsAdmin = true
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return false, nil
		}
		r.log.LogError(ctx, err, "create_default_admin")
		return false, models.NewInternalError(err)
	}
	return true, nil
}
