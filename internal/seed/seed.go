// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var categories = []string{
	"uncategorized", "golang", "javascript", "devops", "databases",
	"career", "opinion", "tutorials", "reviews",
}

// Seed populates the database with fake blog data.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	posts, err := createPosts(db, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	comments, err := createComments(db, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("created %d comments", len(comments))

	if err := likeComments(db, users, comments); err != nil {
		return fmt.Errorf("failed to like comments: %w", err)
	}

	log.Println("Seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	for _, model := range []interface{}{
		&models.CommentLike{}, &models.Comment{}, &models.Post{}, &models.User{},
	} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, n int) ([]models.User, error) {
	// One shared hash keeps seeding fast; every seeded account signs in
	// with "password123".
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("%s%04d", sanitizeUsername(gofakeit.Username()), i)
		user := models.User{
			Username:       username,
			Email:          fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
			Password:       string(hash),
			ProfilePicture: models.DefaultProfilePicture,
			IsAdmin:        i == 0,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func sanitizeUsername(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) < 2 {
		s = "writer"
	}
	return s
}

func createPosts(db *gorm.DB, users []models.User, n int) ([]models.Post, error) {
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]
		title := fmt.Sprintf("%s %d", strings.TrimSuffix(gofakeit.Sentence(5), "."), i)
		post := models.Post{
			UserID:   author.ID,
			Title:    title,
			Slug:     fmt.Sprintf("%s-%d", repository.Slugify(title), i),
			Content:  gofakeit.Paragraph(2, 4, 8, "\n\n"),
			Image:    models.DefaultPostImage,
			Category: categories[rand.Intn(len(categories))],
		}
		if err := db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createComments(db *gorm.DB, users []models.User, posts []models.Post) ([]models.Comment, error) {
	var comments []models.Comment
	for _, post := range posts {
		for i := 0; i < rand.Intn(5); i++ {
			comment := models.Comment{
				PostID:  post.ID,
				UserID:  users[rand.Intn(len(users))].ID,
				Content: gofakeit.Sentence(rand.Intn(12) + 3),
			}
			if err := db.Create(&comment).Error; err != nil {
				return nil, err
			}
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

// likeComments adds like rows and keeps number_of_likes consistent with them.
func likeComments(db *gorm.DB, users []models.User, comments []models.Comment) error {
	for _, comment := range comments {
		likers := rand.Perm(len(users))[:rand.Intn(min(len(users), 6))]
		for _, idx := range likers {
			like := models.CommentLike{CommentID: comment.ID, UserID: users[idx].ID}
			if err := db.Create(&like).Error; err != nil {
				return err
			}
		}
		if len(likers) > 0 {
			if err := db.Model(&models.Comment{}).Where("id = ?", comment.ID).
				Update("number_of_likes", len(likers)).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
