// Command main bootstraps or manages admin accounts.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin bootstrap              - Create the default admin from ADMIN_* config")
		fmt.Println("  go run ./cmd/admin list-admins            - List all admins")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch os.Args[1] {
	case "bootstrap":
		bootstrap(cfg, repository.NewUserRepository(db))
	case "list-admins":
		listAdmins(db)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

// bootstrap idempotently creates the default admin account from configuration.
func bootstrap(cfg *config.Config, users repository.UserRepository) {
	if cfg.AdminUsername == "" || cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Fatal("ADMIN_USERNAME, ADMIN_EMAIL, and ADMIN_PASSWORD must be set")
	}

	hash, err := auth.NewPasswordHasher().Hash(cfg.AdminPassword)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	created, err := users.CreateDefaultAdmin(context.Background(), &models.User{
		Username:       cfg.AdminUsername,
		Email:          cfg.AdminEmail,
		Password:       hash,
		ProfilePicture: models.DefaultProfilePicture,
	})
	if err != nil {
		log.Fatalf("Failed to create default admin: %v", err)
	}

	if created {
		fmt.Printf("Created admin account %q\n", cfg.AdminUsername)
	} else {
		fmt.Printf("Admin account %q already exists, nothing to do\n", cfg.AdminUsername)
	}
}

func listAdmins(db *gorm.DB) {
	var admins []models.User
	if err := db.Where("is_admin = ?", true).Order("created_at ASC").Find(&admins).Error; err != nil {
		log.Fatalf("Failed to list admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admin accounts found")
		return
	}

	fmt.Printf("%-6s %-24s %-40s %s\n", "ID", "USERNAME", "EMAIL", "CREATED")
	for _, admin := range admins {
		fmt.Printf("%-6d %-24s %-40s %s\n",
			admin.ID, admin.Username, admin.Email, admin.CreatedAt.Format("2006-01-02"))
	}
}
