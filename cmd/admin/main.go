// Command admin manages the administrator account from the command line.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"sunseeker/internal/config"
	"sunseeker/internal/database"
	"sunseeker/internal/models"
	"sunseeker/internal/repository"
	"sunseeker/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin create <username> <password>          - Create the admin account")
		fmt.Println("  go run ./cmd/admin reset-password <username> <password>  - Reset the admin password")
		fmt.Println("  go run ./cmd/admin show                                  - Show the admin account")
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
	case "create":
		if len(os.Args) < 4 {
			fmt.Println("Usage: go run ./cmd/admin create <username> <password>")
			os.Exit(1)
		}
		createAdmin(db, os.Args[2], os.Args[3])

	case "reset-password":
		if len(os.Args) < 4 {
			fmt.Println("Usage: go run ./cmd/admin reset-password <username> <password>")
			os.Exit(1)
		}
		resetPassword(db, os.Args[2], os.Args[3])

	case "show":
		showAdmin(db)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func createAdmin(db *gorm.DB, username, password string) {
	ctx := context.Background()
	repo := repository.NewAdminRepository(db)

	if err := validation.ValidateUsername(username); err != nil {
		log.Fatalf("Invalid username: %v", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		log.Fatalf("Invalid password: %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to check existing admins: %v", err)
	}
	if count > 0 {
		log.Fatal("An admin account already exists; use reset-password instead")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &models.Admin{Username: username, Password: string(hash)}
	if err := repo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Created admin account %q (ID %d)\n", admin.Username, admin.ID)
}

func resetPassword(db *gorm.DB, username, password string) {
	ctx := context.Background()
	repo := repository.NewAdminRepository(db)

	if err := validation.ValidatePassword(password); err != nil {
		log.Fatalf("Invalid password: %v", err)
	}

	admin, err := repo.GetByUsername(ctx, username)
	if err != nil {
		log.Fatalf("Failed to look up admin: %v", err)
	}
	if admin == nil {
		log.Fatalf("No admin account named %q", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	if err := db.Model(&models.Admin{}).Where("id = ?", admin.ID).
		Update("password", string(hash)).Error; err != nil {
		log.Fatalf("Failed to update password: %v", err)
	}

	fmt.Printf("Password updated for %q\n", admin.Username)
}

func showAdmin(db *gorm.DB) {
	var admins []models.Admin
	if err := db.Find(&admins).Error; err != nil {
		log.Fatalf("Failed to list admins: %v", err)
	}
	if len(admins) == 0 {
		fmt.Println("No admin account configured")
		return
	}
	for _, a := range admins {
		fmt.Printf("ID %d  username=%s  created=%s\n", a.ID, a.Username, a.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}
