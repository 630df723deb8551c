// Package bootstrap establishes runtime dependencies shared by the server
// and the CLI tools.
package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"sunseeker/internal/cache"
	"sunseeker/internal/config"
	"sunseeker/internal/database"
	"sunseeker/internal/models"
	"sunseeker/internal/seed"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoData bool
}

// InitRuntime connects to DB and Redis and optionally runs development
// seeding. The Redis client may be nil when the instance is unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureDevAdmin(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
	}

	if opts.SeedDemoData {
		if err := seed.Run(db, seed.DefaultOptions()); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo requests: %w", err)
		}
	}

	return db, r, nil
}

// ensureDevAdmin creates the admin account in development so the dashboard
// is usable without going through first-time registration.
func ensureDevAdmin(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapAdmin {
		return nil
	}

	username := strings.TrimSpace(cfg.DevAdminUsername)
	if username == "" {
		username = "admin"
	}
	password := cfg.DevAdminPassword
	if password == "" {
		return fmt.Errorf("DEV_ADMIN_PASSWORD must be set when DEV_BOOTSTRAP_ADMIN is enabled")
	}

	var existing models.Admin
	err := db.Where("username = ?", username).First(&existing).Error
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if err := db.Create(&models.Admin{
		Username: username,
		Password: string(hashedPassword),
	}).Error; err != nil {
		return err
	}

	log.Printf("development admin bootstrap ensured (%s)", username)
	return nil
}
