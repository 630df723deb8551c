// Command seed populates the database with demo requests for development.
package main

import (
	"flag"
	"log"
	"strings"

	"sunseeker/internal/config"
	"sunseeker/internal/database"
	"sunseeker/internal/models"
	"sunseeker/internal/seed"
)

func main() {
	pending := flag.Int("pending", 5, "Number of pending requests to create")
	notified := flag.Int("notified", 3, "Number of notified requests to create")
	verified := flag.Int("verified", 2, "Number of verified requests to create")
	replied := flag.Int("replied", 2, "Number of replied requests to create")
	shouldClean := flag.Bool("clean", false, "Delete existing requests before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if strings.EqualFold(cfg.Env, "production") {
		log.Fatal("Refusing to seed demo data in production")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *shouldClean {
		if err := db.Where("1 = 1").Delete(&models.Request{}).Error; err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		log.Println("Cleared existing requests")
	}

	err = seed.Run(db, seed.Options{
		Pending:  *pending,
		Notified: *notified,
		Verified: *verified,
		Replied:  *replied,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
