package seed

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// Options control what demo data gets created.
type Options struct {
	Pending  int
	Notified int
	Verified int
	Replied  int
}

// DefaultOptions seeds a small spread of requests across every lifecycle
// stage, enough to populate the dashboard views.
func DefaultOptions() Options {
	return Options{Pending: 5, Notified: 3, Verified: 2, Replied: 2}
}

// Run populates the database with demo requests.
func Run(db *gorm.DB, opts Options) error {
	f := NewFactory(db)

	for i := 0; i < opts.Pending; i++ {
		if _, err := f.CreatePendingRequest(); err != nil {
			return fmt.Errorf("seed pending request: %w", err)
		}
	}
	for i := 0; i < opts.Notified; i++ {
		if _, err := f.CreateNotifiedRequest(); err != nil {
			return fmt.Errorf("seed notified request: %w", err)
		}
	}
	for i := 0; i < opts.Verified; i++ {
		if _, err := f.CreateVerifiedRequest(); err != nil {
			return fmt.Errorf("seed verified request: %w", err)
		}
	}
	for i := 0; i < opts.Replied; i++ {
		if _, err := f.CreateRepliedRequest(); err != nil {
			return fmt.Errorf("seed replied request: %w", err)
		}
	}

	total := opts.Pending + opts.Notified + opts.Verified + opts.Replied
	log.Printf("Seeded %d demo requests", total)
	return nil
}
