// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"time"

	"sunseeker/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db}
}

// CreateAdmin creates the admin account with a bcrypt-hashed password.
// It is a no-op when an admin already exists.
func (f *Factory) CreateAdmin(username, password string) (*models.Admin, error) {
	var existing models.Admin
	err := f.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	admin := &models.Admin{Username: username, Password: string(hash)}
	if err := f.db.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

// CreatePendingRequest creates a freshly submitted request with fake but
// plausible contents.
func (f *Factory) CreatePendingRequest(overrides ...func(*models.Request)) (*models.Request, error) {
	request := &models.Request{
		Name:      gofakeit.Name(),
		Email:     gofakeit.Email(),
		Message:   gofakeit.Paragraph(1, 3, 12, " "),
		CreatedAt: gofakeit.DateRange(time.Now().AddDate(0, -1, 0), time.Now()),
	}
	for _, override := range overrides {
		override(request)
	}

	if err := f.db.Create(request).Error; err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return request, nil
}

// CreateNotifiedRequest creates a request that already received its
// notification email and carries an outstanding verification token.
func (f *Factory) CreateNotifiedRequest(overrides ...func(*models.Request)) (*models.Request, error) {
	return f.CreatePendingRequest(append([]func(*models.Request){func(r *models.Request) {
		sentAt := gofakeit.DateRange(r.CreatedAt, time.Now())
		expiresAt := sentAt.Add(24 * time.Hour)
		r.NotificationSent = true
		r.NotificationSentAt = &sentAt
		r.VerificationToken = gofakeit.LetterN(64)
		r.VerificationTokenExpiresAt = &expiresAt
	}}, overrides...)...)
}

// CreateVerifiedRequest creates a request whose payment was verified with a
// reference and a stub receipt image.
func (f *Factory) CreateVerifiedRequest(overrides ...func(*models.Request)) (*models.Request, error) {
	return f.CreateNotifiedRequest(append([]func(*models.Request){func(r *models.Request) {
		verifiedAt := gofakeit.DateRange(*r.NotificationSentAt, time.Now())
		r.VerificationUsed = true
		r.VerifiedAt = &verifiedAt
		r.PaymentReference = fmt.Sprintf("TXN-%s", gofakeit.DigitN(10))
		r.ReceiptImage = []byte(gofakeit.LetterN(128))
		r.ReceiptImageContentType = "image/png"
	}}, overrides...)...)
}

// CreateRepliedRequest creates a verified request the admin already
// answered.
func (f *Factory) CreateRepliedRequest(overrides ...func(*models.Request)) (*models.Request, error) {
	return f.CreateVerifiedRequest(append([]func(*models.Request){func(r *models.Request) {
		repliedAt := time.Now()
		r.RepliedTo = true
		r.ReplySentAt = &repliedAt
	}}, overrides...)...)
}
