// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// RequestStatus is the derived lifecycle status of a request. It is computed
// from the stored flags and timestamps on every read and never persisted.
type RequestStatus string

const (
	// RequestStatusPending indicates a freshly submitted request.
	RequestStatusPending RequestStatus = "pending"
	// RequestStatusNotified indicates the notification email was sent but
	// payment has not been verified yet.
	RequestStatusNotified RequestStatus = "notified"
	// RequestStatusPaid indicates the requester submitted payment verification.
	RequestStatusPaid RequestStatus = "paid"
	// RequestStatusComplete indicates both notification and verification happened.
	RequestStatusComplete RequestStatus = "complete"
)

// Request is a single intake submission progressing through the lifecycle
// submitted -> notified -> verification-pending -> verified/paid -> replied.
type Request struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Email   string `gorm:"size:255;not null;index" json:"email"`
	Message string `gorm:"type:text;not null" json:"message"`

	NotificationSent   bool       `gorm:"not null;default:false" json:"notification_sent"`
	NotificationSentAt *time.Time `json:"notification_sent_at,omitempty"`

	RepliedTo   bool       `gorm:"not null;default:false" json:"replied_to"`
	ReplySentAt *time.Time `json:"reply_sent_at,omitempty"`

	// One-time payment verification. The token is persisted before the
	// notification email is dispatched and becomes inert once used.
	VerificationToken          string     `gorm:"size:128;index" json:"-"`
	VerificationTokenExpiresAt *time.Time `json:"-"`
	VerificationUsed           bool       `gorm:"not null;default:false" json:"verification_used"`

	PaymentReference        string     `gorm:"size:255" json:"payment_reference,omitempty"`
	ReceiptImage            []byte     `json:"-"`
	ReceiptImageContentType string     `gorm:"size:100" json:"receipt_image_content_type,omitempty"`
	VerifiedAt              *time.Time `json:"verified_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Status computes the derived lifecycle status. Recomputing on every read
// avoids drift between a stored enum and the underlying flags.
func (r *Request) Status() RequestStatus {
	switch {
	case r.NotificationSentAt != nil && r.VerifiedAt != nil:
		return RequestStatusComplete
	case r.VerifiedAt != nil:
		return RequestStatusPaid
	case r.NotificationSent:
		return RequestStatusNotified
	default:
		return RequestStatusPending
	}
}

// HasActiveToken reports whether an unconsumed verification token is
// outstanding as of now. An active token past its expiry is observably
// expired without a stored transition.
func (r *Request) HasActiveToken(now time.Time) bool {
	if r.VerificationUsed || r.VerificationToken == "" {
		return false
	}
	return r.VerificationTokenExpiresAt != nil && r.VerificationTokenExpiresAt.After(now)
}

// LogEntry is the read-only projection of a request for the admin log view.
type LogEntry struct {
	ID                 uint          `json:"id"`
	Name               string        `json:"name"`
	Email              string        `json:"email"`
	Status             RequestStatus `json:"status"`
	CreatedAt          time.Time     `json:"created_at"`
	NotificationSentAt *time.Time    `json:"notification_sent_at,omitempty"`
	VerifiedAt         *time.Time    `json:"verified_at,omitempty"`
	RepliedTo          bool          `json:"replied_to"`
}

// VerifiedEntry is the projection of a verified request exposing only the
// fields the admin needs to reconcile payments.
type VerifiedEntry struct {
	ID                      uint      `json:"id"`
	Name                    string    `json:"name"`
	Email                   string    `json:"email"`
	PaymentReference        string    `json:"payment_reference"`
	ReceiptImageContentType string    `json:"receipt_image_content_type"`
	VerifiedAt              time.Time `json:"verified_at"`
}
