// Package service implements the request lifecycle engine: submission,
// notification, payment verification, replies, and the admin log view.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"sunseeker/internal/mailer"
	"sunseeker/internal/models"
	"sunseeker/internal/repository"
	"sunseeker/internal/validation"
)

// VerificationTokenTTL is how long a one-time verification link stays valid.
const VerificationTokenTTL = 24 * time.Hour

// RequestService owns all state transitions and validation rules for a
// Request. It holds no state between calls; everything lives in the store.
type RequestService struct {
	requestRepo repository.RequestRepository
	mailer      mailer.Mailer
	baseURL     string
	newToken    func() (string, error)
	now         func() time.Time
}

// NewRequestService creates the lifecycle engine. baseURL is the public base
// used when constructing verification links.
func NewRequestService(requestRepo repository.RequestRepository, m mailer.Mailer, baseURL string) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		mailer:      m,
		baseURL:     strings.TrimRight(baseURL, "/"),
		newToken:    GenerateToken,
		now:         time.Now,
	}
}

// GenerateToken produces a high-entropy opaque token for one-time
// verification links.
func GenerateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

type SubmitInput struct {
	Name    string
	Email   string
	Message string
}

// Submit validates and persists a new public request. It never partially
// persists: validation happens entirely before the create.
func (s *RequestService) Submit(ctx context.Context, in SubmitInput) (*models.Request, error) {
	if in.Name == "" || in.Email == "" || in.Message == "" {
		return nil, models.NewValidationError("Name, email, and message are required")
	}

	name := validation.Sanitize(in.Name)
	email := strings.ToLower(validation.Sanitize(in.Email))
	message := validation.Sanitize(in.Message)

	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateMessage(message); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	request := &models.Request{
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: s.now(),
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

type NotifyInput struct {
	RequestID uint
	Caption   string
	Image     *mailer.InlineImage
}

type NotifyResult struct {
	VerifyLink string
	MessageID  string
}

// Notify issues a fresh verification token, persists it, then sends the
// notification email. The token is persisted before the send so a delivery
// failure leaves a valid, resendable link; notification flags are only set
// once the send succeeds. A second notify after a successful one conflicts
// while its token is still on record; DeleteVerification clears the token,
// which reopens notify so the admin can restart the cycle.
func (s *RequestService) Notify(ctx context.Context, in NotifyInput) (*NotifyResult, error) {
	request, err := s.requestRepo.GetByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if request.NotificationSent && request.VerificationToken != "" {
		return nil, models.NewConflictError("Notification already sent for this request")
	}

	token, err := s.newToken()
	if err != nil {
		return nil, err
	}
	expiresAt := s.now().Add(VerificationTokenTTL)

	// Persist the token before attempting delivery. A retry after a failed
	// send rotates the token; the guard above only blocks after success.
	if err := s.requestRepo.UpdateFields(ctx, request.ID, map[string]interface{}{
		"verification_token":            token,
		"verification_token_expires_at": expiresAt,
		"verification_used":             false,
	}); err != nil {
		return nil, err
	}

	verifyLink := fmt.Sprintf("%s/verify/%d/%s", s.baseURL, request.ID, token)

	messageID, err := s.mailer.SendNotification(ctx, mailer.Notification{
		To:         request.Email,
		Name:       request.Name,
		Request:    request,
		VerifyLink: verifyLink,
		Caption:    validation.Sanitize(in.Caption),
		Image:      in.Image,
	})
	if err != nil {
		return nil, models.NewDeliveryError(err)
	}

	if err := s.requestRepo.UpdateFields(ctx, request.ID, map[string]interface{}{
		"notification_sent":    true,
		"notification_sent_at": s.now(),
	}); err != nil {
		return nil, err
	}

	return &NotifyResult{VerifyLink: verifyLink, MessageID: messageID}, nil
}

type VerifyInput struct {
	RequestID          uint
	Token              string
	Reference          string
	Receipt            []byte
	ReceiptContentType string
}

// Verify consumes a one-time token and records the payment proof. Checks run
// in a fixed order so each failure mode is distinct: existence, single-use,
// token match, expiry, then payload validation. The token is retained after
// consumption for audit; verificationUsed makes it inert.
func (s *RequestService) Verify(ctx context.Context, in VerifyInput) error {
	request, err := s.requestRepo.GetByID(ctx, in.RequestID)
	if err != nil {
		return err
	}

	if request.VerificationUsed {
		return models.NewConflictError("This request has already been verified")
	}
	if request.VerificationToken == "" || request.VerificationToken != in.Token {
		return models.NewInvalidTokenError("Invalid verification token")
	}
	if request.VerificationTokenExpiresAt == nil || !request.VerificationTokenExpiresAt.After(s.now()) {
		return models.NewTokenExpiredError("Verification link has expired")
	}

	reference := validation.Sanitize(in.Reference)
	if reference == "" {
		return models.NewValidationError("Payment reference is required")
	}
	if len(in.Receipt) == 0 {
		return models.NewValidationError("Receipt image is required")
	}
	if !strings.HasPrefix(in.ReceiptContentType, "image/") {
		return models.NewValidationError("Receipt must be an image")
	}

	return s.requestRepo.UpdateFields(ctx, request.ID, map[string]interface{}{
		"payment_reference":          reference,
		"receipt_image":              in.Receipt,
		"receipt_image_content_type": in.ReceiptContentType,
		"verified_at":                s.now(),
		"verification_used":          true,
	})
}

type ReplyResult struct {
	MessageID string
}

// Reply sends the admin's response email and marks the request replied.
// Unlike Notify there is no already-replied guard; an admin may send
// follow-up replies.
func (s *RequestService) Reply(ctx context.Context, requestID uint, replyMessage string) (*ReplyResult, error) {
	reply := validation.Sanitize(replyMessage)
	if err := validation.ValidateReply(reply); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	messageID, err := s.mailer.SendReply(ctx, mailer.Reply{
		To:      request.Email,
		Name:    request.Name,
		Body:    reply,
		Request: request,
	})
	if err != nil {
		return nil, models.NewDeliveryError(err)
	}

	if err := s.requestRepo.UpdateFields(ctx, request.ID, map[string]interface{}{
		"replied_to":    true,
		"reply_sent_at": s.now(),
	}); err != nil {
		return nil, err
	}

	return &ReplyResult{MessageID: messageID}, nil
}

// DeleteVerification rolls a request back to its pre-verification state:
// payment proof, verified timestamp, and token fields are all cleared so the
// admin can re-trigger the notify/verify flow. Notification flags are
// untouched.
func (s *RequestService) DeleteVerification(ctx context.Context, requestID uint) error {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}

	return s.requestRepo.UpdateFields(ctx, request.ID, map[string]interface{}{
		"payment_reference":             "",
		"receipt_image":                 nil,
		"receipt_image_content_type":    "",
		"verified_at":                   nil,
		"verification_used":             false,
		"verification_token":            "",
		"verification_token_expires_at": nil,
	})
}

// Sort orders accepted by ListLogs.
const (
	SortDateDesc = "date_desc"
	SortDateAsc  = "date_asc"
)

type LogsInput struct {
	Status string
	From   string // inclusive, "2006-01-02"
	To     string // inclusive, "2006-01-02"
	Sort   string
}

// ListLogs returns the filtered, sorted log view. Each call runs a fresh
// query; no cursor state is retained.
func (s *RequestService) ListLogs(ctx context.Context, in LogsInput) ([]models.LogEntry, error) {
	query := repository.RequestQuery{
		Ascending: in.Sort == SortDateAsc,
	}

	switch models.RequestStatus(in.Status) {
	case "", models.RequestStatusPending, models.RequestStatusNotified,
		models.RequestStatusPaid, models.RequestStatusComplete:
		query.Status = models.RequestStatus(in.Status)
	default:
		return nil, models.NewValidationError("Invalid status filter")
	}

	if in.From != "" {
		from, err := time.Parse("2006-01-02", in.From)
		if err != nil {
			return nil, models.NewValidationError("Invalid from date, expected YYYY-MM-DD")
		}
		query.From = &from
	}
	if in.To != "" {
		to, err := time.Parse("2006-01-02", in.To)
		if err != nil {
			return nil, models.NewValidationError("Invalid to date, expected YYYY-MM-DD")
		}
		// Inclusive date-only bound: anything before the next midnight.
		until := to.AddDate(0, 0, 1)
		query.Until = &until
	}

	requests, err := s.requestRepo.ListFiltered(ctx, query)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LogEntry, 0, len(requests))
	for _, r := range requests {
		entries = append(entries, models.LogEntry{
			ID:                 r.ID,
			Name:               r.Name,
			Email:              r.Email,
			Status:             r.Status(),
			CreatedAt:          r.CreatedAt,
			NotificationSentAt: r.NotificationSentAt,
			VerifiedAt:         r.VerifiedAt,
			RepliedTo:          r.RepliedTo,
		})
	}
	return entries, nil
}

// ListVerified returns requests carrying payment proof, projected to the
// fields the admin needs for reconciliation.
func (s *RequestService) ListVerified(ctx context.Context) ([]models.VerifiedEntry, error) {
	requests, err := s.requestRepo.ListVerified(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]models.VerifiedEntry, 0, len(requests))
	for _, r := range requests {
		if r.VerifiedAt == nil {
			continue
		}
		entries = append(entries, models.VerifiedEntry{
			ID:                      r.ID,
			Name:                    r.Name,
			Email:                   r.Email,
			PaymentReference:        r.PaymentReference,
			ReceiptImageContentType: r.ReceiptImageContentType,
			VerifiedAt:              *r.VerifiedAt,
		})
	}
	return entries, nil
}

// Get returns a single request by ID.
func (s *RequestService) Get(ctx context.Context, id uint) (*models.Request, error) {
	return s.requestRepo.GetByID(ctx, id)
}

// List returns all requests, newest first.
func (s *RequestService) List(ctx context.Context) ([]*models.Request, error) {
	return s.requestRepo.List(ctx)
}

// Delete removes a request entirely.
func (s *RequestService) Delete(ctx context.Context, id uint) error {
	return s.requestRepo.Delete(ctx, id)
}

type Stats struct {
	Total    int64 `json:"total"`
	Today    int64 `json:"today"`
	ThisWeek int64 `json:"thisWeek"`
}

// Stats returns submission counts for the admin overview.
func (s *RequestService) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.requestRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.requestRepo.CountCreatedSince(ctx, todayStart)
	if err != nil {
		return nil, err
	}

	week, err := s.requestRepo.CountCreatedSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}

	return &Stats{Total: total, Today: today, ThisWeek: week}, nil
}
