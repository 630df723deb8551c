package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"sunseeker/internal/mailer"
	"sunseeker/internal/models"
	"sunseeker/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestRepoStub struct {
	createFn            func(context.Context, *models.Request) error
	getByIDFn           func(context.Context, uint) (*models.Request, error)
	listFn              func(context.Context) ([]*models.Request, error)
	listFilteredFn      func(context.Context, repository.RequestQuery) ([]*models.Request, error)
	listVerifiedFn      func(context.Context) ([]*models.Request, error)
	updateFieldsFn      func(context.Context, uint, map[string]interface{}) error
	deleteFn            func(context.Context, uint) error
	countFn             func(context.Context) (int64, error)
	countCreatedSinceFn func(context.Context, time.Time) (int64, error)
}

func (s *requestRepoStub) Create(ctx context.Context, request *models.Request) error {
	return s.createFn(ctx, request)
}
func (s *requestRepoStub) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	return s.getByIDFn(ctx, id)
}
func (s *requestRepoStub) List(ctx context.Context) ([]*models.Request, error) {
	return s.listFn(ctx)
}
func (s *requestRepoStub) ListFiltered(ctx context.Context, q repository.RequestQuery) ([]*models.Request, error) {
	return s.listFilteredFn(ctx, q)
}
func (s *requestRepoStub) ListVerified(ctx context.Context) ([]*models.Request, error) {
	return s.listVerifiedFn(ctx)
}
func (s *requestRepoStub) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return s.updateFieldsFn(ctx, id, fields)
}
func (s *requestRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *requestRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *requestRepoStub) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return s.countCreatedSinceFn(ctx, since)
}

func noopRequestRepo() *requestRepoStub {
	return &requestRepoStub{
		createFn:  func(context.Context, *models.Request) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Request, error) { return &models.Request{ID: id}, nil },
		listFn:    func(context.Context) ([]*models.Request, error) { return nil, nil },
		listFilteredFn: func(context.Context, repository.RequestQuery) ([]*models.Request, error) {
			return nil, nil
		},
		listVerifiedFn:      func(context.Context) ([]*models.Request, error) { return nil, nil },
		updateFieldsFn:      func(context.Context, uint, map[string]interface{}) error { return nil },
		deleteFn:            func(context.Context, uint) error { return nil },
		countFn:             func(context.Context) (int64, error) { return 0, nil },
		countCreatedSinceFn: func(context.Context, time.Time) (int64, error) { return 0, nil },
	}
}

type mailerStub struct {
	sendNotificationFn func(context.Context, mailer.Notification) (string, error)
	sendReplyFn        func(context.Context, mailer.Reply) (string, error)
}

func (m *mailerStub) SendNotification(ctx context.Context, in mailer.Notification) (string, error) {
	return m.sendNotificationFn(ctx, in)
}
func (m *mailerStub) SendReply(ctx context.Context, in mailer.Reply) (string, error) {
	return m.sendReplyFn(ctx, in)
}

func noopMailer() *mailerStub {
	return &mailerStub{
		sendNotificationFn: func(context.Context, mailer.Notification) (string, error) { return "msg-id", nil },
		sendReplyFn:        func(context.Context, mailer.Reply) (string, error) { return "msg-id", nil },
	}
}

// newTestService builds a service with deterministic token and clock.
func newTestService(repo repository.RequestRepository, m mailer.Mailer) *RequestService {
	svc := NewRequestService(repo, m, "https://example.test")
	svc.newToken = func() (string, error) { return "fixed-token", nil }
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

// assertCode asserts that err is an AppError with the given code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, "VALIDATION_ERROR")
}

func TestRequestService_Submit(t *testing.T) {
	t.Parallel()

	t.Run("persists sanitized fields with lowercased email", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		var saved *models.Request
		repo.createFn = func(_ context.Context, r *models.Request) error {
			saved = r
			return nil
		}
		svc := newTestService(repo, noopMailer())
		request, err := svc.Submit(context.Background(), SubmitInput{
			Name:    "  Ada <b>Lovelace</b>  ",
			Email:   "Ada@Example.COM",
			Message: "  hello there  ",
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "Ada bLovelace/b", saved.Name)
		assert.Equal(t, "ada@example.com", saved.Email)
		assert.Equal(t, "hello there", saved.Message)
		assert.Equal(t, models.RequestStatusPending, request.Status())
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(noopRequestRepo(), noopMailer())
		_, err := svc.Submit(context.Background(), SubmitInput{Name: "x", Email: "a@b.co"})
		assertValidationError(t, err)
	})

	t.Run("invalid email", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(noopRequestRepo(), noopMailer())
		_, err := svc.Submit(context.Background(), SubmitInput{
			Name: "x", Email: "no-at-sign", Message: "hi",
		})
		assertValidationError(t, err)
	})

	t.Run("name too long after sanitizing", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(noopRequestRepo(), noopMailer())
		_, err := svc.Submit(context.Background(), SubmitInput{
			Name:    strings.Repeat("x", 101),
			Email:   gofakeit.Email(),
			Message: "hi",
		})
		assertValidationError(t, err)
	})

	t.Run("message too long", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(noopRequestRepo(), noopMailer())
		_, err := svc.Submit(context.Background(), SubmitInput{
			Name:    gofakeit.Name(),
			Email:   gofakeit.Email(),
			Message: strings.Repeat("x", 2001),
		})
		assertValidationError(t, err)
	})

	t.Run("repo error propagates", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		repoErr := errors.New("db down")
		repo.createFn = func(context.Context, *models.Request) error { return repoErr }
		svc := newTestService(repo, noopMailer())
		_, err := svc.Submit(context.Background(), SubmitInput{
			Name: "x", Email: "a@b.co", Message: "hi",
		})
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestRequestService_Notify(t *testing.T) {
	t.Parallel()

	t.Run("persists token before sending and marks sent after", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Request, error) {
			return &models.Request{ID: id, Name: "Ada", Email: "ada@example.com"}, nil
		}
		var updates []map[string]interface{}
		repo.updateFieldsFn = func(_ context.Context, _ uint, fields map[string]interface{}) error {
			updates = append(updates, fields)
			return nil
		}
		m := noopMailer()
		var sentLink string
		m.sendNotificationFn = func(_ context.Context, in mailer.Notification) (string, error) {
			// The token must already be persisted when the send happens.
			require.Len(t, updates, 1)
			sentLink = in.VerifyLink
			return "smtp-msg-1", nil
		}
		svc := newTestService(repo, m)

		result, err := svc.Notify(context.Background(), NotifyInput{RequestID: 7})
		require.NoError(t, err)
		assert.Equal(t, "https://example.test/verify/7/fixed-token", result.VerifyLink)
		assert.Equal(t, result.VerifyLink, sentLink)
		assert.Equal(t, "smtp-msg-1", result.MessageID)

		require.Len(t, updates, 2)
		assert.Equal(t, "fixed-token", updates[0]["verification_token"])
		assert.Equal(t, false, updates[0]["verification_used"])
		expiry, ok := updates[0]["verification_token_expires_at"].(time.Time)
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC), expiry)
		assert.Equal(t, true, updates[1]["notification_sent"])
		assert.NotNil(t, updates[1]["notification_sent_at"])
	})

	t.Run("conflict after a successful notification", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Request, error) {
			return &models.Request{ID: id, NotificationSent: true, VerificationToken: "fixed-token"}, nil
		}
		svc := newTestService(repo, noopMailer())
		_, err := svc.Notify(context.Background(), NotifyInput{RequestID: 1})
		assertCode(t, err, "CONFLICT")
	})

	t.Run("reissues after an admin reset cleared the token", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		// Notified earlier, but DeleteVerification wiped the token fields.
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Request, error) {
			return &models.Request{ID: id, Email: "ada@example.com", NotificationSent: true}, nil
		}
		var updates []map[string]interface{}
		repo.updateFieldsFn = func(_ context.Context, _ uint, fields map[string]interface{}) error {
			updates = append(updates, fields)
			return nil
		}
		svc := newTestService(repo, noopMailer())

		result, err := svc.Notify(context.Background(), NotifyInput{RequestID: 1})
		require.NoError(t, err)
		assert.Contains(t, result.VerifyLink, "fixed-token")
		require.Len(t, updates, 2)
		assert.Equal(t, "fixed-token", updates[0]["verification_token"])
	})

	t.Run("delivery failure keeps the persisted token", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Request, error) {
			return &models.Request{ID: id, Email: "ada@example.com"}, nil
		}
		var updates []map[string]interface{}
		repo.updateFieldsFn = func(_ context.Context, _ uint, fields map[string]interface{}) error {
			updates = append(updates, fields)
			return nil
		}
		m := noopMailer()
		m.sendNotificationFn = func(context.Context, mailer.Notification) (string, error) {
			return "", errors.New("smtp refused")
		}
		svc := newTestService(repo, m)

		_, err := svc.Notify(context.Background(), NotifyInput{RequestID: 1})
		assertCode(t, err, "DELIVERY_ERROR")
		// Only the token write happened; notification flags were never set.
		require.Len(t, updates, 1)
		assert.Equal(t, "fixed-token", updates[0]["verification_token"])
	})

	t.Run("retry after failed send rotates the token", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		// Prior failed attempt left a token but notification_sent stayed false.
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Request, error) {
			return &models.Request{ID: id, Email: "ada@example.com", VerificationToken: "stale-token"}, nil
		}
		var tokens []string
		repo.updateFieldsFn = func(_ context.Context, _ uint, fields map[string]interface{}) error {
			if tok, ok := fields["verification_token"].(string); ok {
				tokens = append(tokens, tok)
			}
			return nil
		}
		svc := newTestService(repo, noopMailer())
		svc.newToken = func() (string, error) { return "rotated-token", nil }

		result, err := svc.Notify(context.Background(), NotifyInput{RequestID: 3})
		require.NoError(t, err)
		assert.Equal(t, []string{"rotated-token"}, tokens)
		assert.Contains(t, result.VerifyLink, "rotated-token")
	})

	t.Run("not found propagates", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Request, error) {
			return nil, models.NewNotFoundError("Request", id)
		}
		svc := newTestService(repo, noopMailer())
		_, err := svc.Notify(context.Background(), NotifyInput{RequestID: 99})
		assertCode(t, err, "NOT_FOUND")
	})
}

func TestRequestService_Verify(t *testing.T) {
	t.Parallel()

	notified := func(id uint) *models.Request {
		expires := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)
		sentAt := time.Date(2025, 6, 15, 11, 0, 0, 0, time.UTC)
		return &models.Request{
			ID:                         id,
			Email:                      "ada@example.com",
			NotificationSent:           true,
			NotificationSentAt:         &sentAt,
			VerificationToken:          "fixed-token",
			VerificationTokenExpiresAt: &expires,
		}
	}

	receipt := []byte{0xff, 0xd8, 0xff}

	t.Run("records payment proof and consumes the token", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Request, error) {
			return notified(id), nil
		}
		var fields map[string]interface{}
		repo.updateFieldsFn = func(_ context.Context, _ uint, f map[string]interface{}) error {
			fields = f
			return nil
		}
		svc := newTestService(repo, noopMailer())

		err := svc.Verify(context.Background(), VerifyInput{
			RequestID:          5,
			Token:              "fixed-token",
			Reference:          "  TXN-123 <x> ",
			Receipt:            receipt,
			ReceiptContentType: "image/jpeg",
		})
		require.NoError(t, err)
		require.NotNil(t, fields)
		assert.Equal(t, "TXN-123 x", fields["payment_reference"])
		assert.Equal(t, receipt, fields["receipt_image"])
		assert.Equal(t, "image/jpeg", fields["receipt_image_content_type"])
		assert.Equal(t, true, fields["verification_used"])
		assert.NotNil(t, fields["verified_at"])
		// The token itself stays on the record for audit.
		assert.NotContains(t, fields, "verification_token")
	})

	t.Run("already used wins over a mismatched token", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Request, error) {
			r := notified(id)
			r.VerificationUsed = true
			return r, nil
		}
		svc := newTestService(repo, noopMailer())
		err := svc.Verify(context.Background(), VerifyInput{
			RequestID: 5, Token: "wrong", Reference: "ref", Receipt: receipt, ReceiptContentType: "image/png",
		})
		assertCode(t, err, "CONFLICT")
	})

	t.Run("wrong token", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Request, error) {
			return notified(id), nil
		}
		svc := newTestService(repo, noopMailer())
		err := svc.Verify(context.Background(), VerifyInput{
			RequestID: 5, Token: "wrong", Reference: "ref", Receipt: receipt, ReceiptContentType: "image/png",
		})
		assertCode(t, err, "INVALID_TOKEN")
	})

	t.Run("no token issued yet", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Request, error) {
			return &models.Request{ID: id}, nil
		}
		svc := newTestService(repo, noopMailer())
		err := svc.Verify(context.Background(), VerifyInput{
			RequestID: 5, Token: "", Reference: "ref", Receipt: receipt, ReceiptContentType: "image/png",
		})
		assertCode(t, err, "INVALID_TOKEN")
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Request, error) {
			r := notified(id)
			past := time.Date(2025, 6, 15, 11, 59, 0, 0, time.UTC)
			r.VerificationTokenExpiresAt = &past
			return r, nil
		}
		svc := newTestService(repo, noopMailer())
		err := svc.Verify(context.Background(), VerifyInput{
			RequestID: 5, Token: "fixed-token", Reference: "ref", Receipt: receipt, ReceiptContentType: "image/png",
		})
		assertCode(t, err, "TOKEN_EXPIRED")
	})

	t.Run("reference required", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Request, error) {
			return notified(id), nil
		}
		svc := newTestService(repo, noopMailer())
		err := svc.Verify(context.Background(), VerifyInput{
			RequestID: 5, Token: "fixed-token", Reference: "   ", Receipt: receipt, ReceiptContentType: "image/png",
		})
		assertValidationError(t, err)
	})

	t.Run("receipt must be an image", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Request, error) {
			return notified(id), nil
		}
		svc := newTestService(repo, noopMailer())
		err := svc.Verify(context.Background(), VerifyInput{
			RequestID: 5, Token: "fixed-token", Reference: "ref", Receipt: receipt, ReceiptContentType: "application/pdf",
		})
		assertValidationError(t, err)

		err = svc.Verify(context.Background(), VerifyInput{
			RequestID: 5, Token: "fixed-token", Reference: "ref", ReceiptContentType: "image/png",
		})
		assertValidationError(t, err)
	})
}

func TestRequestService_Reply(t *testing.T) {
	t.Parallel()

	t.Run("sends and marks replied", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Request, error) {
			return &models.Request{ID: id, Name: "Ada", Email: "ada@example.com"}, nil
		}
		var fields map[string]interface{}
		repo.updateFieldsFn = func(_ context.Context, _ uint, f map[string]interface{}) error {
			fields = f
			return nil
		}
		m := noopMailer()
		var sent mailer.Reply
		m.sendReplyFn = func(_ context.Context, in mailer.Reply) (string, error) {
			sent = in
			return "smtp-msg-2", nil
		}
		svc := newTestService(repo, m)

		result, err := svc.Reply(context.Background(), 4, "  Thanks, we got it <script> ")
		require.NoError(t, err)
		assert.Equal(t, "smtp-msg-2", result.MessageID)
		assert.Equal(t, "ada@example.com", sent.To)
		assert.Equal(t, "Thanks, we got it script", sent.Body)
		require.NotNil(t, fields)
		assert.Equal(t, true, fields["replied_to"])
		assert.NotNil(t, fields["reply_sent_at"])
	})

	t.Run("allows a second reply", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		replied := time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Request, error) {
			return &models.Request{ID: id, Email: "ada@example.com", RepliedTo: true, ReplySentAt: &replied}, nil
		}
		svc := newTestService(repo, noopMailer())
		_, err := svc.Reply(context.Background(), 4, "follow-up")
		require.NoError(t, err)
	})

	t.Run("reply too long", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(noopRequestRepo(), noopMailer())
		_, err := svc.Reply(context.Background(), 4, strings.Repeat("x", 5001))
		assertValidationError(t, err)
	})

	t.Run("delivery failure leaves replied flag untouched", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Request, error) {
			return &models.Request{ID: id, Email: "ada@example.com"}, nil
		}
		updated := false
		repo.updateFieldsFn = func(context.Context, uint, map[string]interface{}) error {
			updated = true
			return nil
		}
		m := noopMailer()
		m.sendReplyFn = func(context.Context, mailer.Reply) (string, error) {
			return "", errors.New("smtp refused")
		}
		svc := newTestService(repo, m)
		_, err := svc.Reply(context.Background(), 4, "hello")
		assertCode(t, err, "DELIVERY_ERROR")
		assert.False(t, updated)
	})
}

func TestRequestService_DeleteVerification(t *testing.T) {
	t.Parallel()

	t.Run("clears payment proof and token state", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		verified := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Request, error) {
			return &models.Request{
				ID: id, NotificationSent: true,
				VerificationToken: "used-token", VerificationUsed: true,
				PaymentReference: "TXN-1", VerifiedAt: &verified,
			}, nil
		}
		var fields map[string]interface{}
		repo.updateFieldsFn = func(_ context.Context, _ uint, f map[string]interface{}) error {
			fields = f
			return nil
		}
		svc := newTestService(repo, noopMailer())

		require.NoError(t, svc.DeleteVerification(context.Background(), 9))
		require.NotNil(t, fields)
		assert.Equal(t, "", fields["payment_reference"])
		assert.Nil(t, fields["receipt_image"])
		assert.Nil(t, fields["verified_at"])
		assert.Equal(t, false, fields["verification_used"])
		assert.Equal(t, "", fields["verification_token"])
		// Notification state is preserved so the admin can re-notify or the
		// requester can verify again once a new token is issued.
		assert.NotContains(t, fields, "notification_sent")
	})

	t.Run("not found propagates", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Request, error) {
			return nil, models.NewNotFoundError("Request", id)
		}
		svc := newTestService(repo, noopMailer())
		assertCode(t, svc.DeleteVerification(context.Background(), 99), "NOT_FOUND")
	})
}

func TestRequestService_ListLogs(t *testing.T) {
	t.Parallel()

	t.Run("maps rows to log entries with derived status", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		sentAt := time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)
		repo.listFilteredFn = func(_ context.Context, q repository.RequestQuery) ([]*models.Request, error) {
			assert.Equal(t, models.RequestStatusNotified, q.Status)
			return []*models.Request{
				{ID: 2, Name: "Ada", Email: "ada@example.com", NotificationSent: true, NotificationSentAt: &sentAt},
			}, nil
		}
		svc := newTestService(repo, noopMailer())

		entries, err := svc.ListLogs(context.Background(), LogsInput{Status: "notified"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, models.RequestStatusNotified, entries[0].Status)
		assert.Equal(t, &sentAt, entries[0].NotificationSentAt)
	})

	t.Run("date bounds are inclusive on both ends", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		var got repository.RequestQuery
		repo.listFilteredFn = func(_ context.Context, q repository.RequestQuery) ([]*models.Request, error) {
			got = q
			return nil, nil
		}
		svc := newTestService(repo, noopMailer())

		_, err := svc.ListLogs(context.Background(), LogsInput{From: "2025-06-01", To: "2025-06-10"})
		require.NoError(t, err)
		require.NotNil(t, got.From)
		require.NotNil(t, got.Until)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *got.From)
		// To is inclusive of the whole day, so the upper bound is the next midnight.
		assert.Equal(t, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), *got.Until)
	})

	t.Run("ascending sort", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		var got repository.RequestQuery
		repo.listFilteredFn = func(_ context.Context, q repository.RequestQuery) ([]*models.Request, error) {
			got = q
			return nil, nil
		}
		svc := newTestService(repo, noopMailer())
		_, err := svc.ListLogs(context.Background(), LogsInput{Sort: SortDateAsc})
		require.NoError(t, err)
		assert.True(t, got.Ascending)
	})

	t.Run("unknown sort defaults to newest first", func(t *testing.T) {
		t.Parallel()
		repo := noopRequestRepo()
		var got repository.RequestQuery
		repo.listFilteredFn = func(_ context.Context, q repository.RequestQuery) ([]*models.Request, error) {
			got = q
			return nil, nil
		}
		svc := newTestService(repo, noopMailer())
		_, err := svc.ListLogs(context.Background(), LogsInput{Sort: "sideways"})
		require.NoError(t, err)
		assert.False(t, got.Ascending)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(noopRequestRepo(), noopMailer())
		_, err := svc.ListLogs(context.Background(), LogsInput{Status: "archived"})
		assertValidationError(t, err)
	})

	t.Run("invalid date", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(noopRequestRepo(), noopMailer())
		_, err := svc.ListLogs(context.Background(), LogsInput{From: "06/01/2025"})
		assertValidationError(t, err)
	})
}

func TestRequestService_ListVerified(t *testing.T) {
	t.Parallel()

	repo := noopRequestRepo()
	verified := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	repo.listVerifiedFn = func(context.Context) ([]*models.Request, error) {
		return []*models.Request{
			{
				ID: 3, Name: "Ada", Email: "ada@example.com",
				PaymentReference: "TXN-9", ReceiptImage: []byte{1, 2},
				ReceiptImageContentType: "image/png", VerifiedAt: &verified,
			},
		}, nil
	}
	svc := newTestService(repo, noopMailer())

	entries, err := svc.ListVerified(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "TXN-9", entries[0].PaymentReference)
	assert.Equal(t, verified, entries[0].VerifiedAt)
}

func TestRequestService_Stats(t *testing.T) {
	t.Parallel()

	repo := noopRequestRepo()
	repo.countFn = func(context.Context) (int64, error) { return 42, nil }
	var sinces []time.Time
	repo.countCreatedSinceFn = func(_ context.Context, since time.Time) (int64, error) {
		sinces = append(sinces, since)
		return int64(len(sinces)), nil
	}
	svc := newTestService(repo, noopMailer())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), stats.Total)
	require.Len(t, sinces, 2)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), sinces[0])
	assert.Equal(t, time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC), sinces[1])
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()
	a, err := GenerateToken()
	require.NoError(t, err)
	b, err := GenerateToken()
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
