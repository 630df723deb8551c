package server

import (
	"errors"
	"io"
	"mime/multipart"

	"sunseeker/internal/models"
	"sunseeker/internal/notifications"
	"sunseeker/internal/observability"
	"sunseeker/internal/service"

	"github.com/gofiber/fiber/v2"
)

// readFormFile reads an uploaded multipart file into memory and returns its
// bytes and declared content type.
func readFormFile(fh *multipart.FileHeader) ([]byte, string, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, fh.Header.Get("Content-Type"), nil
}

// SubmitRequest handles POST /api/requests
func (s *Server) SubmitRequest(c *fiber.Ctx) error {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	request, err := s.requestService.Submit(c.Context(), service.SubmitInput{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	observability.RequestsSubmitted.Inc()
	s.publishEvent(notifications.EventRequestSubmitted, request.ID, request.Status())

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Request submitted successfully",
		"request": request,
	})
}

// VerifyRequest handles POST /api/requests/:id/verify/:token. The requester
// posts a multipart form with a payment reference and a receipt image.
func (s *Server) VerifyRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	token := c.Params("token")

	reference := c.FormValue("reference")

	var receipt []byte
	var receiptType string
	if fh, fileErr := c.FormFile("receipt"); fileErr == nil {
		receipt, receiptType, err = readFormFile(fh)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Could not read receipt upload"))
		}
	}

	err = s.requestService.Verify(c.Context(), service.VerifyInput{
		RequestID:          id,
		Token:              token,
		Reference:          reference,
		Receipt:            receipt,
		ReceiptContentType: receiptType,
	})
	if err != nil {
		observability.VerificationAttempts.WithLabelValues(verifyOutcome(err)).Inc()
		return respondServiceError(c, err)
	}

	observability.VerificationAttempts.WithLabelValues("success").Inc()
	// Status is derived from the stored flags; a verify against an
	// orphaned token (send failed earlier) lands on paid, not complete.
	if verified, getErr := s.requestService.Get(c.Context(), id); getErr == nil {
		s.publishEvent(notifications.EventRequestVerified, id, verified.Status())
	}

	return c.JSON(fiber.Map{
		"message": "Payment verified successfully",
	})
}

// verifyOutcome maps a verification failure to its metric label.
func verifyOutcome(err error) string {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return "error"
	}
	switch appErr.Code {
	case models.CodeConflict:
		return "already_verified"
	case models.CodeInvalidToken:
		return "invalid_token"
	case models.CodeTokenExpired:
		return "expired"
	case models.CodeValidation:
		return "invalid_payload"
	case models.CodeNotFound:
		return "not_found"
	default:
		return "error"
	}
}
