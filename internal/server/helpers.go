package server

import (
	"errors"

	"sunseeker/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts the "id" route parameter as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondServiceError maps an AppError from the service layer onto the HTTP
// status that matches its code.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	status := fiber.StatusInternalServerError
	switch appErr.Code {
	case models.CodeValidation:
		status = fiber.StatusBadRequest
	case models.CodeNotFound:
		status = fiber.StatusNotFound
	case models.CodeConflict:
		status = fiber.StatusConflict
	case models.CodeInvalidToken:
		status = fiber.StatusUnauthorized
	case models.CodeTokenExpired:
		status = fiber.StatusGone
	case models.CodeDelivery:
		status = fiber.StatusBadGateway
	case models.CodeUnauthorized:
		status = fiber.StatusUnauthorized
	}
	return models.RespondWithError(c, status, appErr)
}
