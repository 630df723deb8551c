package server

import (
	"sunseeker/internal/mailer"
	"sunseeker/internal/models"
	"sunseeker/internal/observability"
	"sunseeker/internal/service"

	"github.com/gofiber/fiber/v2"
)

// requestView decorates a Request with its derived status for admin listings.
type requestView struct {
	*models.Request
	Status     models.RequestStatus `json:"status"`
	HasReceipt bool                 `json:"has_receipt"`
}

func newRequestView(r *models.Request) requestView {
	return requestView{
		Request:    r,
		Status:     r.Status(),
		HasReceipt: len(r.ReceiptImage) > 0,
	}
}

// GetRequests handles GET /api/requests
func (s *Server) GetRequests(c *fiber.Ctx) error {
	requests, err := s.requestService.List(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	views := make([]requestView, 0, len(requests))
	for _, r := range requests {
		views = append(views, newRequestView(r))
	}
	return c.JSON(fiber.Map{"requests": views})
}

// GetRequest handles GET /api/requests/:id
func (s *Server) GetRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	request, err := s.requestService.Get(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"request": newRequestView(request)})
}

// DeleteRequest handles DELETE /api/requests/:id
func (s *Server) DeleteRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	if err := s.requestService.Delete(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Request deleted"})
}

// NotifyRequest handles POST /api/requests/:id/notify. Accepts a multipart
// form with an optional inline image and caption for the email body.
func (s *Server) NotifyRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	input := service.NotifyInput{
		RequestID: id,
		Caption:   c.FormValue("caption"),
	}

	if fh, fileErr := c.FormFile("image"); fileErr == nil {
		content, contentType, readErr := readFormFile(fh)
		if readErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Could not read image upload"))
		}
		input.Image = &mailer.InlineImage{
			Filename:    fh.Filename,
			Content:     content,
			ContentType: contentType,
		}
	}

	result, err := s.requestService.Notify(c.Context(), input)
	if err != nil {
		observability.EmailDeliveries.WithLabelValues("notification", "failure").Inc()
		return respondServiceError(c, err)
	}

	observability.EmailDeliveries.WithLabelValues("notification", "success").Inc()

	return c.JSON(fiber.Map{
		"message":    "Notification sent",
		"verifyLink": result.VerifyLink,
		"messageId":  result.MessageID,
	})
}

// ReplyRequest handles POST /api/requests/:id/reply
func (s *Server) ReplyRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req struct {
		ReplyMessage string `json:"reply_message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.requestService.Reply(c.Context(), id, req.ReplyMessage)
	if err != nil {
		observability.EmailDeliveries.WithLabelValues("reply", "failure").Inc()
		return respondServiceError(c, err)
	}

	observability.EmailDeliveries.WithLabelValues("reply", "success").Inc()

	return c.JSON(fiber.Map{
		"message":   "Reply sent",
		"messageId": result.MessageID,
	})
}

// DeleteVerification handles DELETE /api/requests/:id/verification
func (s *Server) DeleteVerification(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	if err := s.requestService.DeleteVerification(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Verification removed"})
}

// GetReceiptImage handles GET /api/requests/:id/receipt and streams the
// stored receipt with its original content type.
func (s *Server) GetReceiptImage(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	request, err := s.requestService.Get(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	if len(request.ReceiptImage) == 0 {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Receipt for request", id))
	}

	contentType := request.ReceiptImageContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(request.ReceiptImage)
}

// GetRequestLogs handles GET /api/requests/logs?status=&from=&to=&sort=
func (s *Server) GetRequestLogs(c *fiber.Ctx) error {
	entries, err := s.requestService.ListLogs(c.Context(), service.LogsInput{
		Status: c.Query("status"),
		From:   c.Query("from"),
		To:     c.Query("to"),
		Sort:   c.Query("sort"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"logs": entries})
}

// GetVerifiedRequests handles GET /api/requests/verified
func (s *Server) GetVerifiedRequests(c *fiber.Ctx) error {
	entries, err := s.requestService.ListVerified(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"verified": entries})
}

// GetStatsOverview handles GET /api/requests/stats/overview
func (s *Server) GetStatsOverview(c *fiber.Ctx) error {
	stats, err := s.requestService.Stats(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"stats": stats})
}
