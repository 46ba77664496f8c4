package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rexxDigital/snailmail/internal/logging"
	services "github.com/rexxDigital/snailmail/internal/services/mail"
	"github.com/rexxDigital/snailmail/types"
)

type MailHandler struct {
	service services.MailService
}

func NewMailHandler(svc services.MailService) *MailHandler {
	return &MailHandler{service: svc}
}

// GetInbox returns every mail as a JSON array, [] when there is none.
func (h *MailHandler) GetInbox(c *fiber.Ctx) error {
	inbox, err := h.service.Inbox(c.UserContext())
	if err != nil {
		logging.Log.WithError(err).Error("failed to load inbox")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Could not load the inbox",
		})
	}

	return c.JSON(inbox)
}

// SendMail accepts a mail and echoes it back. A blank recipient is answered
// with 400 and an empty body.
func (h *MailHandler) SendMail(c *fiber.Ctx) error {
	var mail types.Mail
	if err := c.BodyParser(&mail); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Mail payload is not valid JSON",
		})
	}

	sent, err := h.service.Send(c.UserContext(), mail)
	switch {
	case err == nil:
		return c.JSON(sent)
	case errors.Is(err, services.ErrEmptyRecipient):
		c.Status(fiber.StatusBadRequest)
		return nil
	case errors.Is(err, services.ErrSubjectTooLong):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: err.Error(),
		})
	default:
		logging.Log.WithError(err).Error("failed to send mail")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Could not send mail",
		})
	}
}
