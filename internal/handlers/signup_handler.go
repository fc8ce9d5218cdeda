package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hermeskali/bfd-commerce-sync/internal/dto"
	"github.com/hermeskali/bfd-commerce-sync/internal/services"
)

// notifyFormName is the one form whose submissions this service records.
const notifyFormName = "notify"

type SignupHandler struct {
	signups *services.SignupService
}

func NewSignupHandler(signups *services.SignupService) *SignupHandler {
	return &SignupHandler{signups: signups}
}

// Handle records a newsletter form submission.
func (h *SignupHandler) Handle(c *fiber.Ctx) error {
	var submission dto.FormSubmission
	if err := c.BodyParser(&submission); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid submission payload",
		})
	}

	if submission.Payload.FormName != notifyFormName {
		return c.JSON(dto.SignupResponse{Message: "Ignoring submission for unrelated form"})
	}

	email := submission.Payload.Data["email"]
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Email not found in submission",
		})
	}

	if _, err := h.signups.Record(email, submission.Payload.FormName, submission.Payload.Data); err != nil {
		slog.Error("signup persistence failed", "source", "signup", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process submission",
		})
	}

	slog.Info("signup recorded", "source", "signup")
	return c.JSON(dto.SignupResponse{Message: "Signup recorded"})
}
