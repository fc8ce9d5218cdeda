package handlers

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hermeskali/bfd-commerce-sync/internal/dto"
	"github.com/hermeskali/bfd-commerce-sync/internal/services"
	"github.com/hermeskali/bfd-commerce-sync/internal/signature"
)

// HeaderPaymentSignature is the signature header the payment processor sends.
const HeaderPaymentSignature = "Stripe-Signature"

type FulfillmentHandler struct {
	fulfillment *services.FulfillmentService
	secret      string
}

func NewFulfillmentHandler(fulfillment *services.FulfillmentService, secret string) *FulfillmentHandler {
	return &FulfillmentHandler{fulfillment: fulfillment, secret: secret}
}

// Handle processes a payment webhook. Only signature failure produces a
// non-2xx: every downstream defect is absorbed and acknowledged so the
// sender never retries an event that retrying cannot fix.
func (h *FulfillmentHandler) Handle(c *fiber.Ctx) error {
	body := c.Body()

	if err := signature.VerifyTimestamped(body, c.Get(HeaderPaymentSignature), h.secret, time.Now()); err != nil {
		slog.Warn("payment webhook rejected", "source", "fulfillment")
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Webhook signature verification failed",
		})
	}

	var event dto.PaymentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		slog.Error("payment event parse failed", "source", "fulfillment", "error", err)
		return c.JSON(dto.ReceivedResponse{Received: true, Warning: "Handler error logged"})
	}

	if event.Type != dto.EventCheckoutSessionCompleted {
		return c.JSON(dto.ReceivedResponse{Received: true})
	}

	result := h.fulfillment.Notify(c.UserContext(), &event)
	return c.JSON(dto.ReceivedResponse{Received: true, Warning: result.Warning})
}
