package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hermeskali/bfd-commerce-sync/internal/dto"
	"github.com/hermeskali/bfd-commerce-sync/internal/services"
	"github.com/hermeskali/bfd-commerce-sync/internal/signature"
)

// HeaderCatalogSignature is the signature header the content repository sends.
const HeaderCatalogSignature = "Sanity-Webhook-Signature"

type CatalogHandler struct {
	catalog *services.CatalogService
	secret  string
}

func NewCatalogHandler(catalog *services.CatalogService, secret string) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, secret: secret}
}

// Handle processes a document-changed webhook: verify, parse, sync, report.
func (h *CatalogHandler) Handle(c *fiber.Ctx) error {
	body := c.Body()

	if err := signature.Verify(body, c.Get(HeaderCatalogSignature), h.secret, time.Now()); err != nil {
		slog.Warn("catalog webhook rejected", "source", "catalog")
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var event dto.CatalogChangeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid JSON body",
		})
	}
	if event.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Missing document _id",
		})
	}

	productID, err := h.catalog.Sync(c.UserContext(), event.ID, event.Rev)
	if err != nil {
		return h.syncError(c, event.ID, err)
	}

	return c.JSON(dto.SyncResponse{
		Message:   "Product metadata synced successfully",
		ProductID: productID,
	})
}

// syncError maps data-integrity failures to 4xx so the sender knows the
// request itself was the problem; everything else is a 500.
func (h *CatalogHandler) syncError(c *fiber.Ctx, documentID string, err error) error {
	switch {
	case errors.Is(err, services.ErrDocumentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Document not found: " + documentID,
		})
	case errors.Is(err, services.ErrPriceNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Linked price not found",
		})
	case errors.Is(err, services.ErrMissingPriceLink):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Document " + documentID + " is missing a price link",
		})
	case errors.Is(err, services.ErrProductNotLinked):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Price is not linked to a product",
		})
	default:
		slog.Error("catalog sync failed",
			"source", "catalog",
			"document_id", documentID,
			"error", err,
		)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}
