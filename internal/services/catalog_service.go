package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hermeskali/bfd-commerce-sync/internal/sanity"
	"github.com/hermeskali/bfd-commerce-sync/internal/stripeclient"
	stripe "github.com/stripe/stripe-go/v81"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrMissingPriceLink = errors.New("document is missing a price link")
	ErrPriceNotFound    = errors.New("linked price not found")
	ErrProductNotLinked = errors.New("price is not linked to a product")
)

// ContentStore is the content-repository surface the sync flows consume.
type ContentStore interface {
	GetDocument(ctx context.Context, id string) (sanity.Document, error)
}

// PaymentGateway is the payment-processor surface the sync flows consume.
type PaymentGateway interface {
	GetPrice(ctx context.Context, id string) (*stripe.Price, error)
	UpdateProduct(ctx context.Context, productID string, patch stripeclient.ProductPatch) (*stripe.Product, error)
	ListLineItems(ctx context.Context, sessionID string) ([]*stripe.LineItem, error)
}

// CatalogService mirrors a changed content document onto the payment
// processor's matching product.
type CatalogService struct {
	content ContentStore
	gateway PaymentGateway
}

func NewCatalogService(content ContentStore, gateway PaymentGateway) *CatalogService {
	return &CatalogService{content: content, gateway: gateway}
}

// Sync reads the document live, resolves its linked price to a product and
// applies one atomic metadata patch. Redelivery of the same (documentID,
// revisionID) reuses the same idempotency key, so it cannot double-apply.
// Returns the updated product id.
func (s *CatalogService) Sync(ctx context.Context, documentID, revisionID string) (string, error) {
	doc, err := s.content.GetDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, sanity.ErrNotFound) {
			return "", ErrDocumentNotFound
		}
		return "", fmt.Errorf("fetch document %s: %w", documentID, err)
	}

	priceID := doc.Nested("stripe").String("stripePriceId")
	if priceID == "" {
		return "", ErrMissingPriceLink
	}

	price, err := s.gateway.GetPrice(ctx, priceID)
	if err != nil {
		var sErr *stripe.Error
		if errors.As(err, &sErr) && sErr.HTTPStatusCode == http.StatusNotFound {
			return "", ErrPriceNotFound
		}
		return "", fmt.Errorf("retrieve price %s: %w", priceID, err)
	}
	if price.Product == nil || price.Product.ID == "" {
		return "", ErrProductNotLinked
	}

	// Empty strings are sent, not omitted: only an explicit clear removes
	// stale metadata from a previously-set field.
	patch := stripeclient.ProductPatch{
		Name: doc.String("name"),
		Metadata: map[string]string{
			"sanityId":  documentID,
			"sku":       doc.String("sku"),
			"priceCode": doc.String("priceCode"),
		},
		IdempotencyKey: idempotencyKey(documentID, revisionID, doc),
	}

	updated, err := s.gateway.UpdateProduct(ctx, price.Product.ID, patch)
	if err != nil {
		return "", fmt.Errorf("update product %s: %w", price.Product.ID, err)
	}

	slog.Info("catalog synced",
		"source", "catalog",
		"document_id", documentID,
		"action", "product_update",
		"product_id", updated.ID,
	)
	return updated.ID, nil
}

// idempotencyKey derives a deterministic key from the document identity and
// revision. A missing revision on the event falls back to the revision of
// the document just read, so redelivery still keys identically as long as
// the document hasn't changed underneath it.
func idempotencyKey(documentID, revisionID string, doc sanity.Document) string {
	rev := revisionID
	if rev == "" {
		rev = doc.String("_rev")
	}
	return fmt.Sprintf("sanity:%s:%s", documentID, rev)
}
