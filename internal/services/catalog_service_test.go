package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/hermeskali/bfd-commerce-sync/internal/sanity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v81"
)

func productDoc(fields map[string]interface{}) sanity.Document {
	doc := sanity.Document{
		"_id":  "product-1",
		"_rev": "rev-1",
		"name": "Pancake Mix",
		"stripe": map[string]interface{}{
			"stripePriceId": "price_123",
		},
	}
	for k, v := range fields {
		doc[k] = v
	}
	return doc
}

func linkedPrice(ctx context.Context, id string) (*stripe.Price, error) {
	return &stripe.Price{ID: id, Product: &stripe.Product{ID: "prod_42"}}, nil
}

func TestSyncUpdatesProductMetadata(t *testing.T) {
	content := &mockContent{GetDocumentFunc: func(ctx context.Context, id string) (sanity.Document, error) {
		return productDoc(map[string]interface{}{"sku": "BK-001", "priceCode": "PC-10"}), nil
	}}
	gateway := &mockGateway{GetPriceFunc: linkedPrice}

	svc := NewCatalogService(content, gateway)
	productID, err := svc.Sync(context.Background(), "product-1", "rev-1")
	require.NoError(t, err)
	assert.Equal(t, "prod_42", productID)

	require.Len(t, gateway.patches, 1)
	patch := gateway.patches[0]
	assert.Equal(t, "Pancake Mix", patch.Name)
	assert.Equal(t, "product-1", patch.Metadata["sanityId"])
	assert.Equal(t, "BK-001", patch.Metadata["sku"])
	assert.Equal(t, "PC-10", patch.Metadata["priceCode"])
	assert.Equal(t, "sanity:product-1:rev-1", patch.IdempotencyKey)
}

func TestSyncRedeliverySameKey(t *testing.T) {
	content := &mockContent{GetDocumentFunc: func(ctx context.Context, id string) (sanity.Document, error) {
		return productDoc(nil), nil
	}}
	gateway := &mockGateway{GetPriceFunc: linkedPrice}

	svc := NewCatalogService(content, gateway)
	_, err := svc.Sync(context.Background(), "product-1", "rev-1")
	require.NoError(t, err)
	_, err = svc.Sync(context.Background(), "product-1", "rev-1")
	require.NoError(t, err)

	require.Len(t, gateway.patches, 2)
	assert.Equal(t, gateway.patches[0].IdempotencyKey, gateway.patches[1].IdempotencyKey,
		"redelivery of the same revision must reuse the same idempotency key")

	// A new revision is a new logical operation.
	_, err = svc.Sync(context.Background(), "product-1", "rev-2")
	require.NoError(t, err)
	assert.NotEqual(t, gateway.patches[0].IdempotencyKey, gateway.patches[2].IdempotencyKey)
}

func TestSyncMissingRevisionFallsBackToDocument(t *testing.T) {
	content := &mockContent{GetDocumentFunc: func(ctx context.Context, id string) (sanity.Document, error) {
		return productDoc(map[string]interface{}{"_rev": "rev-live"}), nil
	}}
	gateway := &mockGateway{GetPriceFunc: linkedPrice}

	svc := NewCatalogService(content, gateway)
	_, err := svc.Sync(context.Background(), "product-1", "")
	require.NoError(t, err)
	assert.Equal(t, "sanity:product-1:rev-live", gateway.patches[0].IdempotencyKey)
}

func TestSyncEmptySKUClearsMetadata(t *testing.T) {
	content := &mockContent{GetDocumentFunc: func(ctx context.Context, id string) (sanity.Document, error) {
		return productDoc(map[string]interface{}{"sku": "", "priceCode": "PC-10"}), nil
	}}
	gateway := &mockGateway{GetPriceFunc: linkedPrice}

	svc := NewCatalogService(content, gateway)
	_, err := svc.Sync(context.Background(), "product-1", "rev-1")
	require.NoError(t, err)

	patch := gateway.patches[0]
	sku, present := patch.Metadata["sku"]
	assert.True(t, present, "empty sku must be sent as an explicit clear, not omitted")
	assert.Equal(t, "", sku)
}

func TestSyncDocumentNotFound(t *testing.T) {
	content := &mockContent{GetDocumentFunc: func(ctx context.Context, id string) (sanity.Document, error) {
		return nil, sanity.ErrNotFound
	}}
	svc := NewCatalogService(content, &mockGateway{})

	_, err := svc.Sync(context.Background(), "gone", "rev-1")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestSyncMissingPriceLink(t *testing.T) {
	content := &mockContent{GetDocumentFunc: func(ctx context.Context, id string) (sanity.Document, error) {
		return sanity.Document{"_id": "product-1", "_rev": "rev-1", "name": "Unlinked"}, nil
	}}
	gateway := &mockGateway{}

	svc := NewCatalogService(content, gateway)
	_, err := svc.Sync(context.Background(), "product-1", "rev-1")
	assert.ErrorIs(t, err, ErrMissingPriceLink)
	assert.Empty(t, gateway.patches)
}

func TestSyncPriceNotFound(t *testing.T) {
	content := &mockContent{GetDocumentFunc: func(ctx context.Context, id string) (sanity.Document, error) {
		return productDoc(nil), nil
	}}
	gateway := &mockGateway{GetPriceFunc: func(ctx context.Context, id string) (*stripe.Price, error) {
		return nil, &stripe.Error{HTTPStatusCode: http.StatusNotFound}
	}}

	svc := NewCatalogService(content, gateway)
	_, err := svc.Sync(context.Background(), "product-1", "rev-1")
	assert.ErrorIs(t, err, ErrPriceNotFound)
}

func TestSyncPriceWithoutProduct(t *testing.T) {
	content := &mockContent{GetDocumentFunc: func(ctx context.Context, id string) (sanity.Document, error) {
		return productDoc(nil), nil
	}}
	gateway := &mockGateway{GetPriceFunc: func(ctx context.Context, id string) (*stripe.Price, error) {
		return &stripe.Price{ID: id}, nil
	}}

	svc := NewCatalogService(content, gateway)
	_, err := svc.Sync(context.Background(), "product-1", "rev-1")
	assert.ErrorIs(t, err, ErrProductNotLinked)
}
