package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hermeskali/bfd-commerce-sync/internal/config"
	"github.com/hermeskali/bfd-commerce-sync/internal/dto"
	"github.com/hermeskali/bfd-commerce-sync/internal/middleware"
	"github.com/hermeskali/bfd-commerce-sync/internal/sanity"
	"github.com/hermeskali/bfd-commerce-sync/internal/services"
	"github.com/hermeskali/bfd-commerce-sync/internal/stripeclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v81"
)

const catalogSecret = "sanity_hook_secret"

type stubContent struct {
	GetDocumentFunc func(ctx context.Context, id string) (sanity.Document, error)
}

func (s *stubContent) GetDocument(ctx context.Context, id string) (sanity.Document, error) {
	if s.GetDocumentFunc != nil {
		return s.GetDocumentFunc(ctx, id)
	}
	return nil, sanity.ErrNotFound
}

type stubGateway struct {
	GetPriceFunc      func(ctx context.Context, id string) (*stripe.Price, error)
	UpdateProductFunc func(ctx context.Context, productID string, patch stripeclient.ProductPatch) (*stripe.Product, error)
	ListLineItemsFunc func(ctx context.Context, sessionID string) ([]*stripe.LineItem, error)
}

func (s *stubGateway) GetPrice(ctx context.Context, id string) (*stripe.Price, error) {
	if s.GetPriceFunc != nil {
		return s.GetPriceFunc(ctx, id)
	}
	return &stripe.Price{ID: id, Product: &stripe.Product{ID: "prod_42"}}, nil
}

func (s *stubGateway) UpdateProduct(ctx context.Context, productID string, patch stripeclient.ProductPatch) (*stripe.Product, error) {
	if s.UpdateProductFunc != nil {
		return s.UpdateProductFunc(ctx, productID, patch)
	}
	return &stripe.Product{ID: productID}, nil
}

func (s *stubGateway) ListLineItems(ctx context.Context, sessionID string) ([]*stripe.LineItem, error) {
	if s.ListLineItemsFunc != nil {
		return s.ListLineItemsFunc(ctx, sessionID)
	}
	return nil, nil
}

func timestampedHeader(body []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(body)
	return fmt.Sprintf("t=%d,v1=%s", ts, base64.RawURLEncoding.EncodeToString(mac.Sum(nil)))
}

func catalogApp(content services.ContentStore, gateway services.PaymentGateway) *fiber.App {
	app := fiber.New()
	app.Use(middleware.CORS(&config.Config{CORSOrigins: "*"}))
	handler := NewCatalogHandler(services.NewCatalogService(content, gateway), catalogSecret)
	app.Post("/webhooks/catalog-sync", handler.Handle)
	return app
}

func signedRequest(body []byte, header string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/catalog-sync", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderCatalogSignature, header)
	return req
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestCatalogHandlerSuccess(t *testing.T) {
	content := &stubContent{GetDocumentFunc: func(ctx context.Context, id string) (sanity.Document, error) {
		return sanity.Document{
			"_id":    id,
			"_rev":   "rev-1",
			"name":   "Pancake Mix",
			"sku":    "BK-001",
			"stripe": map[string]interface{}{"stripePriceId": "price_123"},
		}, nil
	}}
	app := catalogApp(content, &stubGateway{})

	body := []byte(`{"_id":"product-1","_rev":"rev-1"}`)
	resp, err := app.Test(signedRequest(body, timestampedHeader(body, catalogSecret)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeBody[dto.SyncResponse](t, resp)
	assert.Equal(t, "prod_42", out.ProductID)
}

func TestCatalogHandlerBadSignature(t *testing.T) {
	app := catalogApp(&stubContent{}, &stubGateway{})

	body := []byte(`{"_id":"product-1"}`)
	resp, err := app.Test(signedRequest(body, timestampedHeader(body, "wrong_secret")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCatalogHandlerMissingSignature(t *testing.T) {
	app := catalogApp(&stubContent{}, &stubGateway{})

	body := []byte(`{"_id":"product-1"}`)
	resp, err := app.Test(signedRequest(body, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCatalogHandlerInvalidJSON(t *testing.T) {
	app := catalogApp(&stubContent{}, &stubGateway{})

	body := []byte(`{"_id":`)
	resp, err := app.Test(signedRequest(body, timestampedHeader(body, catalogSecret)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCatalogHandlerMissingID(t *testing.T) {
	app := catalogApp(&stubContent{}, &stubGateway{})

	body := []byte(`{"_rev":"rev-1"}`)
	resp, err := app.Test(signedRequest(body, timestampedHeader(body, catalogSecret)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCatalogHandlerDocumentNotFound(t *testing.T) {
	content := &stubContent{GetDocumentFunc: func(ctx context.Context, id string) (sanity.Document, error) {
		return nil, sanity.ErrNotFound
	}}
	app := catalogApp(content, &stubGateway{})

	body := []byte(`{"_id":"gone"}`)
	resp, err := app.Test(signedRequest(body, timestampedHeader(body, catalogSecret)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCatalogHandlerMissingPriceLink(t *testing.T) {
	content := &stubContent{GetDocumentFunc: func(ctx context.Context, id string) (sanity.Document, error) {
		return sanity.Document{"_id": id, "_rev": "rev-1"}, nil
	}}
	app := catalogApp(content, &stubGateway{})

	body := []byte(`{"_id":"product-1"}`)
	resp, err := app.Test(signedRequest(body, timestampedHeader(body, catalogSecret)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCatalogHandlerPreflight(t *testing.T) {
	app := catalogApp(&stubContent{}, &stubGateway{})

	req := httptest.NewRequest(http.MethodOptions, "/webhooks/catalog-sync", nil)
	req.Header.Set("Origin", "https://studio.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", HeaderCatalogSignature)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), HeaderCatalogSignature)
}
