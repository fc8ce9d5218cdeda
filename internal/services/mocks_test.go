package services

import (
	"context"
	"sync"

	"github.com/hermeskali/bfd-commerce-sync/internal/sanity"
	"github.com/hermeskali/bfd-commerce-sync/internal/stripeclient"
	stripe "github.com/stripe/stripe-go/v81"
)

// mockContent implements ContentStore for testing.
type mockContent struct {
	GetDocumentFunc func(ctx context.Context, id string) (sanity.Document, error)
	mu              sync.Mutex
	calls           []string
}

func (m *mockContent) GetDocument(ctx context.Context, id string) (sanity.Document, error) {
	m.mu.Lock()
	m.calls = append(m.calls, id)
	m.mu.Unlock()
	if m.GetDocumentFunc != nil {
		return m.GetDocumentFunc(ctx, id)
	}
	return nil, sanity.ErrNotFound
}

func (m *mockContent) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockGateway implements PaymentGateway for testing.
type mockGateway struct {
	GetPriceFunc      func(ctx context.Context, id string) (*stripe.Price, error)
	UpdateProductFunc func(ctx context.Context, productID string, patch stripeclient.ProductPatch) (*stripe.Product, error)
	ListLineItemsFunc func(ctx context.Context, sessionID string) ([]*stripe.LineItem, error)

	mu      sync.Mutex
	patches []stripeclient.ProductPatch
	listed  []string
}

func (m *mockGateway) GetPrice(ctx context.Context, id string) (*stripe.Price, error) {
	if m.GetPriceFunc != nil {
		return m.GetPriceFunc(ctx, id)
	}
	return &stripe.Price{ID: id, Product: &stripe.Product{ID: "prod_default"}}, nil
}

func (m *mockGateway) UpdateProduct(ctx context.Context, productID string, patch stripeclient.ProductPatch) (*stripe.Product, error) {
	m.mu.Lock()
	m.patches = append(m.patches, patch)
	m.mu.Unlock()
	if m.UpdateProductFunc != nil {
		return m.UpdateProductFunc(ctx, productID, patch)
	}
	return &stripe.Product{ID: productID}, nil
}

func (m *mockGateway) ListLineItems(ctx context.Context, sessionID string) ([]*stripe.LineItem, error) {
	m.mu.Lock()
	m.listed = append(m.listed, sessionID)
	m.mu.Unlock()
	if m.ListLineItemsFunc != nil {
		return m.ListLineItemsFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *mockGateway) listCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listed)
}

// mockMailer implements Mailer for testing.
type mockMailer struct {
	SendFunc func(ctx context.Context, msg Message) error

	mu   sync.Mutex
	sent []Message
}

func (m *mockMailer) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	if m.SendFunc != nil {
		return m.SendFunc(ctx, msg)
	}
	return nil
}

func (m *mockMailer) sentMessages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}
