// Package stripeclient wraps the Stripe SDK calls this service makes: price
// reads, idempotent product metadata updates and expanded line-item listing.
package stripeclient

import (
	"context"

	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// ProductPatch is one atomic product update. Metadata values are applied
// as-is: an empty string explicitly clears that key at Stripe, which is a
// different operation from leaving the key out.
type ProductPatch struct {
	Name           string
	Metadata       map[string]string
	IdempotencyKey string
}

type Client struct {
	api *client.API
}

func New(apiKey string) *Client {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &Client{api: api}
}

func (c *Client) GetPrice(ctx context.Context, id string) (*stripe.Price, error) {
	params := &stripe.PriceParams{}
	params.Context = ctx
	return c.api.Prices.Get(id, params)
}

func (c *Client) UpdateProduct(ctx context.Context, productID string, patch ProductPatch) (*stripe.Product, error) {
	params := &stripe.ProductParams{}
	params.Context = ctx
	if patch.Name != "" {
		params.Name = stripe.String(patch.Name)
	}
	for key, value := range patch.Metadata {
		params.AddMetadata(key, value)
	}
	if patch.IdempotencyKey != "" {
		params.SetIdempotencyKey(patch.IdempotencyKey)
	}
	return c.api.Products.Update(productID, params)
}

// ListLineItems fetches all line items of a checkout session in one listing
// call, with price and product expanded so metadata is available without
// further lookups.
func (c *Client) ListLineItems(ctx context.Context, sessionID string) ([]*stripe.LineItem, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}
	params.Context = ctx
	params.AddExpand("data.price")
	params.AddExpand("data.price.product")

	iter := c.api.CheckoutSessions.ListLineItems(params)
	var items []*stripe.LineItem
	for iter.Next() {
		items = append(items, iter.LineItem())
	}
	return items, iter.Err()
}
