package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/hermeskali/bfd-commerce-sync/internal/dto"
	stripe "github.com/stripe/stripe-go/v81"
)

// Channel is one notification recipient group with its own from-address.
type Channel struct {
	Name string
	From string
	To   []string
}

// NotifyResult carries the warning annotation, if any, attached to an
// acknowledgement.
type NotifyResult struct {
	Warning string
}

const (
	warnMissingAddress = "Missing address"
	warnHandlerError   = "Handler error logged"
)

// FulfillmentService turns a completed checkout session into an order
// summary dispatched to the configured stakeholder channels. It always
// acknowledges: every failure past signature verification is absorbed and
// logged, because the sender retrying cannot fix a defective event or an
// unreachable mail relay.
type FulfillmentService struct {
	gateway  PaymentGateway
	resolver *Resolver
	mailer   Mailer
	channels []Channel
	replyTo  []string
	location *time.Location
}

func NewFulfillmentService(gateway PaymentGateway, resolver *Resolver, mailer Mailer, channels []Channel, replyTo []string, timezone string) *FulfillmentService {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		slog.Warn("unknown order timezone, using UTC", "timezone", timezone)
		loc = time.UTC
	}
	return &FulfillmentService{
		gateway:  gateway,
		resolver: resolver,
		mailer:   mailer,
		channels: channels,
		replyTo:  replyTo,
		location: loc,
	}
}

// Notify processes one checkout.session.completed event.
func (s *FulfillmentService) Notify(ctx context.Context, event *dto.PaymentEvent) NotifyResult {
	var session dto.CheckoutSession
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		slog.Error("invalid checkout session payload",
			"source", "fulfillment",
			"event_type", event.Type,
			"error", err,
		)
		return NotifyResult{Warning: warnHandlerError}
	}

	// A structurally incomplete order cannot be fixed by redelivery, so it
	// is acknowledged with a warning instead of bounced.
	details := addressDetails(&session)
	if details == nil {
		slog.Error("missing shipping/customer address on session",
			"source", "fulfillment",
			"session_id", session.ID,
			"action", "address_validation",
		)
		return NotifyResult{Warning: warnMissingAddress}
	}

	items, err := s.gateway.ListLineItems(ctx, session.ID)
	if err != nil {
		slog.Error("line item retrieval failed",
			"source", "fulfillment",
			"session_id", session.ID,
			"error", err,
		)
		return NotifyResult{Warning: warnHandlerError}
	}

	summary := s.buildSummary(ctx, event, &session, details, items)
	s.dispatch(ctx, summary)

	slog.Info("order processed",
		"source", "fulfillment",
		"event_type", event.Type,
		"session_id", session.ID,
		"items", len(summary.Items),
	)
	return NotifyResult{}
}

type addressBlock struct {
	name    string
	address *dto.Address
}

// addressDetails prefers the shipping block and falls back to the customer
// block; nil when neither carries an address.
func addressDetails(session *dto.CheckoutSession) *addressBlock {
	if session.ShippingDetails != nil && session.ShippingDetails.Address != nil {
		return &addressBlock{name: session.ShippingDetails.Name, address: session.ShippingDetails.Address}
	}
	if session.CustomerDetails != nil && session.CustomerDetails.Address != nil {
		return &addressBlock{name: session.CustomerDetails.Name, address: session.CustomerDetails.Address}
	}
	return nil
}

func (s *FulfillmentService) buildSummary(ctx context.Context, event *dto.PaymentEvent, session *dto.CheckoutSession, details *addressBlock, items []*stripe.LineItem) OrderSummary {
	// All line items resolve in parallel; the summary waits for every one,
	// and a failed resolution degrades only that item's fields.
	identities := make([]ProductIdentity, len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item *stripe.LineItem) {
			defer wg.Done()
			identities[i] = s.resolver.Resolve(ctx, item)
		}(i, item)
	}
	wg.Wait()

	summaryItems := make([]SummaryItem, len(items))
	for i, item := range items {
		summaryItems[i] = SummaryItem{
			SKU:       identities[i].SKU,
			PriceCode: identities[i].PriceCode,
			Name:      itemName(item),
			Quantity:  itemQuantity(item),
		}
	}

	currency := session.Currency
	var shippingMinor, taxMinor int64
	if session.TotalDetails != nil {
		shippingMinor = session.TotalDetails.AmountShipping
		taxMinor = session.TotalDetails.AmountTax
	}

	email, phone := "Not provided", "Not provided"
	if session.CustomerDetails != nil {
		if session.CustomerDetails.Email != "" {
			email = session.CustomerDetails.Email
		}
		if session.CustomerDetails.Phone != "" {
			phone = session.CustomerDetails.Phone
		}
	}

	shippingMethod := "Standard Shipping"
	if session.ShippingDetails != nil && session.ShippingDetails.ShippingRate != nil && session.ShippingDetails.ShippingRate.DisplayName != "" {
		shippingMethod = session.ShippingDetails.ShippingRate.DisplayName
	}

	return OrderSummary{
		SessionID:      session.ID,
		ShortID:        shortID(session.ID),
		Date:           time.Unix(event.Created, 0).In(s.location).Format("January 2, 2006 3:04 PM MST"),
		Subtotal:       FormatAmount(session.AmountSubtotal, currency),
		Shipping:       FormatAmount(shippingMinor, currency),
		Tax:            FormatAmount(taxMinor, currency),
		Total:          FormatAmount(session.AmountTotal, currency),
		AddressLines:   formatAddress(details),
		Email:          email,
		Phone:          phone,
		ShippingMethod: shippingMethod,
		Items:          summaryItems,
	}
}

// dispatch attempts every channel independently. One channel failing must
// not stop the others and never fails the handler.
func (s *FulfillmentService) dispatch(ctx context.Context, summary OrderSummary) {
	html, err := renderOrderHTML(summary)
	if err != nil {
		slog.Error("order email render failed",
			"source", "fulfillment",
			"session_id", summary.SessionID,
			"error", err,
		)
		return
	}
	text, err := renderOrderText(summary)
	if err != nil {
		slog.Error("order email render failed",
			"source", "fulfillment",
			"session_id", summary.SessionID,
			"error", err,
		)
		return
	}

	for _, ch := range s.channels {
		if len(ch.To) == 0 {
			continue
		}
		msg := Message{
			From:    ch.From,
			To:      ch.To,
			ReplyTo: s.replyTo,
			Subject: summary.Subject(),
			HTML:    html,
			Text:    text,
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			slog.Error("notification dispatch failed",
				"source", "fulfillment",
				"session_id", summary.SessionID,
				"action", "dispatch",
				"channel", ch.Name,
				"error", err,
			)
			continue
		}
		slog.Info("notification dispatched",
			"source", "fulfillment",
			"session_id", summary.SessionID,
			"channel", ch.Name,
		)
	}
}

func formatAddress(details *addressBlock) []string {
	a := details.address
	cityLine := strings.TrimSpace(strings.Join(nonEmpty(a.City, a.State, a.PostalCode), " "))
	return nonEmpty(details.name, a.Line1, a.Line2, cityLine, a.Country)
}

func itemName(item *stripe.LineItem) string {
	if item.Price != nil && item.Price.Product != nil && item.Price.Product.Name != "" {
		return item.Price.Product.Name
	}
	if item.Description != "" {
		return item.Description
	}
	return "Item"
}

func itemQuantity(item *stripe.LineItem) int64 {
	if item.Quantity > 0 {
		return item.Quantity
	}
	return 1
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
