package dto

import "encoding/json"

// CatalogChangeEvent is the Sanity webhook body: an identity pointer to the
// changed document, never a payload snapshot.
type CatalogChangeEvent struct {
	ID  string `json:"_id"`
	Rev string `json:"_rev"`
}

// PaymentEvent is the outer Stripe webhook event.
type PaymentEvent struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// EventCheckoutSessionCompleted is the only payment event type that triggers
// fulfillment; everything else is acknowledged unprocessed.
const EventCheckoutSessionCompleted = "checkout.session.completed"

// FormSubmission is the form-provider webhook body for newsletter signups.
type FormSubmission struct {
	Payload struct {
		FormName string            `json:"form_name"`
		Data     map[string]string `json:"data"`
	} `json:"payload"`
}
