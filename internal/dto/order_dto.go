package dto

// CheckoutSession is the completed-payment session embedded in a
// checkout.session.completed event. Monetary amounts are integer minor units.
type CheckoutSession struct {
	ID              string           `json:"id"`
	Currency        string           `json:"currency"`
	AmountTotal     int64            `json:"amount_total"`
	AmountSubtotal  int64            `json:"amount_subtotal"`
	TotalDetails    *TotalDetails    `json:"total_details"`
	CustomerDetails *ContactDetails  `json:"customer_details"`
	ShippingDetails *ShippingDetails `json:"shipping_details"`
}

type TotalDetails struct {
	AmountShipping int64 `json:"amount_shipping"`
	AmountTax      int64 `json:"amount_tax"`
}

type ContactDetails struct {
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Address *Address `json:"address"`
}

type ShippingDetails struct {
	Name         string        `json:"name"`
	Address      *Address      `json:"address"`
	ShippingRate *ShippingRate `json:"shipping_rate"`
}

type ShippingRate struct {
	DisplayName string `json:"display_name"`
}

type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}
