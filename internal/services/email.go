package services

import (
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

// OrderSummary is the assembled, display-ready view of one completed order.
type OrderSummary struct {
	SessionID      string
	ShortID        string
	Date           string
	Subtotal       string
	Shipping       string
	Tax            string
	Total          string
	AddressLines   []string
	Email          string
	Phone          string
	ShippingMethod string
	Items          []SummaryItem
}

type SummaryItem struct {
	SKU       string
	PriceCode string
	Name      string
	Quantity  int64
}

func (s OrderSummary) Subject() string {
	return fmt.Sprintf("New Order • %s • %s", s.ShortID, s.Total)
}

var orderHTMLTemplate = htmltemplate.Must(htmltemplate.New("order").Parse(`<div style="font-family:system-ui,-apple-system,Segoe UI,Roboto,Arial,sans-serif;line-height:1.6">
  <h1 style="margin:0 0 12px">New Order Received</h1>
  <p>Please ship the following items.</p>

  <h2 style="margin:16px 0 8px">Order Details</h2>
  <p><strong>Order ID:</strong> {{.ShortID}}<br>
     <strong>Date:</strong> {{.Date}}<br>
     <strong>Subtotal:</strong> {{.Subtotal}}<br>
     <strong>Shipping:</strong> {{.Shipping}}<br>
     <strong>Tax:</strong> {{.Tax}}<br>
     <strong>Total:</strong> {{.Total}}</p>

  <h2 style="margin:16px 0 8px">Ship To</h2>
  <p>{{range $i, $line := .AddressLines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>

  <h2 style="margin:16px 0 8px">Customer Contact</h2>
  <p><strong>Email:</strong> {{.Email}}<br>
     <strong>Phone:</strong> {{.Phone}}</p>

  <h2 style="margin:16px 0 8px">Shipping Method</h2>
  <p>{{.ShippingMethod}}</p>

  <h2 style="margin:16px 0 8px">Items</h2>
  <table style="width:100%;border-collapse:collapse">
    <thead>
      <tr>
        <th style="padding:8px;border:1px solid #ddd;text-align:left;background:#f8f8f8">SKU / ISBN</th>
        <th style="padding:8px;border:1px solid #ddd;text-align:left;background:#f8f8f8">Price Code</th>
        <th style="padding:8px;border:1px solid #ddd;text-align:left;background:#f8f8f8">Product</th>
        <th style="padding:8px;border:1px solid #ddd;text-align:center;background:#f8f8f8">Qty</th>
      </tr>
    </thead>
    <tbody>
      {{range .Items}}<tr>
        <td style="padding:8px;border:1px solid #ddd;">{{.SKU}}</td>
        <td style="padding:8px;border:1px solid #ddd;">{{.PriceCode}}</td>
        <td style="padding:8px;border:1px solid #ddd;">{{.Name}}</td>
        <td style="padding:8px;border:1px solid #ddd;text-align:center;">{{.Quantity}}</td>
      </tr>{{end}}
    </tbody>
  </table>

  <p style="margin-top:20px;color:#6b7280;font-size:12px">
    This is an automated message. Full session ID: {{.SessionID}}
  </p>
</div>`))

var orderTextTemplate = texttemplate.Must(texttemplate.New("order").Parse(`New Order to Fulfill
Order: {{.SessionID}}
Date: {{.Date}}
Subtotal: {{.Subtotal}}
Shipping: {{.Shipping}}
Tax: {{.Tax}}
Total: {{.Total}}
Ship To:
{{range .AddressLines}}{{.}}
{{end}}Customer: {{.Email}} ({{.Phone}})
Shipping Method: {{.ShippingMethod}}
Items:
{{range .Items}}  {{.SKU}} | {{.PriceCode}} | {{.Name}} x{{.Quantity}}
{{end}}`))

func renderOrderHTML(s OrderSummary) (string, error) {
	var b strings.Builder
	if err := orderHTMLTemplate.Execute(&b, s); err != nil {
		return "", fmt.Errorf("render order html: %w", err)
	}
	return b.String(), nil
}

func renderOrderText(s OrderSummary) (string, error) {
	var b strings.Builder
	if err := orderTextTemplate.Execute(&b, s); err != nil {
		return "", fmt.Errorf("render order text: %w", err)
	}
	return b.String(), nil
}
