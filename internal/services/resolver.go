package services

import (
	"context"
	"log/slog"

	stripe "github.com/stripe/stripe-go/v81"
)

// UnknownField marks an identity field no source could supply.
const UnknownField = "N/A"

// ProductIdentity is the resolved {sku, priceCode, contentRepoId} triple for
// one purchased line item. Fields degrade independently to UnknownField.
type ProductIdentity struct {
	SKU           string
	PriceCode     string
	ContentRepoID string
	Source        string
}

// Resolver fills identity fields through an ordered fallback chain: product
// metadata, then price metadata, then the content-repository document the
// metadata back-references. The two systems sync asynchronously, so at order
// time either may lag the other.
type Resolver struct {
	content ContentStore
}

func NewResolver(content ContentStore) *Resolver {
	return &Resolver{content: content}
}

// Resolve never fails; a fulfillment summary with partial fields is still
// useful, an errored one is not.
func (r *Resolver) Resolve(ctx context.Context, item *stripe.LineItem) ProductIdentity {
	var productMeta, priceMeta map[string]string
	if item.Price != nil {
		priceMeta = item.Price.Metadata
		if item.Price.Product != nil {
			productMeta = item.Price.Product.Metadata
		}
	}

	sku := firstOf(productMeta["sku"], productMeta["isbn"], priceMeta["sku"], priceMeta["isbn"])
	priceCode := firstOf(productMeta["priceCode"], priceMeta["priceCode"])
	backRef := firstOf(productMeta["sanityId"], priceMeta["sanityId"])

	if sku != "" && priceCode != "" {
		return ProductIdentity{SKU: sku, PriceCode: priceCode, ContentRepoID: backRef, Source: "stripe"}
	}

	source := "none"
	if backRef != "" {
		doc, err := r.content.GetDocument(ctx, backRef)
		if err != nil {
			slog.Warn("content-repository fallback failed",
				"source", "fulfillment",
				"document_id", backRef,
				"error", err,
			)
		} else {
			sku = firstOf(sku, doc.String("sku"), doc.String("isbn"))
			priceCode = firstOf(priceCode, doc.String("priceCode"))
			if sku != "" || priceCode != "" {
				source = "sanity"
			}
		}
	}

	return ProductIdentity{
		SKU:           firstOf(sku, UnknownField),
		PriceCode:     firstOf(priceCode, UnknownField),
		ContentRepoID: backRef,
		Source:        source,
	}
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
