package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product domain errors.
var (
	ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}
)

// Product is a sellable catalog entry. Price is the current price and is
// authoritative only at the moment an order is created.
type Product struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Brand       string           `json:"brand"`
	Price       decimal.Decimal  `json:"price"`
	OldPrice    *decimal.Decimal `json:"oldPrice"`
	Discount    int32            `json:"discount"`
	Volume      string           `json:"volume"`
	Category    string           `json:"category"`
	Description *string          `json:"description"`
	Image       string           `json:"image"`
	IsFeatured  bool             `json:"isFeatured"`
	IsNew       bool             `json:"isNew"`
	IsVisible   bool             `json:"isVisible"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// ProductFilter narrows the storefront product listing.
type ProductFilter struct {
	Category *string
	Featured bool
	Search   *string
}

// Catalog resolves products for pricing.
type Catalog interface {
	// FindProduct returns the product or ErrProductNotFound.
	FindProduct(ctx context.Context, id int64) (*Product, error)
}

// ProductService exposes the storefront catalog.
type ProductService interface {
	Catalog

	// ListProducts returns visible products matching the filter.
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)

	// GetVisibleProduct returns a product only if it is visible.
	GetVisibleProduct(ctx context.Context, id int64) (*Product, error)
}
