package domain

import (
	"context"
	"time"
)

// Product is a catalog entry imported from the Bol.com marketplace. The
// outbound ProductURL is stored bare; TrackingURL is derived per request by
// the affiliate engine and never persisted, so links stay followable whether
// or not monetization is configured.
type Product struct {
	ID                  string    `json:"id"`
	EAN                 string    `json:"ean"`
	Title               string    `json:"title"`
	Slug                string    `json:"slug"`
	Description         string    `json:"description"`
	Price               float64   `json:"price"`
	StrikethroughPrice  *float64  `json:"strikethroughPrice"`
	Rating              *float64  `json:"rating"`
	ImageURL            string    `json:"imageUrl"`
	ProductURL          string    `json:"productUrl"`
	TrackingURL         string    `json:"trackingUrl,omitempty"`
	DeliveryDescription string    `json:"deliveryDescription"`
	Category            string    `json:"category"`
	IsFeatured          bool      `json:"isFeatured"`
	IsActive            bool      `json:"isActive"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Category   string
	Query      string
	Sort       string // newest, price_asc, price_desc
	Limit      int
	Offset     int
	IsActive   *bool // nil = all
	IsFeatured *bool
}

type ProductRepository interface {
	GetProducts(ctx context.Context, filter ProductFilter) ([]Product, int64, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	GetProductByID(ctx context.Context, id string) (*Product, error)
	GetProductByEAN(ctx context.Context, ean string) (*Product, error)
	CreateProduct(ctx context.Context, product *Product) error
	UpdateProduct(ctx context.Context, product *Product) error
	UpdateProductStatus(ctx context.Context, id string, isActive bool) error
	DeleteProduct(ctx context.Context, id string) error
}
