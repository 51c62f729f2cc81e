package domain

import "time"

// PlaceholderImage is served when a catalog record carries no images
const PlaceholderImage = "/images/placeholder.png"

// DefaultDescription replaces a missing description on catalog records
const DefaultDescription = "Sin descripción disponible"

// Product represents a catalog entry read from the record store
type Product struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	SKU            string    `json:"sku"`
	Description    string    `json:"description"`
	PriceRetail    float64   `json:"price_retail"`
	PriceWholesale float64   `json:"price_wholesale"`
	Stock          int       `json:"stock"`
	CategoryID     string    `json:"category_id"`
	BrandID        string    `json:"brand_id"`
	Image          string    `json:"image"`
	Images         []string  `json:"images"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

// Category represents a product category
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// Brand represents a product brand
type Brand struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}
