package model

import "time"

// Platform identifies the e-commerce site a product is tracked on.
type Platform string

const (
	PlatformAmazon    Platform = "amazon"
	PlatformEbay      Platform = "ebay"
	PlatformWalmart   Platform = "walmart"
	PlatformTarget    Platform = "target"
	PlatformBestBuy   Platform = "bestbuy"
	PlatformHomeDepot Platform = "homedepot"
	PlatformLowes     Platform = "lowes"
)

// Platforms lists all supported platforms.
func Platforms() []Platform {
	return []Platform{
		PlatformAmazon, PlatformEbay, PlatformWalmart, PlatformTarget,
		PlatformBestBuy, PlatformHomeDepot, PlatformLowes,
	}
}

// Product is a tracked catalog item. CurrentPrice mirrors the latest price
// observation for the product.
type Product struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Brand         string     `json:"brand,omitempty"`
	Category      string     `json:"category,omitempty"`
	SKU           string     `json:"sku,omitempty"`
	Platform      Platform   `json:"platform"`
	ProductURL    string     `json:"product_url"`
	ImageURL      string     `json:"image_url,omitempty"`
	CurrentPrice  *float64   `json:"current_price"`
	OriginalPrice *float64   `json:"original_price,omitempty"`
	Currency      string     `json:"currency"`
	IsAvailable   bool       `json:"is_available"`
	IsTracking    bool       `json:"is_tracking"`
	Rating        *float64   `json:"rating,omitempty"`
	ReviewCount   int        `json:"review_count"`
	LastScrapedAt *time.Time `json:"last_scraped_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ProductCreate is the request body for creating a product.
type ProductCreate struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Category    string   `json:"category,omitempty"`
	SKU         string   `json:"sku,omitempty"`
	Platform    Platform `json:"platform"`
	ProductURL  string   `json:"product_url"`
	ImageURL    string   `json:"image_url,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount int      `json:"review_count,omitempty"`
}

// ProductUpdate is a partial product update; nil fields are left unchanged.
type ProductUpdate struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Brand       *string   `json:"brand,omitempty"`
	Category    *string   `json:"category,omitempty"`
	SKU         *string   `json:"sku,omitempty"`
	Platform    *Platform `json:"platform,omitempty"`
	ProductURL  *string   `json:"product_url,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Currency    *string   `json:"currency,omitempty"`
	IsTracking  *bool     `json:"is_tracking,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	ReviewCount *int      `json:"review_count,omitempty"`
}

// ProductList is the paginated envelope returned by the product list endpoint.
type ProductList struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
	Skip  int       `json:"skip"`
	Limit int       `json:"limit"`
}
