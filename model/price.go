package model

import "time"

// Price is one immutable point-in-time observation of a product's price.
type Price struct {
	ID            int64     `json:"id"`
	ProductID     int64     `json:"product_id"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	OriginalPrice *float64  `json:"original_price,omitempty"`
	IsSale        bool      `json:"is_sale"`
	IsAvailable   bool      `json:"is_available"`
	Seller        string    `json:"seller,omitempty"`
	SourceURL     string    `json:"source_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// PriceStats summarizes a product's observations over a window.
type PriceStats struct {
	TotalPrices           int      `json:"total_prices"`
	CurrentPrice          *float64 `json:"current_price"`
	MinPrice              *float64 `json:"min_price"`
	MaxPrice              *float64 `json:"max_price"`
	AvgPrice              *float64 `json:"avg_price"`
	PriceTrend            string   `json:"price_trend"`
	PriceChangePercentage float64  `json:"price_change_percentage"`
}

// PriceHistory is the chronological observation list for one product.
type PriceHistory struct {
	ProductID int64      `json:"product_id"`
	Prices    []Price    `json:"prices"`
	Stats     PriceStats `json:"stats"`
	Days      int        `json:"days"`
}

// PriceDrop reports a product currently priced below its original price.
type PriceDrop struct {
	ProductID         int64    `json:"product_id"`
	ProductName       string   `json:"product_name"`
	Platform          Platform `json:"platform"`
	CurrentPrice      float64  `json:"current_price"`
	OriginalPrice     float64  `json:"original_price"`
	SavingsAmount     float64  `json:"savings_amount"`
	SavingsPercentage float64  `json:"savings_percentage"`
}

// PriceTrend is an aggregate view over a frequently observed product.
type PriceTrend struct {
	ProductID    int64    `json:"product_id"`
	ProductName  string   `json:"product_name"`
	Platform     Platform `json:"platform"`
	Category     string   `json:"category,omitempty"`
	CurrentPrice *float64 `json:"current_price"`
	PriceCount   int      `json:"price_count"`
	AvgPrice     *float64 `json:"avg_price"`
	MinPrice     *float64 `json:"min_price"`
	MaxPrice     *float64 `json:"max_price"`
	Trend        string   `json:"trend"`
}
