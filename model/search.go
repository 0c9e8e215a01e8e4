package model

// SearchQuery is the request body for cross-platform product search.
type SearchQuery struct {
	Query            string     `json:"query"`
	LimitPerPlatform int        `json:"limit_per_platform,omitempty"`
	Platforms        []Platform `json:"platforms,omitempty"`
}

// SearchResult is a single hit from one platform.
type SearchResult struct {
	Platform    Platform `json:"platform"`
	Title       string   `json:"title"`
	Price       *float64 `json:"price,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	ProductURL  string   `json:"product_url"`
	ImageURL    string   `json:"image_url,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
}

// SearchResponse aggregates search hits across platforms.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}
