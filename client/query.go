package client

import (
	"net/url"
	"strconv"
	"time"

	"pricetrack/model"
)

// Pointer helpers for optional filter fields. A nil field is omitted from the
// query string; a set field always serializes, including false and zero.

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// Int64 returns a pointer to i.
func Int64(i int64) *int64 { return &i }

// Float64 returns a pointer to f.
func Float64(f float64) *float64 { return &f }

// Time returns a pointer to t.
func Time(t time.Time) *time.Time { return &t }

func setStr(v url.Values, key, s string) {
	if s != "" {
		v.Set(key, s)
	}
}

func setBool(v url.Values, key string, p *bool) {
	if p != nil {
		v.Set(key, strconv.FormatBool(*p))
	}
}

func setInt(v url.Values, key string, p *int) {
	if p != nil {
		v.Set(key, strconv.Itoa(*p))
	}
}

func setInt64(v url.Values, key string, p *int64) {
	if p != nil {
		v.Set(key, strconv.FormatInt(*p, 10))
	}
}

func setTime(v url.Values, key string, p *time.Time) {
	if p != nil {
		v.Set(key, p.UTC().Format(time.RFC3339))
	}
}

// ProductListParams filters and paginates the product list.
type ProductListParams struct {
	Platform   model.Platform
	Category   string
	Brand      string
	IsTracking *bool
	Search     string
	Skip       *int
	Limit      *int
}

func (p ProductListParams) values() url.Values {
	v := url.Values{}
	setStr(v, "platform", string(p.Platform))
	setStr(v, "category", p.Category)
	setStr(v, "brand", p.Brand)
	setBool(v, "is_tracking", p.IsTracking)
	setStr(v, "search", p.Search)
	setInt(v, "skip", p.Skip)
	setInt(v, "limit", p.Limit)
	return v
}

// PriceListParams filters and paginates raw price observations.
type PriceListParams struct {
	ProductID   *int64
	Platform    model.Platform
	Currency    string
	IsSale      *bool
	IsAvailable *bool
	StartDate   *time.Time
	EndDate     *time.Time
	Skip        *int
	Limit       *int
}

func (p PriceListParams) values() url.Values {
	v := url.Values{}
	setInt64(v, "product_id", p.ProductID)
	setStr(v, "platform", string(p.Platform))
	setStr(v, "currency", p.Currency)
	setBool(v, "is_sale", p.IsSale)
	setBool(v, "is_available", p.IsAvailable)
	setTime(v, "start_date", p.StartDate)
	setTime(v, "end_date", p.EndDate)
	setInt(v, "skip", p.Skip)
	setInt(v, "limit", p.Limit)
	return v
}

// PriceHistoryParams bounds the observation window for a product's history.
type PriceHistoryParams struct {
	Days *int
}

func (p PriceHistoryParams) values() url.Values {
	v := url.Values{}
	setInt(v, "days", p.Days)
	return v
}

// AlertListParams scopes the alert list. UserID is required: alert visibility
// can be scoped by an administrator, so ownership is explicit rather than
// inferred from the session.
type AlertListParams struct {
	UserID    int64
	IsActive  *bool
	AlertType model.AlertType
	ProductID *int64
	Skip      *int
	Limit     *int
}

func (p AlertListParams) values() url.Values {
	v := url.Values{}
	v.Set("user_id", strconv.FormatInt(p.UserID, 10))
	setBool(v, "is_active", p.IsActive)
	setStr(v, "alert_type", string(p.AlertType))
	setInt64(v, "product_id", p.ProductID)
	setInt(v, "skip", p.Skip)
	setInt(v, "limit", p.Limit)
	return v
}

// AggregateParams caps aggregate price views (drops, trends).
type AggregateParams struct {
	Limit *int
}

func (p AggregateParams) values() url.Values {
	v := url.Values{}
	setInt(v, "limit", p.Limit)
	return v
}
