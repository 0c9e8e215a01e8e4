package model

import "time"

// AlertType selects the condition a price alert fires on.
type AlertType string

const (
	AlertPriceDrop     AlertType = "price_drop"
	AlertPriceIncrease AlertType = "price_increase"
	AlertTargetPrice   AlertType = "target_price"
)

// PriceAlert is a user-defined condition on one product.
type PriceAlert struct {
	ID                  int64      `json:"id"`
	UserID              int64      `json:"user_id"`
	ProductID           int64      `json:"product_id"`
	AlertType           AlertType  `json:"alert_type"`
	TargetPrice         *float64   `json:"target_price,omitempty"`
	ThresholdPercentage *float64   `json:"threshold_percentage,omitempty"`
	ThresholdAmount     *float64   `json:"threshold_amount,omitempty"`
	IsActive            bool       `json:"is_active"`
	IsTriggered         bool       `json:"is_triggered"`
	TriggeredAt         *time.Time `json:"triggered_at,omitempty"`
	LastChecked         *time.Time `json:"last_checked,omitempty"`
	NotifyEmail         bool       `json:"notify_email"`
	NotifyPush          bool       `json:"notify_push"`
	Notes               string     `json:"notes,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// PriceAlertCreate is the request body for creating an alert.
type PriceAlertCreate struct {
	ProductID           int64     `json:"product_id"`
	AlertType           AlertType `json:"alert_type"`
	TargetPrice         *float64  `json:"target_price,omitempty"`
	ThresholdPercentage *float64  `json:"threshold_percentage,omitempty"`
	ThresholdAmount     *float64  `json:"threshold_amount,omitempty"`
	NotifyEmail         bool      `json:"notify_email"`
	NotifyPush          bool      `json:"notify_push"`
	Notes               string    `json:"notes,omitempty"`
}

// PriceAlertUpdate is a partial alert update; nil fields are left unchanged.
type PriceAlertUpdate struct {
	AlertType           *AlertType `json:"alert_type,omitempty"`
	TargetPrice         *float64   `json:"target_price,omitempty"`
	ThresholdPercentage *float64   `json:"threshold_percentage,omitempty"`
	ThresholdAmount     *float64   `json:"threshold_amount,omitempty"`
	IsActive            *bool      `json:"is_active,omitempty"`
	NotifyEmail         *bool      `json:"notify_email,omitempty"`
	NotifyPush          *bool      `json:"notify_push,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
}
