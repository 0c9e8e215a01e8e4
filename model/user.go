// Package model defines the wire types shared by the API client and the simulator.
package model

import "time"

// User is a registered account with profile and notification preferences.
type User struct {
	ID                  int64     `json:"id"`
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	FirstName           string    `json:"first_name,omitempty"`
	LastName            string    `json:"last_name,omitempty"`
	Phone               string    `json:"phone,omitempty"`
	IsActive            bool      `json:"is_active"`
	IsPremium           bool      `json:"is_premium"`
	EmailNotifications  bool      `json:"email_notifications"`
	PriceDropAlerts     bool      `json:"price_drop_alerts"`
	WeeklySummary       bool      `json:"weekly_summary"`
	PreferredCurrency   string    `json:"preferred_currency"`
	Timezone            string    `json:"timezone"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// UserCreate is the registration request body.
type UserCreate struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// UserUpdate is a partial profile update; nil fields are left unchanged.
type UserUpdate struct {
	Username           *string `json:"username,omitempty"`
	Email              *string `json:"email,omitempty"`
	Password           *string `json:"password,omitempty"`
	FirstName          *string `json:"first_name,omitempty"`
	LastName           *string `json:"last_name,omitempty"`
	Phone              *string `json:"phone,omitempty"`
	EmailNotifications *bool   `json:"email_notifications,omitempty"`
	PriceDropAlerts    *bool   `json:"price_drop_alerts,omitempty"`
	WeeklySummary      *bool   `json:"weekly_summary,omitempty"`
	PreferredCurrency  *string `json:"preferred_currency,omitempty"`
	Timezone           *string `json:"timezone,omitempty"`
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by login and register.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        User   `json:"user"`
}
