package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"pricetrack/model"
)

// ListAlerts returns price alerts scoped to the given owner. Returns a bare
// array, not the pagination envelope.
func (c *Client) ListAlerts(ctx context.Context, params AlertListParams) ([]model.PriceAlert, error) {
	var out []model.PriceAlert
	if err := c.do(ctx, http.MethodGet, c.apiURL("/monitoring/alerts", params.values()), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAlert creates a price alert for the given owner. The owner id is an
// explicit parameter rather than inferred from the session, so administrators
// can create alerts on behalf of other users.
func (c *Client) CreateAlert(ctx context.Context, userID int64, req model.PriceAlertCreate) (*model.PriceAlert, error) {
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(userID, 10))
	var out model.PriceAlert
	if err := c.do(ctx, http.MethodPost, c.apiURL("/monitoring/alerts", q), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAlert applies a partial update to an alert.
func (c *Client) UpdateAlert(ctx context.Context, id int64, req model.PriceAlertUpdate) (*model.PriceAlert, error) {
	var out model.PriceAlert
	if err := c.do(ctx, http.MethodPut, c.apiURL(fmt.Sprintf("/monitoring/alerts/%d", id), nil), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAlert removes an alert. Success carries no payload.
func (c *Client) DeleteAlert(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.apiURL(fmt.Sprintf("/monitoring/alerts/%d", id), nil), nil, nil)
}
