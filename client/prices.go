package client

import (
	"context"
	"fmt"
	"net/http"

	"pricetrack/model"
)

// ListPrices returns raw price observations matching the filters. This
// endpoint returns a bare array, not the pagination envelope.
func (c *Client) ListPrices(ctx context.Context, params PriceListParams) ([]model.Price, error) {
	var out []model.Price
	if err := c.do(ctx, http.MethodGet, c.apiURL("/prices/", params.values()), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PriceHistory returns the chronological observation history for a product.
func (c *Client) PriceHistory(ctx context.Context, productID int64, params PriceHistoryParams) (*model.PriceHistory, error) {
	var out model.PriceHistory
	path := fmt.Sprintf("/prices/product/%d/history", productID)
	if err := c.do(ctx, http.MethodGet, c.apiURL(path, params.values()), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PriceDrops returns products whose current price sits below their original
// price, best savings first.
func (c *Client) PriceDrops(ctx context.Context, params AggregateParams) ([]model.PriceDrop, error) {
	var out []model.PriceDrop
	if err := c.do(ctx, http.MethodGet, c.apiURL("/prices/alerts/price-drops", params.values()), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PopularTrends returns aggregate views over the most observed products.
func (c *Client) PopularTrends(ctx context.Context, params AggregateParams) ([]model.PriceTrend, error) {
	var out []model.PriceTrend
	if err := c.do(ctx, http.MethodGet, c.apiURL("/prices/trends/popular", params.values()), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
