package client

import (
	"context"
	"fmt"
	"net/http"

	"pricetrack/model"
)

// ListProducts returns a page of tracked products matching the filters,
// wrapped in the pagination envelope.
func (c *Client) ListProducts(ctx context.Context, params ProductListParams) (*model.ProductList, error) {
	var out model.ProductList
	if err := c.do(ctx, http.MethodGet, c.apiURL("/products/", params.values()), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProduct fetches one product by id.
func (c *Client) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var out model.Product
	if err := c.do(ctx, http.MethodGet, c.apiURL(fmt.Sprintf("/products/%d", id), nil), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct starts tracking a new product.
func (c *Client) CreateProduct(ctx context.Context, req model.ProductCreate) (*model.Product, error) {
	var out model.Product
	if err := c.do(ctx, http.MethodPost, c.apiURL("/products/", nil), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct applies a partial update to a product.
func (c *Client) UpdateProduct(ctx context.Context, id int64, req model.ProductUpdate) (*model.Product, error) {
	var out model.Product
	if err := c.do(ctx, http.MethodPut, c.apiURL(fmt.Sprintf("/products/%d", id), nil), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct stops tracking a product. Success carries no payload.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.apiURL(fmt.Sprintf("/products/%d", id), nil), nil, nil)
}

// RefreshProduct triggers a manual price refresh for a product. The refresh
// runs asynchronously server-side; success carries no payload.
func (c *Client) RefreshProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, c.apiURL(fmt.Sprintf("/products/%d/scrape", id), nil), nil, nil)
}
