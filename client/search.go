package client

import (
	"context"
	"net/http"

	"pricetrack/model"
)

// Search queries products across platforms.
func (c *Client) Search(ctx context.Context, query model.SearchQuery) (*model.SearchResponse, error) {
	var out model.SearchResponse
	if err := c.do(ctx, http.MethodPost, c.apiURL("/search", nil), query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
