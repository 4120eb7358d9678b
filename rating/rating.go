// Package rating reads and submits product ratings.
package rating

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/jharlow/go-storefront-client/api"
)

// Summary is the aggregate rating of a product.
type Summary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Client reads and submits ratings.
type Client struct {
	backend *api.Client
}

// NewClient initializes a rating Client.
func NewClient(backend *api.Client) (*Client, error) {
	if backend == nil {
		return nil, errors.New("[rating.NewClient] backend client is required")
	}
	return &Client{backend: backend}, nil
}

// Summary fetches the aggregate rating for a product.
func (c *Client) Summary(ctx context.Context, productID int64) (*Summary, error) {
	var summary Summary
	if err := c.backend.Get(ctx, fmt.Sprintf("products/%d/rating/", productID), nil, &summary); err != nil {
		return nil, errors.Wrap(err, "[Client.Summary] rating fetch")
	}
	return &summary, nil
}

// Rate submits the signed-in user's score for a product and returns the new
// aggregate.
func (c *Client) Rate(ctx context.Context, productID int64, score int) (*Summary, error) {
	if score < 1 || score > 5 {
		return nil, errors.Errorf("[Client.Rate] score %d out of range 1-5", score)
	}
	body := struct {
		Score int `json:"score"`
	}{Score: score}
	var summary Summary
	if err := c.backend.Post(ctx, fmt.Sprintf("products/%d/ratings/", productID), body, &summary); err != nil {
		return nil, errors.Wrap(err, "[Client.Rate] rating submit")
	}
	return &summary, nil
}
