package client

import (
	"context"
	"errors"

	"github.com/wolfeidau/surplus/internal/models"
)

// CreateStore opens a store for the signed in seller.
func (c *Client) CreateStore(ctx context.Context, in models.StoreInput) (*models.Store, error) {
	var out models.Store
	if err := c.post(ctx, "/stores", in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyStore returns the signed in seller's store, or nil when they have not
// created one yet.
func (c *Client) MyStore(ctx context.Context) (*models.Store, error) {
	var out models.Store
	if err := c.get(ctx, "/stores/my/store", &out, true); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}
