package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sourcegraph/conc/pool"
	"github.com/wolfeidau/surplus/internal/models"
)

// Facets are the vocabularies used by the catalog filters and product forms.
type Facets struct {
	Categories []models.Category
	Filters    []models.DietFilter
}

// ListFoods returns every public listing.
func (c *Client) ListFoods(ctx context.Context) ([]models.Food, error) {
	var out []models.Food
	if err := c.get(ctx, "/foods", &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

// GetFood returns a single listing.
func (c *Client) GetFood(ctx context.Context, id string) (*models.Food, error) {
	var out models.Food
	if err := c.get(ctx, "/foods/"+url.PathEscape(id), &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyFoods returns the signed in seller's listings.
func (c *Client) MyFoods(ctx context.Context) ([]models.Food, error) {
	var out []models.Food
	if err := c.get(ctx, "/foods/my/foods", &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateFood adds a listing to the seller's store.
func (c *Client) CreateFood(ctx context.Context, in models.FoodInput) (*models.Food, error) {
	var out models.Food
	if err := c.post(ctx, "/foods", in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateFood changes the fields set in in.
func (c *Client) UpdateFood(ctx context.Context, id string, in models.FoodInput) (*models.Food, error) {
	var out models.Food
	if err := c.put(ctx, "/foods/"+url.PathEscape(id), in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetFoodAvailability marks a listing as available or sold out.
func (c *Client) SetFoodAvailability(ctx context.Context, id string, available bool) (*models.Food, error) {
	return c.UpdateFood(ctx, id, models.FoodInput{IsAvailable: &available})
}

// DeleteFood removes a listing.
func (c *Client) DeleteFood(ctx context.Context, id string) error {
	return c.delete(ctx, "/foods/"+url.PathEscape(id), nil, true)
}

// Categories returns the category vocabulary.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.get(ctx, "/categories", &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

// Filters returns the dietary tag vocabulary.
func (c *Client) Filters(ctx context.Context) ([]models.DietFilter, error) {
	var out []models.DietFilter
	if err := c.get(ctx, "/filters", &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

// Facets fetches categories and filters concurrently.
func (c *Client) Facets(ctx context.Context) (*Facets, error) {
	var facets Facets

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()

	p.Go(func(ctx context.Context) error {
		cats, err := c.Categories(ctx)
		if err != nil {
			return fmt.Errorf("failed to load categories: %w", err)
		}
		facets.Categories = cats
		return nil
	})

	p.Go(func(ctx context.Context) error {
		filters, err := c.Filters(ctx)
		if err != nil {
			return fmt.Errorf("failed to load filters: %w", err)
		}
		facets.Filters = filters
		return nil
	})

	if err := p.Wait(); err != nil {
		return nil, err
	}

	return &facets, nil
}
