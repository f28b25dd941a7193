package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfeidau/surplus/internal/models"
)

// RatingInput is the body for POST /app-ratings.
type RatingInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// Validate checks the rating is between 1 and 5 stars.
func (r RatingInput) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", r.Rating)
	}
	return nil
}

type approvedRatings struct {
	Ratings []models.AppRating `json:"ratings"`
}

// MyRating returns the signed in user's rating of the app, or nil when they
// have not rated it.
func (c *Client) MyRating(ctx context.Context) (*models.AppRating, error) {
	var out models.AppRating
	if err := c.get(ctx, "/app-ratings/my/rating", &out, true); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// SubmitRating creates or replaces the signed in user's rating.
func (c *Client) SubmitRating(ctx context.Context, in RatingInput) (*models.AppRating, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var out models.AppRating
	if err := c.post(ctx, "/app-ratings", in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApprovedRatings returns the moderated public reviews.
func (c *Client) ApprovedRatings(ctx context.Context) ([]models.AppRating, error) {
	var out approvedRatings
	if err := c.get(ctx, "/app-ratings/approved", &out, false); err != nil {
		return nil, err
	}
	return out.Ratings, nil
}
