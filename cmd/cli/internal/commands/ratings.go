package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfeidau/surplus/internal/client"
)

// RateCmd rates the marketplace, or shows the current rating without --stars.
type RateCmd struct {
	Stars   int    `help:"Rating from 1 to 5"`
	Comment string `help:"Optional comment"`
}

func (c *RateCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSignIn(); err != nil {
		return err
	}

	if c.Stars == 0 {
		rating, err := a.api.MyRating(ctx)
		if err != nil {
			return fmt.Errorf("failed to load rating: %w", err)
		}
		if rating == nil {
			a.println("You have not rated Surplus yet. Rate it with `surplus rate --stars 5`.")
			return nil
		}
		a.printf("Your rating: %s\n", stars(rating.Rating))
		if rating.Comment != "" {
			a.printf("Comment:     %s\n", rating.Comment)
		}
		if !rating.Approved {
			a.println("Awaiting approval")
		}
		return nil
	}

	in := client.RatingInput{Rating: c.Stars, Comment: c.Comment}
	if err := in.Validate(); err != nil {
		return err
	}

	if _, err := a.api.SubmitRating(ctx, in); err != nil {
		return fmt.Errorf("failed to submit rating: %w", err)
	}

	a.println("Thank you for your rating!")
	return nil
}

// ReviewsCmd lists approved customer reviews.
type ReviewsCmd struct{}

func (c *ReviewsCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	reviews, err := a.api.ApprovedRatings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reviews: %w", err)
	}
	if len(reviews) == 0 {
		a.println("No reviews yet.")
		return nil
	}

	for _, r := range reviews {
		a.printf("%s  %s\n", stars(r.Rating), r.AuthorName())
		if r.Comment != "" {
			a.printf("  %s\n", r.Comment)
		}
	}
	return nil
}

func stars(n int) string {
	n = max(0, min(n, 5))
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
