package commands

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/wolfeidau/surplus/internal/catalog"
)

// DealsCmd searches the marketplace.
type DealsCmd struct {
	Query    string   `help:"Search deal titles and vendors" short:"q"`
	Category []string `help:"Only show these categories (repeatable)"`
	Tag      []string `help:"Only show deals with any of these dietary tags (repeatable)"`
	Within   []string `help:"Only show deals within this many miles (repeatable, the largest applies)"`
	MaxPrice float64  `help:"Maximum price in Rupiah" default:"100000"`
	Sort     string   `help:"Sort order" default:"popular" enum:"popular,price-low,price-high,distance,rating"`
	Limit    int      `help:"Show at most this many deals (0 for all)" default:"0"`
}

func (c *DealsCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	sort, err := catalog.ParseSort(c.Sort)
	if err != nil {
		return err
	}
	for _, d := range c.Within {
		if !slices.Contains(catalog.DistanceOptions, d) {
			return fmt.Errorf("unsupported distance %q, expected one of: %s", d, strings.Join(catalog.DistanceOptions, ", "))
		}
	}

	view := catalog.NewView(catalog.NormalizeOptions{Origin: a.cfg.Coordinates()}, nil)
	defer view.Close()

	view.Update(func(f *catalog.FilterState) {
		f.SetQuery(c.Query)
		for _, cat := range c.Category {
			f.ToggleCategory(cat)
		}
		for _, tag := range c.Tag {
			f.ToggleTag(tag)
		}
		for _, d := range c.Within {
			f.ToggleDistance(d)
		}
		f.SetPriceMax(c.MaxPrice)
		f.SetSort(sort)
	})

	if err := view.Load(ctx, a.api); err != nil {
		return err
	}

	a.printDeals(view.Visible(), c.Limit)
	return nil
}

func (a *app) printDeals(items []catalog.Item, limit int) {
	if len(items) == 0 {
		a.println("No deals found. Try clearing some filters.")
		return
	}

	shown := items
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	a.printf("%-24s %-28s %-20s %-14s %-6s %-8s %-6s\n", "ID", "DEAL", "VENDOR", "PRICE", "OFF", "DIST", "RATING")
	a.println(strings.Repeat("─", 112))

	for _, it := range shown {
		off := ""
		if pct := catalog.DiscountPercent(it); pct > 0 {
			off = fmt.Sprintf("%d%%", pct)
		}
		rating := ""
		if it.Rating != nil {
			rating = fmt.Sprintf("%.1f", *it.Rating)
		}
		title := it.Title
		if !it.Available {
			title += " (sold out)"
		}

		a.printf("%-24s %-28s %-20s %-14s %-6s %-8s %-6s\n",
			truncate(it.ID, 24),
			truncate(title, 28),
			truncate(it.VendorName, 20),
			catalog.FormatPrice(it.Price),
			off,
			it.DistanceText,
			rating,
		)
	}

	a.printf("\nShowing %d of %d deals\n", len(shown), len(items))
}

// DealCmd shows one deal.
type DealCmd struct {
	ID string `arg:"" help:"Deal ID"`
}

func (c *DealCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	food, err := a.api.GetFood(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to load deal %s: %w", c.ID, err)
	}

	it := catalog.Normalize(*food, catalog.NormalizeOptions{Origin: a.cfg.Coordinates()})

	a.println(it.Title)
	if food.Description != "" {
		a.println(food.Description)
	}
	a.println()
	a.printf("Price:     %s", catalog.FormatPrice(it.Price))
	if it.OriginalPrice != nil {
		a.printf(" (was %s, %d%% off)", catalog.FormatPrice(*it.OriginalPrice), catalog.DiscountPercent(it))
	}
	a.println()
	a.printf("Vendor:    %s\n", it.VendorName)
	if food.Store != nil && food.Store.Address != "" {
		a.printf("Address:   %s\n", food.Store.Address)
	}
	if it.ETAText != "" {
		a.printf("Pickup:    %s\n", it.ETAText)
	}
	if it.DistanceText != "" {
		a.printf("Distance:  %s\n", it.DistanceText)
	}
	if it.CategoryName != "" {
		a.printf("Category:  %s\n", it.CategoryName)
	}
	if len(it.DietaryTags) > 0 {
		a.printf("Tags:      %s\n", strings.Join(it.DietaryTags, ", "))
	}
	if !it.Available {
		a.println("Status:    sold out")
	}
	return nil
}
