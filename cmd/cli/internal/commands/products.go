package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfeidau/surplus/internal/catalog"
	"github.com/wolfeidau/surplus/internal/models"
)

type ProductsCmd struct {
	List   ProductsListCmd   `cmd:"" default:"withargs" help:"List your products"`
	Add    ProductsAddCmd    `cmd:"" help:"Add a product"`
	Toggle ProductsToggleCmd `cmd:"" help:"Switch a product between available and sold out"`
	Delete ProductsDeleteCmd `cmd:"" help:"Delete a product"`
}

type ProductsListCmd struct{}

func (c *ProductsListCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSeller(); err != nil {
		return err
	}

	foods, err := a.api.MyFoods(ctx)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	if len(foods) == 0 {
		a.println("No products yet. Add one with `surplus products add`.")
		return nil
	}

	a.printf("%-24s %-30s %-14s %-10s %s\n", "ID", "NAME", "PRICE", "STATUS", "SOLD")
	a.println(strings.Repeat("─", 90))
	for _, f := range foods {
		status := "available"
		if !f.IsAvailable {
			status = "sold out"
		}
		a.printf("%-24s %-30s %-14s %-10s %d\n", truncate(f.ID, 24), truncate(f.Name, 30), catalog.FormatPrice(f.Price), status, f.Sold)
	}
	return nil
}

type ProductsAddCmd struct {
	Name        string   `help:"Product name" required:""`
	Description string   `help:"Description"`
	Price       float64  `help:"Price in Rupiah" required:""`
	Category    string   `help:"Category name or ID" required:""`
	Tag         []string `help:"Dietary tag name or ID (repeatable)"`
	Image       []string `help:"Image URL (repeatable)"`
}

func (c *ProductsAddCmd) Run(ctx context.Context, globals *Globals) error {
	if c.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}

	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSeller(); err != nil {
		return err
	}

	facets, err := a.api.Facets(ctx)
	if err != nil {
		return err
	}

	categoryID, err := resolveRef(facets.Categories, c.Category)
	if err != nil {
		return fmt.Errorf("unknown category: %w", err)
	}

	tagIDs := make([]string, 0, len(c.Tag))
	for _, tag := range c.Tag {
		id, err := resolveRef(facets.Filters, tag)
		if err != nil {
			return fmt.Errorf("unknown tag: %w", err)
		}
		tagIDs = append(tagIDs, id)
	}

	available := true
	food, err := a.api.CreateFood(ctx, models.FoodInput{
		Name:        c.Name,
		Description: c.Description,
		Price:       &c.Price,
		CategoryID:  categoryID,
		IsAvailable: &available,
		Images:      c.Image,
		Filters:     tagIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to add product: %w", err)
	}

	a.printf("Added %s (%s) at %s\n", food.Name, food.ID, catalog.FormatPrice(food.Price))
	return nil
}

// resolveRef finds a vocabulary entry by ID or case-insensitive name.
func resolveRef(refs []models.Ref, v string) (string, error) {
	for _, r := range refs {
		if r.ID == v || strings.EqualFold(r.Name, v) {
			return r.ID, nil
		}
	}

	names := make([]string, 0, len(refs))
	for _, r := range refs {
		names = append(names, r.Name)
	}
	return "", fmt.Errorf("%q, expected one of: %s", v, strings.Join(names, ", "))
}

type ProductsToggleCmd struct {
	ID string `arg:"" help:"Product ID"`
}

func (c *ProductsToggleCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSeller(); err != nil {
		return err
	}

	food, err := a.api.GetFood(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to load product %s: %w", c.ID, err)
	}

	updated, err := a.api.SetFoodAvailability(ctx, c.ID, !food.IsAvailable)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if updated.IsAvailable {
		a.printf("%s is available\n", food.Name)
	} else {
		a.printf("%s is sold out\n", food.Name)
	}
	return nil
}

type ProductsDeleteCmd struct {
	ID string `arg:"" help:"Product ID"`
}

func (c *ProductsDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSeller(); err != nil {
		return err
	}

	if err := a.api.DeleteFood(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	a.printf("Deleted product %s\n", c.ID)
	return nil
}
