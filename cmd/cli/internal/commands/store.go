package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/surplus/internal/models"
)

type StoreCmd struct {
	Show   StoreShowCmd   `cmd:"" default:"withargs" help:"Show your store"`
	Create StoreCreateCmd `cmd:"" help:"Create your store"`
}

type StoreShowCmd struct{}

func (c *StoreShowCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSeller(); err != nil {
		return err
	}

	store, err := a.api.MyStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	if store == nil {
		a.println("You have not created a store yet. Create one with:")
		a.println("  surplus store create --name <name> --address <address>")
		return nil
	}

	a.printf("Name:     %s\n", store.Name)
	a.printf("Address:  %s\n", store.Address)
	if store.OpenHours != "" {
		a.printf("Hours:    %s\n", store.OpenHours)
	}
	if store.HasLocation() {
		a.printf("Location: %.5f, %.5f\n", *store.Latitude, *store.Longitude)
	}
	return nil
}

type StoreCreateCmd struct {
	Name      string   `help:"Store name" required:""`
	Address   string   `help:"Street address" required:""`
	OpenHours string   `help:"Opening hours, e.g. 08:00 - 21:00"`
	Latitude  *float64 `help:"Latitude in decimal degrees"`
	Longitude *float64 `help:"Longitude in decimal degrees"`
}

func (c *StoreCreateCmd) Run(ctx context.Context, globals *Globals) error {
	if (c.Latitude == nil) != (c.Longitude == nil) {
		return fmt.Errorf("latitude and longitude must be given together")
	}

	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSeller(); err != nil {
		return err
	}

	store, err := a.api.CreateStore(ctx, models.StoreInput{
		Name:      c.Name,
		Address:   c.Address,
		OpenHours: c.OpenHours,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
	})
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	a.printf("Store %q created. Add products with:\n", store.Name)
	a.println("  surplus products add --name <name> --price <price> --category <id>")
	return nil
}
