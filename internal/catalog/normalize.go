package catalog

import (
	"fmt"
	"math"

	"github.com/wolfeidau/surplus/internal/models"
)

const earthRadiusMiles = 3958.8

// Coordinates is a point on the map in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// NormalizeOptions tune Normalize.
type NormalizeOptions struct {
	// Origin, when set, is used to compute the distance to each store.
	Origin *Coordinates
}

// Normalize maps a raw food record onto an Item. It has no side effects.
func Normalize(food models.Food, opts NormalizeOptions) Item {
	it := Item{
		ID:        food.ID,
		Title:     food.Name,
		Price:     math.Max(food.Price, 0),
		Rating:    food.Rating,
		Sold:      food.Sold,
		Available: food.IsAvailable,
	}

	if food.OriginalPrice != nil && *food.OriginalPrice > it.Price {
		orig := *food.OriginalPrice
		it.OriginalPrice = &orig
	}

	if len(food.Images) > 0 {
		it.ImageURL = food.Images[0]
	}

	if food.Category != nil {
		it.CategoryName = food.Category.Name
	}

	seen := make(map[string]struct{}, len(food.Filters))
	for _, f := range food.Filters {
		tag := normalizeTag(f.Name)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		it.DietaryTags = append(it.DietaryTags, tag)
	}

	if store := food.Store; store != nil {
		it.VendorName = store.Name
		it.ETAText = store.OpenHours

		if opts.Origin != nil && store.HasLocation() {
			d := Haversine(*opts.Origin, Coordinates{Latitude: *store.Latitude, Longitude: *store.Longitude})
			it.Distance = &d
			it.DistanceText = FormatDistance(d)
		}
	}

	return it
}

// NormalizeAll maps every food, preserving order.
func NormalizeAll(foods []models.Food, opts NormalizeOptions) []Item {
	items := make([]Item, 0, len(foods))
	for _, f := range foods {
		items = append(items, Normalize(f, opts))
	}
	return items
}

// Haversine returns the great-circle distance between a and b in miles.
func Haversine(a, b Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}

// FormatDistance renders miles the way the deal cards show them.
func FormatDistance(miles float64) string {
	return fmt.Sprintf("%.1f mi", miles)
}
