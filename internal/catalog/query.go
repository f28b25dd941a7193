package catalog

import (
	"cmp"
	"slices"
	"strings"
)

// ComputeVisible returns the items matching filters, ordered by filters.Sort.
//
// Every predicate must hold for an item to be kept; within a facet any
// selected value matches. The source slice is never modified and the
// popular order is the source order. Sorting is stable, so ties keep their
// source order.
//
// Items without a distance sort and filter as distance 0, and items without a
// rating sort as rating 0.
func ComputeVisible(items []Item, filters FilterState) []Item {
	query := strings.ToLower(filters.Query)
	radius, limitDistance := filters.MaxDistance()

	visible := make([]Item, 0, len(items))
	for _, it := range items {
		if !matchesQuery(it, query) ||
			!matchesCategory(it, filters.Categories) ||
			!matchesTags(it, filters.Tags) ||
			!filters.Price.Contains(it.Price) {
			continue
		}
		if limitDistance && it.distanceOrZero() > radius {
			continue
		}
		visible = append(visible, it)
	}

	switch filters.Sort {
	case SortPriceLow:
		slices.SortStableFunc(visible, func(a, b Item) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case SortPriceHigh:
		slices.SortStableFunc(visible, func(a, b Item) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case SortDistance:
		slices.SortStableFunc(visible, func(a, b Item) int {
			return cmp.Compare(a.distanceOrZero(), b.distanceOrZero())
		})
	case SortRating:
		slices.SortStableFunc(visible, func(a, b Item) int {
			return cmp.Compare(b.ratingOrZero(), a.ratingOrZero())
		})
	}

	return visible
}

func matchesQuery(it Item, lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(it.Title), lowerQuery) ||
		strings.Contains(strings.ToLower(it.VendorName), lowerQuery)
}

// matchesCategory compares names case-insensitively.
func matchesCategory(it Item, categories []string) bool {
	if len(categories) == 0 {
		return true
	}
	return slices.ContainsFunc(categories, func(c string) bool {
		return strings.EqualFold(c, it.CategoryName)
	})
}

func matchesTags(it Item, tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if it.HasTag(t) {
			return true
		}
	}
	return false
}
