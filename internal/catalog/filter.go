package catalog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// AllCategories is the sentinel category that clears the category selection.
const AllCategories = "All"

// DefaultPriceMax is the upper bound of the price slider (Rupiah).
const DefaultPriceMax = 100_000

// DistanceOptions are the radii, in miles, offered by the distance facet.
var DistanceOptions = []string{"0.5", "1", "2", "5", "10"}

// Sort orders the visible list.
type Sort string

const (
	SortPopular   Sort = "popular"
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
	SortDistance  Sort = "distance"
	SortRating    Sort = "rating"
)

// Sorts lists the supported orders.
var Sorts = []Sort{SortPopular, SortPriceLow, SortPriceHigh, SortDistance, SortRating}

// ParseSort converts a name into a Sort.
func ParseSort(s string) (Sort, error) {
	for _, v := range Sorts {
		if string(v) == strings.ToLower(strings.TrimSpace(s)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown sort %q", s)
}

// PriceRange is an inclusive price interval. Min is fixed at 0 by the UI.
type PriceRange struct {
	Min float64
	Max float64
}

// Contains reports whether price lies within the range, bounds included.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// FilterState is the user's current search. Selections behave as sets:
// an empty selection matches everything.
type FilterState struct {
	Query      string
	Categories []string
	Tags       []string
	Distances  []string
	Price      PriceRange
	Sort       Sort
}

// DefaultFilters returns the state a fresh catalog view starts with.
func DefaultFilters() FilterState {
	return FilterState{
		Price: PriceRange{Min: 0, Max: DefaultPriceMax},
		Sort:  SortPopular,
	}
}

// Clone returns a deep copy.
func (f FilterState) Clone() FilterState {
	f.Categories = slices.Clone(f.Categories)
	f.Tags = slices.Clone(f.Tags)
	f.Distances = slices.Clone(f.Distances)
	return f
}

// SetQuery replaces the free text query.
func (f *FilterState) SetQuery(q string) {
	f.Query = q
}

// ToggleCategory adds or removes cat. Category names are compared
// case-insensitively. Toggling AllCategories clears the selection; it is
// never stored.
func (f *FilterState) ToggleCategory(cat string) {
	cat = strings.TrimSpace(cat)
	if strings.EqualFold(cat, AllCategories) {
		f.Categories = nil
		return
	}
	f.Categories = toggleFunc(f.Categories, cat, func(s string) bool { return strings.EqualFold(s, cat) })
}

// ToggleTag adds or removes a dietary tag. Tags are compared lower-cased.
func (f *FilterState) ToggleTag(tag string) {
	f.Tags = toggle(f.Tags, normalizeTag(tag))
}

// ToggleDistance adds or removes a distance radius such as "2".
func (f *FilterState) ToggleDistance(dist string) {
	f.Distances = toggle(f.Distances, dist)
}

// SetPriceMax moves the upper price bound. Negative values clamp to the minimum.
func (f *FilterState) SetPriceMax(v float64) {
	if v < f.Price.Min {
		v = f.Price.Min
	}
	f.Price.Max = v
}

// SetSort changes the order.
func (f *FilterState) SetSort(s Sort) {
	f.Sort = s
}

// Clear resets the facets to their defaults. The query and sort are kept.
func (f *FilterState) Clear() {
	f.Categories = nil
	f.Tags = nil
	f.Distances = nil
	f.Price = DefaultFilters().Price
}

// HasActiveFilters reports whether any facet narrows the result.
func (f FilterState) HasActiveFilters() bool {
	return len(f.Categories) > 0 || len(f.Tags) > 0 || len(f.Distances) > 0
}

// MaxDistance returns the largest selected radius. ok is false when no
// radius is selected or none parses.
func (f FilterState) MaxDistance() (radius float64, ok bool) {
	for _, d := range f.Distances {
		v, err := strconv.ParseFloat(strings.TrimSpace(d), 64)
		if err != nil {
			continue
		}
		if !ok || v > radius {
			radius = v
			ok = true
		}
	}
	return radius, ok
}

func toggle(set []string, v string) []string {
	return toggleFunc(set, v, func(s string) bool { return s == v })
}

func toggleFunc(set []string, v string, match func(string) bool) []string {
	if i := slices.IndexFunc(set, match); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), v)
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
