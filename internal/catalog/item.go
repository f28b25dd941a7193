package catalog

// Item is the normalized view of a food listing that the query engine works on.
// Items are immutable once built.
type Item struct {
	ID            string
	Title         string
	Price         float64
	OriginalPrice *float64
	VendorName    string
	ImageURL      string
	CategoryName  string
	DietaryTags   []string
	ETAText       string
	DistanceText  string
	Distance      *float64
	Rating        *float64
	Sold          int
	Available     bool
}

// HasTag reports whether the item carries tag.
func (it Item) HasTag(tag string) bool {
	for _, t := range it.DietaryTags {
		if t == tag {
			return true
		}
	}
	return false
}

// distanceOrZero returns the distance in miles, or 0 when unknown.
func (it Item) distanceOrZero() float64 {
	if it.Distance == nil {
		return 0
	}
	return *it.Distance
}

// ratingOrZero returns the rating, or 0 when unknown.
func (it Item) ratingOrZero() float64 {
	if it.Rating == nil {
		return 0
	}
	return *it.Rating
}
