package models

// Ref is a populated reference document as returned by the API, e.g.
// {"_id": "...", "name": "Bakery"}.
type Ref struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Category groups foods on the marketplace.
type Category = Ref

// DietFilter is a dietary tag vocabulary entry (vegan, halal...).
type DietFilter = Ref

// Store is a seller's place of business.
type Store struct {
	ID        string   `json:"_id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	OpenHours string   `json:"openHours"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	MapsLink  string   `json:"mapsLink,omitempty"`
}

// HasLocation returns true if the store has coordinates.
func (s *Store) HasLocation() bool {
	return s != nil && s.Latitude != nil && s.Longitude != nil
}

// Food is the raw listing record returned by the /foods endpoints.
type Food struct {
	ID            string       `json:"_id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Price         float64      `json:"price"`
	OriginalPrice *float64     `json:"originalPrice,omitempty"`
	Category      *Category    `json:"categoryId,omitempty"`
	Store         *Store       `json:"storeId,omitempty"`
	IsAvailable   bool         `json:"isAvailable"`
	Images        []string     `json:"images"`
	Filters       []DietFilter `json:"filters"`
	Rating        *float64     `json:"rating,omitempty"`
	Sold          int          `json:"sold,omitempty"`
}

// FoodInput is the body for creating or updating a food listing.
// Filters and CategoryID hold document IDs.
type FoodInput struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	CategoryID  string   `json:"categoryId,omitempty"`
	IsAvailable *bool    `json:"isAvailable,omitempty"`
	Images      []string `json:"images,omitempty"`
	Filters     []string `json:"filters,omitempty"`
}

// StoreInput is the body for creating a store.
type StoreInput struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	OpenHours string   `json:"openHours"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}
