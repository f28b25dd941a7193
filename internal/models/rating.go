package models

import "time"

// AppRating is a customer's rating of the marketplace itself.
type AppRating struct {
	ID       string `json:"_id"`
	Customer *struct {
		Username string `json:"username"`
	} `json:"customerId,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	Approved  bool      `json:"isApproved,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthorName returns the reviewer's username or "Anonymous".
func (r AppRating) AuthorName() string {
	if r.Customer == nil || r.Customer.Username == "" {
		return "Anonymous"
	}
	return r.Customer.Username
}
