package models

// Role is the account type of a marketplace user.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleSeller
}

// User is the account record returned by the auth endpoints and persisted
// alongside the bearer token.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// IsSeller returns true if the user can manage a store.
func (u User) IsSeller() bool {
	return u.Role == RoleSeller
}
