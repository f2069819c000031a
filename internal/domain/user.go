package domain

import "time"

// User is the sanitized user record returned to storefront callers.
// It never carries credentials.
type User struct {
	ID          string `json:"id,omitempty"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	AvatarURL   string `json:"avatar_url"`
}

// Account is the full platform user record, including the stored password
// hash. It never leaves the trust boundary; callers receive Sanitized().
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	DisplayName  string
	FirstName    string
	LastName     string
	AvatarURL    string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Account roles. Customer-class accounts are created by the storefront
// registration flow; subscriber is the generic fallback class.
const (
	RoleCustomer   = "customer"
	RoleSubscriber = "subscriber"
)

// Sanitized returns the caller-facing view of the account.
func (a *Account) Sanitized() User {
	return User{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		AvatarURL:   a.AvatarURL,
	}
}

// SessionRecord is the advisory logged-in state kept per storefront client.
// Its presence is not re-verified on subsequent requests.
type SessionRecord struct {
	User    User      `json:"user"`
	LoginAt time.Time `json:"login_at"`
}

// Address is a billing or shipping address record.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}
