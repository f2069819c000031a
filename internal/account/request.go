package account

import (
	"github.com/globaltire/storefront/internal/domain"
)

// Request carries the union of fields the account actions accept. Bodies
// arrive as JSON or as conventional form fields; both decode into this
// struct.
type Request struct {
	Username        string `json:"username" schema:"username"`
	Password        string `json:"password" schema:"password"`
	Email           string `json:"email" schema:"email"`
	UserID          string `json:"user_id" schema:"user_id"`
	FirstName       string `json:"first_name" schema:"first_name"`
	LastName        string `json:"last_name" schema:"last_name"`
	DisplayName     string `json:"display_name" schema:"display_name"`
	PasswordCurrent string `json:"password_current" schema:"password_current"`
	PasswordNew     string `json:"password_new" schema:"password_new"`
}

// Response is the envelope every account action answers with. Business
// failures are expressed as Success=false with a message, not as HTTP
// error statuses.
type Response struct {
	Success  bool                  `json:"success"`
	Message  string                `json:"message,omitempty"`
	User     *domain.User          `json:"user,omitempty"`
	Orders   []domain.OrderSummary `json:"orders,omitempty"`
	Billing  *domain.Address       `json:"billing,omitempty"`
	Shipping *domain.Address       `json:"shipping,omitempty"`
}

func failure(message string) *Response {
	return &Response{Success: false, Message: message}
}
