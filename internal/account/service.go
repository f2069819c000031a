package account

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/globaltire/storefront/internal/domain"
	apperrors "github.com/globaltire/storefront/internal/errors"
	"github.com/globaltire/storefront/internal/repository"
	"github.com/globaltire/storefront/internal/validator"
)

const bcryptCost = 12

// OrderLister lists a customer's recent orders from the commerce platform.
type OrderLister interface {
	ListOrders(ctx context.Context, customerID string) ([]domain.OrderSummary, error)
}

// Service implements the account actions. Every action answers with a
// Response envelope; infrastructure failures become Success=false messages
// rather than HTTP errors.
type Service struct {
	users     repository.UserRepository
	addresses repository.AddressRepository
	orders    OrderLister
	logger    *slog.Logger

	// customerRole controls whether registration creates customer-class
	// accounts. When disabled, accounts fall back to the generic
	// subscriber class, mirroring a platform without the commerce
	// extension installed.
	customerRole bool

	hashPassword  func(password string) (string, error)
	checkPassword func(hash, password string) bool
}

// NewService creates the account service.
func NewService(users repository.UserRepository, addresses repository.AddressRepository, orders OrderLister, customerRole bool, logger *slog.Logger) *Service {
	return &Service{
		users:        users,
		addresses:    addresses,
		orders:       orders,
		logger:       logger,
		customerRole: customerRole,
		hashPassword: func(password string) (string, error) {
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
			if err != nil {
				return "", err
			}
			return string(hash), nil
		},
		checkPassword: func(hash, password string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
		},
	}
}

// Dispatch routes a request to the handler for its action. The switch is
// exhaustive over the Action enum; anything else yields the invalid-action
// result.
func (s *Service) Dispatch(ctx context.Context, action Action, req *Request) *Response {
	switch action {
	case ActionLogin:
		return s.login(ctx, req)
	case ActionRegister:
		return s.register(ctx, req)
	case ActionGetOrders:
		return s.getOrders(ctx, req)
	case ActionGetAddress:
		return s.getAddress(ctx, req)
	case ActionGetDetails:
		return s.getDetails(ctx, req)
	case ActionUpdateDetails:
		return s.updateDetails(ctx, req)
	default:
		return failure("Invalid action.")
	}
}

func (s *Service) login(ctx context.Context, req *Request) *Response {
	if req.Username == "" || req.Password == "" {
		return failure("Username and password are required.")
	}

	acct, err := s.users.GetByLogin(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return failure("Invalid username or password.")
		}
		s.logger.ErrorContext(ctx, "login lookup failed", slog.String("error", err.Error()))
		return failure(stripTags(err.Error()))
	}

	if !s.checkPassword(acct.PasswordHash, req.Password) {
		return failure("Invalid username or password.")
	}

	user := acct.Sanitized()
	return &Response{
		Success: true,
		Message: "Login successful",
		User:    &user,
	}
}

func (s *Service) register(ctx context.Context, req *Request) *Response {
	if !validator.IsEmail(req.Email) {
		return failure("Invalid email address.")
	}

	username := req.Username
	if username == "" {
		username, _, _ = strings.Cut(req.Email, "@")
	}

	usernameTaken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		s.logger.ErrorContext(ctx, "username check failed", slog.String("error", err.Error()))
		return failure(stripTags(err.Error()))
	}
	emailTaken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		s.logger.ErrorContext(ctx, "email check failed", slog.String("error", err.Error()))
		return failure(stripTags(err.Error()))
	}
	if usernameTaken || emailTaken {
		return failure("Account already exists (username or email taken).")
	}

	if len(req.Password) < 6 {
		return failure("Password must be at least 6 characters.")
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		s.logger.ErrorContext(ctx, "password hash failed", slog.String("error", err.Error()))
		return failure("Registration failed.")
	}

	role := domain.RoleSubscriber
	message := "Account created successfully."
	if s.customerRole {
		role = domain.RoleCustomer
		message = "Registration successful! Please log in."
	}

	now := time.Now().UTC()
	acct := &domain.Account{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        req.Email,
		PasswordHash: hash,
		DisplayName:  username,
		FirstName:    username,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, acct); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return failure("Account already exists (username or email taken).")
		}
		s.logger.ErrorContext(ctx, "account create failed", slog.String("error", err.Error()))
		return failure(stripTags(err.Error()))
	}

	return &Response{Success: true, Message: message}
}

func (s *Service) getOrders(ctx context.Context, req *Request) *Response {
	if req.UserID == "" {
		return failure("User ID required")
	}

	if s.orders == nil {
		return failure("Order lookup unavailable")
	}

	orders, err := s.orders.ListOrders(ctx, req.UserID)
	if err != nil {
		s.logger.ErrorContext(ctx, "order lookup failed", slog.String("error", err.Error()))
		return failure("Order lookup unavailable")
	}
	if orders == nil {
		orders = []domain.OrderSummary{}
	}

	return &Response{Success: true, Orders: orders}
}

func (s *Service) getAddress(ctx context.Context, req *Request) *Response {
	if req.UserID == "" {
		return failure("User ID required")
	}

	billing := s.loadAddress(ctx, req.UserID, repository.AddressBilling)
	shipping := s.loadAddress(ctx, req.UserID, repository.AddressShipping)

	return &Response{
		Success:  true,
		Billing:  billing,
		Shipping: shipping,
	}
}

// loadAddress returns the stored address of the given kind, or an empty
// record when none exists.
func (s *Service) loadAddress(ctx context.Context, userID, kind string) *domain.Address {
	addr, err := s.addresses.Get(ctx, userID, kind)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.ErrorContext(ctx, "address lookup failed",
				slog.String("kind", kind),
				slog.String("error", err.Error()),
			)
		}
		return &domain.Address{}
	}
	return addr
}

func (s *Service) getDetails(ctx context.Context, req *Request) *Response {
	if req.UserID == "" {
		return failure("User ID required")
	}

	acct, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return failure("User not found")
		}
		s.logger.ErrorContext(ctx, "details lookup failed", slog.String("error", err.Error()))
		return failure(stripTags(err.Error()))
	}

	user := acct.Sanitized()
	return &Response{Success: true, User: &user}
}

func (s *Service) updateDetails(ctx context.Context, req *Request) *Response {
	if req.UserID == "" {
		return failure("User ID required")
	}

	acct, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return failure("User not found")
		}
		s.logger.ErrorContext(ctx, "account lookup failed", slog.String("error", err.Error()))
		return failure(stripTags(err.Error()))
	}

	// A failed current-password check aborts the whole update. No other
	// submitted field is applied.
	if req.PasswordCurrent != "" && req.PasswordNew != "" {
		if !s.checkPassword(acct.PasswordHash, req.PasswordCurrent) {
			return failure("Current password is incorrect.")
		}
		hash, err := s.hashPassword(req.PasswordNew)
		if err != nil {
			s.logger.ErrorContext(ctx, "password hash failed", slog.String("error", err.Error()))
			return failure("Update failed.")
		}
		acct.PasswordHash = hash
	}

	if req.FirstName != "" {
		acct.FirstName = sanitizeText(req.FirstName)
	}
	if req.LastName != "" {
		acct.LastName = sanitizeText(req.LastName)
	}
	if req.DisplayName != "" {
		acct.DisplayName = sanitizeText(req.DisplayName)
	}
	if req.Email != "" {
		if !validator.IsEmail(req.Email) {
			return failure("Invalid email address.")
		}
		acct.Email = req.Email
	}

	if err := s.users.Update(ctx, acct); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return failure("Account already exists (username or email taken).")
		}
		s.logger.ErrorContext(ctx, "account update failed", slog.String("error", err.Error()))
		return failure(stripTags(err.Error()))
	}

	user := acct.Sanitized()
	return &Response{
		Success: true,
		Message: "Account details updated successfully.",
		User:    &user,
	}
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// stripTags removes HTML tags from platform error messages before they are
// relayed to the caller.
func stripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// sanitizeText trims whitespace and removes any markup from a submitted
// profile field.
func sanitizeText(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}
