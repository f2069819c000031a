package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/globaltire/storefront/internal/domain"
	"github.com/globaltire/storefront/internal/httputil"
	"github.com/globaltire/storefront/internal/session"
	"github.com/globaltire/storefront/internal/validator"
)

// SessionHandler exposes the per-client cart and login state.
type SessionHandler struct {
	store  *session.Store
	logger *slog.Logger
}

// NewSessionHandler creates the session state handler.
func NewSessionHandler(store *session.Store, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		store:  store,
		logger: logger,
	}
}

// AddItemRequest is the JSON body for adding a product to the cart. The
// price arrives in whatever representation the catalog carries; the store
// derives the numeric value.
type AddItemRequest struct {
	ID        int64  `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required,min=1,max=500"`
	Price     string `json:"price"`
	Image     string `json:"image"`
	Permalink string `json:"permalink"`
	Quantity  int    `json:"quantity"`
}

// SetQuantityRequest is the JSON body for updating a cart line quantity.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /api/session/cart.
func (h *SessionHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	clientID, _ := clientIDFromContext(r.Context())

	cart, err := h.store.Get(r.Context(), clientID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// AddItem handles POST /api/session/cart/items.
func (h *SessionHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	clientID, _ := clientIDFromContext(r.Context())

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product := &domain.Product{
		ID:        req.ID,
		Name:      req.Name,
		Price:     req.Price,
		Permalink: req.Permalink,
	}
	if req.Image != "" {
		product.Images = []domain.ProductImage{{Src: req.Image}}
	}

	cart, err := h.store.AddItem(r.Context(), clientID, product, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// SetQuantity handles PUT /api/session/cart/items/{productID}.
func (h *SessionHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	clientID, _ := clientIDFromContext(r.Context())

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "product id must be numeric"},
		})
		return
	}

	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	cart, err := h.store.SetQuantity(r.Context(), clientID, productID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// RemoveItem handles DELETE /api/session/cart/items/{productID}.
func (h *SessionHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	clientID, _ := clientIDFromContext(r.Context())

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "product id must be numeric"},
		})
		return
	}

	cart, err := h.store.RemoveItem(r.Context(), clientID, productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// ClearCart handles DELETE /api/session/cart.
func (h *SessionHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	clientID, _ := clientIDFromContext(r.Context())

	if err := h.store.Clear(r.Context(), clientID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: &domain.Cart{Items: []domain.CartItem{}}})
}

// GetUser handles GET /api/session/user. A logged-out client gets a null
// data field, not an error.
func (h *SessionHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	clientID, _ := clientIDFromContext(r.Context())

	user, err := h.store.GetUser(r.Context(), clientID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// SetUser handles PUT /api/session/user.
func (h *SessionHandler) SetUser(w http.ResponseWriter, r *http.Request) {
	clientID, _ := clientIDFromContext(r.Context())

	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}
	if user.ID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "user id is required"},
		})
		return
	}

	if err := h.store.SetUser(r.Context(), clientID, user); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// ClearUser handles DELETE /api/session/user.
func (h *SessionHandler) ClearUser(w http.ResponseWriter, r *http.Request) {
	clientID, _ := clientIDFromContext(r.Context())

	if err := h.store.ClearUser(r.Context(), clientID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{})
}
