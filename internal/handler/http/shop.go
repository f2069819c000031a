package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/globaltire/storefront/internal/httputil"
	"github.com/globaltire/storefront/internal/shop"
)

// ShopHandler exposes the product listing views.
type ShopHandler struct {
	controller *shop.Controller
	logger     *slog.Logger
}

// NewShopHandler creates the shop listing handler.
func NewShopHandler(controller *shop.Controller, logger *slog.Logger) *ShopHandler {
	return &ShopHandler{
		controller: controller,
		logger:     logger,
	}
}

// GetListing handles GET /api/shop. Optional category and page query
// parameters move the listing before the view is built.
func (h *ShopHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Has("category") {
		h.controller.SetFilter(query.Get("category"))
	}
	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "page must be numeric"},
			})
			return
		}
		h.controller.SetPage(page)
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.controller.View()})
}

// Reload handles POST /api/shop/reload, refreshing the catalog snapshot.
// The response carries the resulting view whether the reload succeeded or
// left the listing in the failed state.
func (h *ShopHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Load(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "shop reload failed", slog.String("error", err.Error()))
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.controller.View()})
}
