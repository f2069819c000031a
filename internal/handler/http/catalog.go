package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/globaltire/storefront/internal/upstream"
)

// RawFetcher retrieves an uninterpreted upstream response for mirroring.
type RawFetcher interface {
	FetchRaw(ctx context.Context, params url.Values) (*upstream.RawResult, error)
}

// CatalogHandler is the read-only catalog proxy. It forwards GET requests
// to the upstream products API with credentials injected and mirrors the
// upstream response back byte for byte.
type CatalogHandler struct {
	fetcher RawFetcher
	logger  *slog.Logger
}

// NewCatalogHandler creates the catalog proxy handler.
func NewCatalogHandler(fetcher RawFetcher, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		fetcher: fetcher,
		logger:  logger,
	}
}

// ServeHTTP handles /api/catalog. Anything but GET is refused; OPTIONS is
// terminated earlier by the CORS middleware.
func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte(`{"error":"Method not allowed. Read-only access."}`))
		return
	}

	res, err := h.fetcher.FetchRaw(r.Context(), r.URL.Query())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "catalog proxy request failed",
			slog.String("error", err.Error()),
		)
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Proxy Error: " + err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(res.StatusCode)
	_, _ = w.Write(res.Body)
}
