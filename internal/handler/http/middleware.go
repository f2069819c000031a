package http

import (
	"context"
	"net/http"

	"github.com/globaltire/storefront/internal/httputil"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// clientIDKey is the context key for the storefront client identifier.
const clientIDKey contextKey = "client_id"

// ClientIDFromHeader reads the X-Client-ID header and stores it in the
// request context. Session state is keyed by this client-supplied value;
// it identifies, it does not authenticate. Requests without it are
// rejected.
func ClientIDFromHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := r.Header.Get("X-Client-ID")
		if cid == "" {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Client-ID header is required"},
			})
			return
		}
		ctx := context.WithValue(r.Context(), clientIDKey, cid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIDFromContext extracts the client identifier from the request context.
func clientIDFromContext(ctx context.Context) (string, bool) {
	cid, ok := ctx.Value(clientIDKey).(string)
	return cid, ok && cid != ""
}
