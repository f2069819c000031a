package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/globaltire/storefront/internal/account"
)

var formDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// AccountHandler is the account proxy endpoint. A single POST route
// dispatches on the action query parameter; every business outcome is
// answered with HTTP 200 and the success/message envelope.
type AccountHandler struct {
	service *account.Service
	logger  *slog.Logger
}

// NewAccountHandler creates the account endpoint handler.
func NewAccountHandler(service *account.Service, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		logger:  logger,
	}
}

// ServeHTTP handles POST /api/account?action=<action>.
func (h *AccountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := h.decodeRequest(r)

	// user_id may arrive as a query parameter for read actions.
	if req.UserID == "" {
		req.UserID = r.URL.Query().Get("user_id")
	}

	action, ok := account.ParseAction(r.URL.Query().Get("action"))
	if !ok {
		h.writeResponse(w, &account.Response{Success: false, Message: "Invalid action."})
		return
	}

	h.writeResponse(w, h.service.Dispatch(r.Context(), action, req))
}

// decodeRequest reads the body as JSON when it parses to something
// non-empty, falling back to conventional form fields otherwise.
func (h *AccountHandler) decodeRequest(r *http.Request) *account.Request {
	req := &account.Request{}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return req
	}

	if len(bytes.TrimSpace(body)) > 0 {
		var fromJSON account.Request
		if jsonErr := json.Unmarshal(body, &fromJSON); jsonErr == nil && fromJSON != (account.Request{}) {
			return &fromJSON
		}
	}

	// Restore the body for form parsing.
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err := r.ParseForm(); err != nil {
		return req
	}
	if err := formDecoder.Decode(req, r.PostForm); err != nil {
		h.logger.DebugContext(r.Context(), "form decode failed", slog.String("error", err.Error()))
	}
	return req
}

func (h *AccountHandler) writeResponse(w http.ResponseWriter, resp *account.Response) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
