// Package handlers implements the HTTP endpoints for deriving and
// reconciling shared transactions.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/dvloznov/budget-share/internal/api/middleware"
	"github.com/dvloznov/budget-share/internal/domain"
	"github.com/dvloznov/budget-share/internal/share"
)

// TransactionsHandler serves the shared-transaction endpoints. Rule tables
// and the budgeting client are loaded once at startup; when one of them is
// missing the affected endpoints answer with a descriptive error instead of
// taking the process down.
type TransactionsHandler struct {
	svc *share.Service
	log zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(svc *share.Service, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{svc: svc, log: log}
}

// SharedTransactions handles GET /api/transactions/shared.
func (h *TransactionsHandler) SharedTransactions(w http.ResponseWriter, r *http.Request) {
	svc := h.resolve(w)
	if svc == nil {
		return
	}
	since, ok := h.sinceDate(w, r)
	if !ok {
		return
	}

	users, err := svc.CollectShared(r.Context(), since)
	if err != nil {
		h.writeCollectError(w, err)
		return
	}

	// Return the array directly for client compatibility.
	if users == nil {
		users = []share.UserShared{}
	}
	middleware.WriteJSON(w, http.StatusOK, users)
}

// PreviewSplit handles POST /api/transactions/split/preview. The optional
// body is a roster of users with their shared transactions; without one the
// roster is collected from the feed first. Nothing is written.
func (h *TransactionsHandler) PreviewSplit(w http.ResponseWriter, r *http.Request) {
	svc := h.resolve(w)
	if svc == nil {
		return
	}

	var users []share.UserShared
	if !h.decodeBody(w, r, &users) {
		return
	}
	if users == nil {
		since, ok := h.sinceDate(w, r)
		if !ok {
			return
		}
		collected, err := svc.CollectShared(r.Context(), since)
		if err != nil {
			h.writeCollectError(w, err)
			return
		}
		users = collected
	}

	groups, err := svc.SplitAll(r.Context(), users)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to split shared transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to split shared transactions")
		return
	}

	if groups == nil {
		groups = []share.SplitGroup{}
	}
	middleware.WriteJSON(w, http.StatusOK, groups)
}

// Split handles POST /api/transactions/split. The optional body carries
// previewed split groups; without one the full collect and split cycle runs
// first. Every record is then upserted into its budget.
func (h *TransactionsHandler) Split(w http.ResponseWriter, r *http.Request) {
	svc := h.resolve(w)
	if svc == nil {
		return
	}

	var groups []share.SplitGroup
	if !h.decodeBody(w, r, &groups) {
		return
	}
	if groups == nil {
		since, ok := h.sinceDate(w, r)
		if !ok {
			return
		}
		users, err := svc.CollectShared(r.Context(), since)
		if err != nil {
			h.writeCollectError(w, err)
			return
		}
		split, err := svc.SplitAll(r.Context(), users)
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to split shared transactions")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to split shared transactions")
			return
		}
		groups = split
	}

	results := svc.Reconcile(r.Context(), groups)

	if results == nil {
		results = []share.UpsertResult{}
	}
	middleware.WriteJSON(w, http.StatusOK, results)
}

// resolve returns the service when every startup resource is present,
// otherwise writes the error describing what is missing.
func (h *TransactionsHandler) resolve(w http.ResponseWriter) *share.Service {
	switch {
	case h.svc == nil || h.svc.Cats == nil:
		middleware.WriteError(w, http.StatusNotFound, "Category mappings are not loaded")
	case h.svc.Settings == nil:
		middleware.WriteError(w, http.StatusNotFound, "User settings are not loaded")
	case h.svc.Budgets == nil:
		middleware.WriteError(w, http.StatusUnauthorized, "Budget service credentials are not configured")
	default:
		return h.svc
	}
	return nil
}

// sinceDate parses the since_date query parameter, defaulting to the start
// of the standard feed window.
func (h *TransactionsHandler) sinceDate(w http.ResponseWriter, r *http.Request) (civil.Date, bool) {
	raw := r.URL.Query().Get("since_date")
	if raw == "" {
		return share.DefaultSince(time.Now()), true
	}
	since, err := civil.ParseDate(raw)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid since_date format")
		return civil.Date{}, false
	}
	return since, true
}

// decodeBody decodes an optional JSON request body into v. A missing or
// null body leaves v untouched; a malformed one writes a 400 and returns
// false.
func (h *TransactionsHandler) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return true
	}
	if err := json.Unmarshal(body, v); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (h *TransactionsHandler) writeCollectError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrLookupUnresolved):
		middleware.WriteError(w, http.StatusNotFound, "Budget not found")
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInvalidArgument):
		middleware.WriteError(w, http.StatusNotFound, "User not found")
	default:
		h.log.Error().Err(err).Msg("Failed to collect shared transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to collect shared transactions")
	}
}
