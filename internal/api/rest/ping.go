package rest

import (
	"errors"
	"net/http"

	"github.com/KretovDmitry/squarehouse/internal/errs"
)

// GetPingDB checks the status of the analytics database connection.
//
// Request:
//
//	GET /ping
func (h *Handler) GetPingDB(w http.ResponseWriter, r *http.Request) {
	if err := h.events.Ping(r.Context()); err != nil {
		if errors.Is(err, errs.ErrDBNotConnected) {
			h.textError(w, r, "DB not connected", err, http.StatusInternalServerError)
			return
		}
		h.textError(w, r, "connection error", err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
