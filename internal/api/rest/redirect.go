package rest

import (
	"errors"
	"net/http"

	"github.com/KretovDmitry/squarehouse/internal/errs"
	"github.com/go-chi/chi/v5"
)

// GetRedirect redirects to the long URL stored under the short key.
//
// Request:
//
//	GET /src/{shortKey}
//
// Response:
//
//	HTTP/1.1 302 Found
//	Location: https://example.com/page
func (h *Handler) GetRedirect(w http.ResponseWriter, r *http.Request) {
	shortKey := chi.URLParam(r, "shortKey")

	m, err := h.mappings.Get(r.Context(), shortKey)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			h.textError(w, r, "no such short key: "+shortKey, errs.ErrNotFound, http.StatusNotFound)
			return
		}
		h.textError(w, r, "failed to retrieve mapping: "+shortKey, err, http.StatusInternalServerError)
		return
	}

	// Location is set verbatim: http.Redirect would resolve
	// relative or empty URLs against the request path.
	w.Header().Set(contentType, textPlain)
	w.Header().Set("Location", m.LongURL)
	w.WriteHeader(http.StatusFound)
}
