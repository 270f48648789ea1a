package rest

import (
	"encoding/json"
	"net/http"

	"github.com/KretovDmitry/squarehouse/internal/errs"
	"github.com/KretovDmitry/squarehouse/internal/hasher"
	"github.com/KretovDmitry/squarehouse/internal/models"
)

type (
	mapLongToShortRequest struct {
		// pointer tells a missing field apart from an empty string.
		LongURL *string `json:"longUrl"`
	}

	mapLongToShortResponse struct {
		ShortURL string `json:"shortUrl"`
	}
)

// PostMapLongToShort maps a long URL to its short key.
// The URL is stored as opaque text, it is not validated.
//
// Request:
//
//	POST /map_long_to_short
//	{"longUrl": "https://example.com/page"}
//
// Response:
//
//	HTTP/1.1 200 OK
//	Content-Type: application/json
//	{"shortUrl": "Base58{1,11}"}
func (h *Handler) PostMapLongToShort(w http.ResponseWriter, r *http.Request) {
	var payload mapLongToShortRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.textError(w, r, "failed to decode request", errs.ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	if payload.LongURL == nil {
		h.textError(w, r, "longUrl is not provided", errs.ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	longURL := *payload.LongURL
	shortKey := hasher.Generate(longURL)

	if err := h.mappings.Put(r.Context(), models.NewMapping(shortKey, longURL)); err != nil {
		h.textError(w, r, "failed to save mapping", err, http.StatusInternalServerError)
		return
	}

	h.logger.With(r.Context(), "short_key", shortKey).Debug("mapping saved")

	h.writeJSON(w, r, http.StatusOK, mapLongToShortResponse{ShortURL: shortKey})
}
