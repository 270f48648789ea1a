package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/KretovDmitry/squarehouse/internal/errs"
	"github.com/KretovDmitry/squarehouse/internal/models"
	"github.com/asaskevich/govalidator"
)

type (
	countRequest struct {
		Date string `json:"date"`
	}

	countResponse struct {
		Result int64 `json:"result"`
	}

	loadResponse struct {
		Msg string `json:"msg"`
	}

	subsetRequest struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}

	subsetResponse struct {
		JSONData []models.DailyCount `json:"jsonData"`
	}
)

// PostCount returns the number of trial events created on a day.
//
// Request:
//
//	POST /endpoint
//	{"date": "2016-01-02"}
//
// Response:
//
//	HTTP/1.1 200 OK
//	Content-Type: application/json
//	{"result": 42}
func (h *Handler) PostCount(w http.ResponseWriter, r *http.Request) {
	var payload countRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.textError(w, r, "failed to decode request", errs.ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	day, ok := parseDate(payload.Date)
	if !ok {
		h.textError(w, r, "date must be in YYYY-MM-DD form", errs.ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	count, err := h.events.CountOn(r.Context(), day)
	if err != nil {
		h.eventsError(w, r, "failed to count events", err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, countResponse{Result: count})
}

// PostLoadDataFrame loads daily event counts into the in-memory dataset,
// replacing whatever was loaded before.
//
// Request:
//
//	POST /loadDataFrame
//
// Response:
//
//	HTTP/1.1 200 OK
//	Content-Type: application/json
//	{"msg": "dataframe loaded."}
func (h *Handler) PostLoadDataFrame(w http.ResponseWriter, r *http.Request) {
	rows, err := h.events.DailyCounts(r.Context())
	if err != nil {
		h.eventsError(w, r, "failed to load daily counts", err)
		return
	}

	h.dataset.Replace(rows)
	h.logger.With(r.Context(), "rows", len(rows)).Info("dataset loaded")

	h.writeJSON(w, r, http.StatusOK, loadResponse{Msg: "dataframe loaded."})
}

// PostChooseSubset returns the loaded daily counts between two dates inclusive.
//
// Request:
//
//	POST /chooseSubset
//	{"startDate": "2016-01-01", "endDate": "2016-01-31"}
//
// Response:
//
//	HTTP/1.1 200 OK
//	Content-Type: application/json
//	{"jsonData": [{"date": 1451606400000, "value": 12}]}
func (h *Handler) PostChooseSubset(w http.ResponseWriter, r *http.Request) {
	var payload subsetRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.textError(w, r, "failed to decode request", errs.ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	start, ok := parseDate(payload.StartDate)
	if !ok {
		h.textError(w, r, "startDate must be in YYYY-MM-DD form", errs.ErrInvalidRequest, http.StatusBadRequest)
		return
	}
	end, ok := parseDate(payload.EndDate)
	if !ok {
		h.textError(w, r, "endDate must be in YYYY-MM-DD form", errs.ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	rows, err := h.dataset.Slice(start, end)
	if err != nil {
		if errors.Is(err, errs.ErrDatasetNotLoaded) {
			h.textError(w, r, "POST /loadDataFrame first", err, http.StatusConflict)
			return
		}
		h.textError(w, r, "failed to slice dataset", err, http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, r, http.StatusOK, subsetResponse{JSONData: rows})
}

// eventsError reports a failed analytics database call.
func (h *Handler) eventsError(w http.ResponseWriter, r *http.Request, message string, err error) {
	switch {
	case errors.Is(err, errs.ErrDBNotConnected):
		h.textError(w, r, "DB not connected", errs.ErrDBNotConnected, http.StatusInternalServerError)
	case errors.Is(err, errs.ErrRelationMissing):
		h.textError(w, r, "events table is missing", err, http.StatusInternalServerError)
	default:
		h.textError(w, r, message, err, http.StatusInternalServerError)
	}
}

func parseDate(s string) (time.Time, bool) {
	if !govalidator.IsTime(s, models.DateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
