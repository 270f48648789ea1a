// Package rest implements the HTTP handlers of the squarehouse API.
package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/KretovDmitry/squarehouse/internal/errs"
	"github.com/KretovDmitry/squarehouse/internal/logger"
	"github.com/KretovDmitry/squarehouse/internal/repository"
)

const (
	contentType     = "Content-Type"
	textPlain       = "text/plain; charset=utf-8"
	applicationJSON = "application/json"
)

// Handler serves the shortener, the BI count endpoint
// and the dataset endpoints.
type Handler struct {
	// mappings is the process-local short key store.
	mappings repository.MappingStorage
	// events is the analytics database.
	events repository.EventStorage
	// dataset is the in-memory table of daily counts.
	dataset repository.DatasetStorage
	// logger is the application logger.
	logger logger.Logger
}

// NewHandler constructs a new Handler, ensuring that the dependencies are valid values.
func NewHandler(
	mappings repository.MappingStorage,
	events repository.EventStorage,
	dataset repository.DatasetStorage,
	logger logger.Logger,
) (*Handler, error) {
	if mappings == nil {
		return nil, fmt.Errorf("%w: mapping store", errs.ErrNilDependency)
	}
	if events == nil {
		return nil, fmt.Errorf("%w: event store", errs.ErrNilDependency)
	}
	if dataset == nil {
		return nil, fmt.Errorf("%w: dataset", errs.ErrNilDependency)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger", errs.ErrNilDependency)
	}

	return &Handler{
		mappings: mappings,
		events:   events,
		dataset:  dataset,
		logger:   logger,
	}, nil
}

// textError writes err and message as a plain text body.
// Server side errors are logged.
func (h *Handler) textError(w http.ResponseWriter, r *http.Request, message string, err error, code int) {
	if code >= http.StatusInternalServerError {
		h.logger.With(r.Context()).Errorf("%s: %v", message, err)
	}
	w.Header().Set(contentType, textPlain)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = fmt.Fprintf(w, "%s: %s", err, message)
}

// writeJSON encodes v as the response body with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set(contentType, applicationJSON)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.With(r.Context()).Errorf("failed to encode response: %v", err)
	}
}
