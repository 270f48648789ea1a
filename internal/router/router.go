// Package router wires the REST handlers and middlewares into a chi router.
package router

import (
	"net/http"

	"github.com/KretovDmitry/squarehouse/internal/api/rest"
	"github.com/KretovDmitry/squarehouse/internal/logger"
	mw "github.com/KretovDmitry/squarehouse/internal/middleware"
	"github.com/KretovDmitry/squarehouse/pkg/accesslog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nanmu42/gzip"
)

// New returns the HTTP handler of the whole API.
func New(h *rest.Handler, log logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(accesslog.Handler(log))
	r.Use(mw.Unzip(log))
	r.Use(gzip.DefaultHandler().WrapHandler)

	r.Get("/api", h.GetWelcome)
	r.Get("/ping", h.GetPingDB)

	// URL shortener.
	r.Post("/map_long_to_short", h.PostMapLongToShort)
	r.Get("/src/{shortKey}", h.GetRedirect)

	// BI count endpoint.
	r.Post("/endpoint", h.PostCount)

	// Dataset slicer.
	r.Post("/loadDataFrame", h.PostLoadDataFrame)
	r.Post("/chooseSubset", h.PostChooseSubset)

	return r
}
