package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KretovDmitry/squarehouse/internal/errs"
	"github.com/KretovDmitry/squarehouse/internal/models"
	"github.com/KretovDmitry/squarehouse/internal/repository"
	"github.com/KretovDmitry/squarehouse/internal/repository/memstore"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func initMockStore(mappings ...*models.Mapping) repository.MappingStorage {
	s := memstore.NewMappingRepository()
	for _, m := range mappings {
		_ = s.Put(context.Background(), m)
	}
	return s
}

func TestGetRedirect(t *testing.T) {
	tests := []struct {
		name           string
		shortKey       string
		store          repository.MappingStorage
		assertResponse func(res *http.Response)
	}{
		{
			name:     "positive test #1",
			shortKey: "TZqSKV4t",
			store:    initMockStore(models.NewMapping("TZqSKV4t", "https://example.com/page")),
			assertResponse: func(res *http.Response) {
				assert.Equal(t, http.StatusFound, res.StatusCode)
				assert.Equal(t, "https://example.com/page", res.Header.Get("Location"))
			},
		},
		{
			name:     "positive test #2: empty long url",
			shortKey: "YBbxJEcQ",
			store:    initMockStore(models.NewMapping("YBbxJEcQ", "")),
			assertResponse: func(res *http.Response) {
				assert.Equal(t, http.StatusFound, res.StatusCode)
				assert.Contains(t, res.Header, "Location")
				assert.Equal(t, "", res.Header.Get("Location"))
			},
		},
		{
			name:     "no such key",
			shortKey: "doesnotexist",
			store:    memstore.NewMappingRepository(),
			assertResponse: func(res *http.Response) {
				assert.Equal(t, http.StatusNotFound, res.StatusCode)
				assert.Empty(t, res.Header.Get("Location"))
				assert.Equal(t,
					fmt.Sprintf("%s: no such short key: doesnotexist", errs.ErrNotFound),
					getResponseTextPayload(t, res))
			},
		},
		{
			name:     "failed to get mapping from store",
			shortKey: "2x1xx1x2",
			store:    &brokenStore{},
			assertResponse: func(res *http.Response) {
				assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
				assert.Equal(t,
					fmt.Sprintf("%s: failed to retrieve mapping: 2x1xx1x2", errIntentionallyNotWorkingMethod),
					getResponseTextPayload(t, res))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/src/{shortKey}", http.NoBody)

			// add context to the request so that chi can identify the dynamic part of the URL
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("shortKey", tt.shortKey)

			r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler := newTestHandler(t, tt.store, nil)
			handler.GetRedirect(w, r)

			res := w.Result()
			defer res.Body.Close()

			assert.Equal(t, textPlain, res.Header.Get(contentType))
			tt.assertResponse(res)
		})
	}
}
