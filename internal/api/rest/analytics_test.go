package rest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KretovDmitry/squarehouse/internal/errs"
	"github.com/KretovDmitry/squarehouse/internal/logger"
	"github.com/KretovDmitry/squarehouse/internal/models"
	"github.com/KretovDmitry/squarehouse/internal/repository"
	"github.com/KretovDmitry/squarehouse/internal/repository/dataset"
	"github.com/KretovDmitry/squarehouse/internal/repository/memstore"
	"github.com/KretovDmitry/squarehouse/internal/repository/mock"
	"github.com/KretovDmitry/squarehouse/internal/repository/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func date(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPostCount(t *testing.T) {
	path := "/endpoint"

	type want struct {
		response   string
		statusCode int
	}

	tests := []struct {
		name    string
		payload string
		events  func(ctrl *gomock.Controller) repository.EventStorage
		want    want
	}{
		{
			name:    "positive test",
			payload: `{"date":"2016-01-02"}`,
			events: func(ctrl *gomock.Controller) repository.EventStorage {
				m := mock.NewMockEventStorage(ctrl)
				m.EXPECT().CountOn(gomock.Any(), date("2016-01-02")).Return(int64(42), nil)
				return m
			},
			want: want{
				statusCode: http.StatusOK,
				response:   `{"result":42}`,
			},
		},
		{
			name:    "invalid payload: invalid JSON",
			payload: `{"date";"2016-01-02"}`,
			events:  noEvents,
			want: want{
				statusCode: http.StatusBadRequest,
				response:   fmt.Sprintf("%s: failed to decode request", errs.ErrInvalidRequest),
			},
		},
		{
			name:    "invalid payload: missing date",
			payload: `{}`,
			events:  noEvents,
			want: want{
				statusCode: http.StatusBadRequest,
				response:   fmt.Sprintf("%s: date must be in YYYY-MM-DD form", errs.ErrInvalidRequest),
			},
		},
		{
			name:    "invalid payload: bad date",
			payload: `{"date":"02.01.2016"}`,
			events:  noEvents,
			want: want{
				statusCode: http.StatusBadRequest,
				response:   fmt.Sprintf("%s: date must be in YYYY-MM-DD form", errs.ErrInvalidRequest),
			},
		},
		{
			name:    "DB not connected",
			payload: `{"date":"2016-01-02"}`,
			events: func(*gomock.Controller) repository.EventStorage {
				return postgres.Disconnected{}
			},
			want: want{
				statusCode: http.StatusInternalServerError,
				response:   fmt.Sprintf("%s: DB not connected", errs.ErrDBNotConnected),
			},
		},
		{
			name:    "query failed",
			payload: `{"date":"2016-01-02"}`,
			events: func(ctrl *gomock.Controller) repository.EventStorage {
				m := mock.NewMockEventStorage(ctrl)
				m.EXPECT().CountOn(gomock.Any(), gomock.Any()).Return(int64(0), errIntentionallyNotWorkingMethod)
				return m
			},
			want: want{
				statusCode: http.StatusInternalServerError,
				response:   fmt.Sprintf("%s: failed to count events", errIntentionallyNotWorkingMethod),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(tt.payload))
			w := httptest.NewRecorder()

			handler := newTestHandler(t, nil, tt.events(ctrl))
			handler.PostCount(w, r)

			res := w.Result()
			defer res.Body.Close()

			assert.Equal(t, tt.want.statusCode, res.StatusCode)
			body := getResponseTextPayload(t, res)
			if tt.want.statusCode == http.StatusOK {
				assert.JSONEq(t, tt.want.response, body)
				return
			}
			assert.Equal(t, tt.want.response, body)
		})
	}
}

func TestPostCount_RelationMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock.NewMockEventStorage(ctrl)
	m.EXPECT().CountOn(gomock.Any(), gomock.Any()).
		Return(int64(0), fmt.Errorf("count events: %w", errs.ErrRelationMissing))

	l, logs := logger.NewForTest()
	handler, err := NewHandler(memstore.NewMappingRepository(), m, dataset.New(), l)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/endpoint", strings.NewReader(`{"date":"2016-01-02"}`))
	w := httptest.NewRecorder()
	handler.PostCount(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Contains(t, getResponseTextPayload(t, res), "events table is missing")
	assert.Equal(t, 1, logs.FilterMessageSnippet("events table is missing").Len())
}

func TestDataFrameFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	events := mock.NewMockEventStorage(ctrl)
	events.EXPECT().DailyCounts(gomock.Any()).Return([]models.DailyCount{
		{Date: date("2016-01-01"), Value: 1},
		{Date: date("2016-01-02"), Value: 2},
		{Date: date("2016-01-03"), Value: 3},
	}, nil)

	handler := newTestHandler(t, nil, events)

	choose := func(payload string) *http.Response {
		r := httptest.NewRequest(http.MethodPost, "/chooseSubset", strings.NewReader(payload))
		w := httptest.NewRecorder()
		handler.PostChooseSubset(w, r)
		return w.Result()
	}

	// before load
	res := choose(`{"startDate":"2016-01-01","endDate":"2016-01-03"}`)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t,
		fmt.Sprintf("%s: POST /loadDataFrame first", errs.ErrDatasetNotLoaded),
		getResponseTextPayload(t, res))
	require.NoError(t, res.Body.Close())

	// load
	r := httptest.NewRequest(http.MethodPost, "/loadDataFrame", http.NoBody)
	w := httptest.NewRecorder()
	handler.PostLoadDataFrame(w, r)
	res = w.Result()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"msg":"dataframe loaded."}`, getResponseTextPayload(t, res))
	require.NoError(t, res.Body.Close())

	// slice
	res = choose(`{"startDate":"2016-01-02","endDate":"2016-01-03"}`)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, fmt.Sprintf(`{"jsonData":[{"date":%d,"value":2},{"date":%d,"value":3}]}`,
		date("2016-01-02").UnixMilli(), date("2016-01-03").UnixMilli()),
		getResponseTextPayload(t, res))
	require.NoError(t, res.Body.Close())

	// empty slice is still a list
	res = choose(`{"startDate":"2017-01-01","endDate":"2017-01-31"}`)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"jsonData":[]}`, getResponseTextPayload(t, res))
	require.NoError(t, res.Body.Close())
}

func TestPostChooseSubset_BadRequest(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		response string
	}{
		{
			name:     "invalid JSON",
			payload:  `{"startDate"}`,
			response: fmt.Sprintf("%s: failed to decode request", errs.ErrInvalidRequest),
		},
		{
			name:     "bad start date",
			payload:  `{"startDate":"2016-13-01","endDate":"2016-01-03"}`,
			response: fmt.Sprintf("%s: startDate must be in YYYY-MM-DD form", errs.ErrInvalidRequest),
		},
		{
			name:     "missing end date",
			payload:  `{"startDate":"2016-01-01"}`,
			response: fmt.Sprintf("%s: endDate must be in YYYY-MM-DD form", errs.ErrInvalidRequest),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/chooseSubset", strings.NewReader(tt.payload))
			w := httptest.NewRecorder()

			handler := newTestHandler(t, nil, nil)
			handler.PostChooseSubset(w, r)

			res := w.Result()
			defer res.Body.Close()

			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			assert.Equal(t, tt.response, getResponseTextPayload(t, res))
		})
	}
}

func TestPostLoadDataFrame_DBNotConnected(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/loadDataFrame", http.NoBody)
	w := httptest.NewRecorder()

	handler := newTestHandler(t, nil, nil)
	handler.PostLoadDataFrame(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, fmt.Sprintf("%s: DB not connected", errs.ErrDBNotConnected),
		getResponseTextPayload(t, res))
}

func noEvents(ctrl *gomock.Controller) repository.EventStorage {
	return mock.NewMockEventStorage(ctrl)
}
