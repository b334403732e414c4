package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gatherly-app/gatherly-web/internal/corehub"
	"github.com/gatherly-app/gatherly-web/internal/middleware"
	"github.com/gatherly-app/gatherly-web/internal/telemetry/metrics"
	"github.com/go-redis/redismock/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type handlerTestSuite struct {
	api     *MockeventsApi
	store   *Store
	metrics *metrics.Manager
	router  *mux.Router
}

func newHandlerTestSuite(t *testing.T) *handlerTestSuite {
	t.Helper()

	redisClient, redisMock := redismock.NewClientMock()
	t.Cleanup(func() { _ = redisClient.Close() })
	redisMock.MatchExpectationsInOrder(false)
	redisMock.Regexp().ExpectSet(`gatherly-web-selected-event\|\|.*`, `.*`, time.Hour).SetVal("OK")
	redisMock.Regexp().ExpectSAdd(selectionsSetKey, `.*`).SetVal(1)
	redisMock.Regexp().ExpectDel(`gatherly-web-selected-event\|\|.*`).SetVal(1)
	redisMock.Regexp().ExpectSRem(selectionsSetKey, `.*`).SetVal(1)
	redisMock.Regexp().ExpectDel(`gatherly-web-selected-event\|\|.*`).SetVal(0)
	redisMock.Regexp().ExpectSRem(selectionsSetKey, `.*`).SetVal(0)

	ctrl := gomock.NewController(t)
	api := NewMockeventsApi(ctrl)
	store := NewStore(time.Hour, redisClient)

	metricsManager := metrics.NewTestManager()
	router := mux.NewRouter()
	NewHandler(api, store, metricsManager).SetupRoutes(router)

	return &handlerTestSuite{
		api:     api,
		store:   store,
		metrics: metricsManager,
		router:  router,
	}
}

func (s *handlerTestSuite) request(req *http.Request, visitorID string) *httptest.ResponseRecorder {
	req = req.WithContext(middleware.ContextWithVisitorID(req.Context(), visitorID))
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func randomEvent() Event {
	return Event{
		ID:       gofakeit.UUID(),
		Name:     gofakeit.Name() + "'s wedding",
		Location: gofakeit.City(),
		Date:     "2026-09-12",
	}
}

func TestHandler_List(t *testing.T) {
	suite := newHandlerTestSuite(t)

	ev1, ev2 := randomEvent(), randomEvent()
	suite.api.EXPECT().List(gomock.Any()).Return([]Event{ev1, ev2}, nil)

	rr := suite.request(httptest.NewRequest("GET", "/admin/events", nil), "visitor-1")

	require.Equal(t, http.StatusOK, rr.Code)
	var events []Event
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &events))
	assert.Equal(t, []Event{ev1, ev2}, events)
}

func TestHandler_List_empty(t *testing.T) {
	suite := newHandlerTestSuite(t)
	suite.api.EXPECT().List(gomock.Any()).Return(nil, nil)

	rr := suite.request(httptest.NewRequest("GET", "/admin/events", nil), "visitor-1")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}

func TestHandler_List_coreAPIFailuresAreCounted(t *testing.T) {
	suite := newHandlerTestSuite(t)

	suite.api.EXPECT().List(gomock.Any()).Return(
		nil,
		&corehub.APIError{StatusCode: http.StatusBadGateway, Message: "core api is down"},
	)

	rr := suite.request(httptest.NewRequest("GET", "/admin/events", nil), "visitor-1")

	require.Equal(t, http.StatusBadGateway, rr.Code)
	rejectedCounter := suite.metrics.CounterCoreAPIErrors.With(map[string]string{"status": "rejected"})
	assert.Equal(t, float64(1), testutil.ToFloat64(rejectedCounter))

	// transport failures land in their own bucket
	suite.api.EXPECT().List(gomock.Any()).Return(nil, errors.New("connection refused"))
	rr = suite.request(httptest.NewRequest("GET", "/admin/events", nil), "visitor-1")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	transportCounter := suite.metrics.CounterCoreAPIErrors.With(map[string]string{"status": "transport"})
	assert.Equal(t, float64(1), testutil.ToFloat64(transportCounter))
}

func TestHandler_Create(t *testing.T) {
	suite := newHandlerTestSuite(t)

	params := NewEventParams{Name: "Summer gathering", Location: "Novi Sad"}
	created := Event{ID: "ev-9", Name: params.Name, Location: params.Location}
	suite.api.EXPECT().Create(gomock.Any(), params).Return(created, nil)

	body, err := json.Marshal(params)
	require.NoError(t, err)
	rr := suite.request(httptest.NewRequest("POST", "/admin/events", bytes.NewReader(body)), "visitor-1")

	require.Equal(t, http.StatusCreated, rr.Code)
	var event Event
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &event))
	assert.Equal(t, created, event)
}

func TestHandler_Create_nameRequired(t *testing.T) {
	suite := newHandlerTestSuite(t)

	rr := suite.request(httptest.NewRequest(
		"POST", "/admin/events",
		bytes.NewReader([]byte(`{"location":"Belgrade"}`)),
	), "visitor-1")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "name is required")
}

func TestHandler_SelectAndGetSelected(t *testing.T) {
	suite := newHandlerTestSuite(t)

	ev1, ev2 := randomEvent(), randomEvent()
	suite.api.EXPECT().List(gomock.Any()).Return([]Event{ev1, ev2}, nil)

	body := []byte(`{"id":"` + ev2.ID + `"}`)
	rr := suite.request(httptest.NewRequest("PUT", "/admin/events/selected", bytes.NewReader(body)), "visitor-1")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = suite.request(httptest.NewRequest("GET", "/admin/events/selected", nil), "visitor-1")
	require.Equal(t, http.StatusOK, rr.Code)
	var selected Event
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &selected))
	assert.Equal(t, ev2, selected)

	// another visitor has no selection
	rr = suite.request(httptest.NewRequest("GET", "/admin/events/selected", nil), "visitor-2")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_Select_unknownEvent(t *testing.T) {
	suite := newHandlerTestSuite(t)
	suite.api.EXPECT().List(gomock.Any()).Return([]Event{randomEvent()}, nil)

	rr := suite.request(httptest.NewRequest(
		"PUT", "/admin/events/selected",
		bytes.NewReader([]byte(`{"id":"no-such-event"}`)),
	), "visitor-1")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "event not found")

	_, ok := suite.store.Get("visitor-1")
	assert.False(t, ok)
}

func TestHandler_Delete_clearsSelection(t *testing.T) {
	suite := newHandlerTestSuite(t)

	ev1, ev2 := randomEvent(), randomEvent()
	require.NoError(t, suite.store.Select(context.Background(), "visitor-1", ev1))

	suite.api.EXPECT().Delete(gomock.Any(), ev1.ID).Return(nil)
	suite.api.EXPECT().List(gomock.Any()).Return([]Event{ev2}, nil)

	rr := suite.request(httptest.NewRequest("DELETE", "/admin/events/"+ev1.ID, nil), "visitor-1")

	require.Equal(t, http.StatusNoContent, rr.Code)
	_, ok := suite.store.Get("visitor-1")
	assert.False(t, ok)
}

func TestHandler_Delete_keepsUnrelatedSelection(t *testing.T) {
	suite := newHandlerTestSuite(t)

	ev1, ev2 := randomEvent(), randomEvent()
	require.NoError(t, suite.store.Select(context.Background(), "visitor-1", ev2))

	suite.api.EXPECT().Delete(gomock.Any(), ev1.ID).Return(nil)
	suite.api.EXPECT().List(gomock.Any()).Return([]Event{ev2}, nil)

	rr := suite.request(httptest.NewRequest("DELETE", "/admin/events/"+ev1.ID, nil), "visitor-1")

	require.Equal(t, http.StatusNoContent, rr.Code)
	selected, ok := suite.store.Get("visitor-1")
	require.True(t, ok)
	assert.Equal(t, ev2, selected)
}

func TestHandler_Delete_lastEventClearsSelection(t *testing.T) {
	suite := newHandlerTestSuite(t)

	ev1 := randomEvent()
	require.NoError(t, suite.store.Select(context.Background(), "visitor-1", ev1))

	suite.api.EXPECT().Delete(gomock.Any(), ev1.ID).Return(nil)
	suite.api.EXPECT().List(gomock.Any()).Return([]Event{}, nil)

	rr := suite.request(httptest.NewRequest("DELETE", "/admin/events/"+ev1.ID, nil), "visitor-1")

	require.Equal(t, http.StatusNoContent, rr.Code)
	_, ok := suite.store.Get("visitor-1")
	assert.False(t, ok)
}
