package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/entradahq/entrada/internal/models"
	"github.com/entradahq/entrada/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(id int64, title string) *models.Event {
	start := time.Date(2026, 10, 12, 19, 0, 0, 0, time.UTC)
	return &models.Event{
		ID:               id,
		Title:            title,
		Category:         "Music",
		City:             "New York",
		Venue:            "Test Hall",
		Start:            start,
		End:              start.Add(3 * time.Hour),
		PriceUSD:         50,
		AvailableTickets: 100,
	}
}

func TestEventList_ParsesQueryParams(t *testing.T) {
	var gotFilter models.EventFilter
	svc := &MockEventService{
		ListFunc: func(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
			gotFilter = filter
			return []*models.Event{testEvent(1, "Jazz Night")}, nil
		},
	}
	handler := NewEventHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/events?q=jazz&category=Music&city=New+York&date=2026-10-12", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	var resp []*EventResponse
	AssertJSONResponse(t, rec, http.StatusOK, &resp)
	require.Len(t, resp, 1)
	assert.Equal(t, "jazz", gotFilter.Query)
	assert.Equal(t, "Music", gotFilter.Category)
	assert.Equal(t, "New York", gotFilter.City)
	require.NotNil(t, gotFilter.Date)
	assert.Equal(t, "2026-10-12", gotFilter.Date.Format("2006-01-02"))
}

func TestEventList_InvalidDate(t *testing.T) {
	handler := NewEventHandler(&MockEventService{})

	req := httptest.NewRequest(http.MethodGet, "/events?date=12-10-2026", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventGet(t *testing.T) {
	svc := &MockEventService{
		GetFunc: func(ctx context.Context, id int64) (*services.EventDetail, error) {
			assert.Equal(t, int64(42), id)
			return &services.EventDetail{
				Event:   testEvent(42, "Jazz Night"),
				Similar: []*models.Event{testEvent(43, "Blues Evening")},
			}, nil
		},
	}
	handler := NewEventHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/events/42", nil)
	req = WithChiRouteContext(req, map[string]string{"id": "42"})
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	var resp EventDetailResponse
	AssertJSONResponse(t, rec, http.StatusOK, &resp)
	assert.Equal(t, "Jazz Night", resp.Event.Title)
	require.Len(t, resp.Similar, 1)
	assert.Equal(t, "Blues Evening", resp.Similar[0].Title)
}

func TestEventGet_NotFound(t *testing.T) {
	handler := NewEventHandler(&MockEventService{})

	req := httptest.NewRequest(http.MethodGet, "/events/99", nil)
	req = WithChiRouteContext(req, map[string]string{"id": "99"})
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventGet_InvalidID(t *testing.T) {
	handler := NewEventHandler(&MockEventService{})

	req := httptest.NewRequest(http.MethodGet, "/events/abc", nil)
	req = WithChiRouteContext(req, map[string]string{"id": "abc"})
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventFilterOptions(t *testing.T) {
	handler := NewEventHandler(&MockEventService{})

	req := httptest.NewRequest(http.MethodGet, "/events/filters", nil)
	rec := httptest.NewRecorder()
	handler.FilterOptions(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp FilterOptionsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Categories, "All")
	assert.Contains(t, resp.Cities, "Any")
}
