package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/entradahq/entrada/internal/models"
	"github.com/entradahq/entrada/internal/services"
	pkghttp "github.com/entradahq/entrada/pkg/http"
	"github.com/go-chi/chi/v5"
)

// EventServiceInterface defines the catalog operations the handlers need
type EventServiceInterface interface {
	List(ctx context.Context, filter models.EventFilter) ([]*models.Event, error)
	Get(ctx context.Context, id int64) (*services.EventDetail, error)
}

// EventHandler handles catalog HTTP requests
type EventHandler struct {
	service EventServiceInterface
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(service EventServiceInterface) *EventHandler {
	return &EventHandler{service: service}
}

// EventResponse represents an event in the HTTP response
type EventResponse struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Category         string  `json:"category"`
	City             string  `json:"city"`
	Venue            string  `json:"venue"`
	Start            string  `json:"start"`
	End              string  `json:"end"`
	PriceUSD         float64 `json:"price_usd"`
	AvailableTickets int     `json:"available_tickets"`
	BannerURL        string  `json:"banner_url,omitempty"`
	Description      string  `json:"description,omitempty"`
}

// EventDetailResponse is an event plus its similar-category suggestions
type EventDetailResponse struct {
	Event   *EventResponse   `json:"event"`
	Similar []*EventResponse `json:"similar"`
}

// FilterOptionsResponse lists the values the catalog filters accept
type FilterOptionsResponse struct {
	Categories []string `json:"categories"`
	Cities     []string `json:"cities"`
}

// FilterOptions returns the category and city choices for the catalog
func (h *EventHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteJSON(w, http.StatusOK, FilterOptionsResponse{
		Categories: models.Categories,
		Cities:     models.Cities,
	})
}

// List handles catalog browsing with optional q, category, city, and
// date (YYYY-MM-DD) query parameters.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.EventFilter{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		City:     r.URL.Query().Get("city"),
	}

	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			pkghttp.WriteBadRequest(w, "Invalid date, expected YYYY-MM-DD")
			return
		}
		filter.Date = &date
	}

	events, err := h.service.List(r.Context(), filter)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	responses := make([]*EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, eventModelToResponse(event))
	}

	pkghttp.WriteJSON(w, http.StatusOK, responses)
}

// Get handles the event detail view
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid event id")
		return
	}

	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Event not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	similar := make([]*EventResponse, 0, len(detail.Similar))
	for _, event := range detail.Similar {
		similar = append(similar, eventModelToResponse(event))
	}

	pkghttp.WriteJSON(w, http.StatusOK, EventDetailResponse{
		Event:   eventModelToResponse(detail.Event),
		Similar: similar,
	})
}

func eventModelToResponse(event *models.Event) *EventResponse {
	return &EventResponse{
		ID:               event.ID,
		Title:            event.Title,
		Category:         event.Category,
		City:             event.City,
		Venue:            event.Venue,
		Start:            event.Start.Format(time.RFC3339),
		End:              event.End.Format(time.RFC3339),
		PriceUSD:         event.PriceUSD,
		AvailableTickets: event.AvailableTickets,
		BannerURL:        event.BannerURL,
		Description:      event.Description,
	}
}
