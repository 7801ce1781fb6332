package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/entradahq/entrada/internal/models"
)

// maxSimilarEvents caps the "you might also like" list on the detail view
const maxSimilarEvents = 5

// EventRepository defines the event storage operations the services need
type EventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]*models.Event, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	ListSimilar(ctx context.Context, category string, excludeID int64, limit int) ([]*models.Event, error)
}

// EventService handles catalog browsing
type EventService struct {
	repo   EventRepository
	logger *slog.Logger
}

// NewEventService creates a new EventService
func NewEventService(repo EventRepository, logger *slog.Logger) *EventService {
	return &EventService{repo: repo, logger: logger}
}

// EventDetail is an event plus up to five other events in its category.
type EventDetail struct {
	Event   *models.Event
	Similar []*models.Event
}

// List returns events matching the filter, soonest first
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
	events, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list events", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return events, nil
}

// Get returns the event and its similar-category suggestions
func (s *EventService) Get(ctx context.Context, id int64) (*EventDetail, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get event", slog.Int64("event_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	similar, err := s.repo.ListSimilar(ctx, event.Category, event.ID, maxSimilarEvents)
	if err != nil {
		// Detail view still works without suggestions
		s.logger.Warn("failed to list similar events", slog.Int64("event_id", id), slog.Any("error", err))
		similar = []*models.Event{}
	}

	return &EventDetail{Event: event, Similar: similar}, nil
}
