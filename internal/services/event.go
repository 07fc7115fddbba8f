package services

import (
	"context"
	"time"

	"happy-tails/internal/models"
)

// EventService serves the public event pages
type EventService struct {
	events EventRepository
	now    func() time.Time
}

// NewEventService creates a new event service
func NewEventService(events EventRepository) *EventService {
	return &EventService{events: events, now: time.Now}
}

// PublicEvents returns published upcoming events
func (s *EventService) PublicEvents(ctx context.Context, limit int) ([]models.Event, error) {
	return s.events.ListPublic(ctx, s.now(), limit)
}

// Event returns a published event. Drafts are reported as not found.
func (s *EventService) Event(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status == models.EventDraft {
		return nil, models.ErrEventNotFound
	}
	return event, nil
}
