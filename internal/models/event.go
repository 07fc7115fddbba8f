package models

import (
	"errors"
	"strings"
	"time"
)

// EventStatus represents the status of an event
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
	EventCancelled EventStatus = "cancelled"
)

// Event is a ticketed pet event hosted by an event manager
type Event struct {
	ID           int         `json:"id" db:"id"`
	ManagerID    int         `json:"manager_id" db:"manager_id"`
	Title        string      `json:"title" db:"title"`
	Description  string      `json:"description" db:"description"`
	Venue        string      `json:"venue" db:"venue"`
	Category     string      `json:"category" db:"category"`
	StartsAt     time.Time   `json:"starts_at" db:"starts_at"`
	TicketPrice  float64     `json:"ticket_price" db:"ticket_price"`
	TotalTickets int         `json:"total_tickets" db:"total_tickets"`
	TicketsSold  int         `json:"tickets_sold" db:"tickets_sold"`
	ImageURL     string      `json:"image_url" db:"image_url"`
	Status       EventStatus `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// EventUpdateRequest is the admin PUT payload for an event.
// Nil fields are left untouched.
type EventUpdateRequest struct {
	Title        *string      `json:"title,omitempty"`
	Description  *string      `json:"description,omitempty"`
	Venue        *string      `json:"venue,omitempty"`
	StartsAt     *time.Time   `json:"starts_at,omitempty"`
	TicketPrice  *float64     `json:"ticket_price,omitempty"`
	TotalTickets *int         `json:"total_tickets,omitempty"`
	Status       *EventStatus `json:"status,omitempty"`
}

// TicketsLeft returns the number of tickets still for sale
func (e *Event) TicketsLeft() int {
	left := e.TotalTickets - e.TicketsSold
	if left < 0 {
		return 0
	}
	return left
}

// IsPublished returns true if the event is published
func (e *Event) IsPublished() bool {
	return e.Status == EventPublished
}

// IsPast returns true if the event has already started
func (e *Event) IsPast(now time.Time) bool {
	return e.StartsAt.Before(now)
}

// Validate validates the event data
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("event title is required")
	}

	if e.TicketPrice < 0 {
		return errors.New("ticket price cannot be negative")
	}

	if e.TotalTickets < 0 {
		return errors.New("total tickets cannot be negative")
	}

	if e.TicketsSold > e.TotalTickets {
		return errors.New("tickets sold cannot exceed total tickets")
	}

	switch e.Status {
	case EventDraft, EventPublished, EventCancelled:
	default:
		return errors.New("invalid event status")
	}

	return nil
}

// Apply copies the non-nil fields of the request onto the event
func (req *EventUpdateRequest) Apply(e *Event) {
	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Venue != nil {
		e.Venue = *req.Venue
	}
	if req.StartsAt != nil {
		e.StartsAt = *req.StartsAt
	}
	if req.TicketPrice != nil {
		e.TicketPrice = *req.TicketPrice
	}
	if req.TotalTickets != nil {
		e.TotalTickets = *req.TotalTickets
	}
	if req.Status != nil {
		e.Status = *req.Status
	}
}
