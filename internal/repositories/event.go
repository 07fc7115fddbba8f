package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"happy-tails/internal/models"
)

// EventRepository handles event data operations
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, COALESCE(manager_id, 0), title, description, venue, category, starts_at,
	ticket_price, total_tickets, tickets_sold, image_url, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	e := &models.Event{}
	err := row.Scan(
		&e.ID,
		&e.ManagerID,
		&e.Title,
		&e.Description,
		&e.Venue,
		&e.Category,
		&e.StartsAt,
		&e.TicketPrice,
		&e.TotalTickets,
		&e.TicketsSold,
		&e.ImageURL,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

// Create inserts a new event
func (r *EventRepository) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO events (manager_id, title, description, venue, category, starts_at, ticket_price,
			total_tickets, tickets_sold, image_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + eventColumns

	now := time.Now()
	created, err := scanEvent(r.db.QueryRowContext(ctx, query,
		nullableID(event.ManagerID),
		event.Title,
		event.Description,
		event.Venue,
		event.Category,
		event.StartsAt,
		event.TicketPrice,
		event.TotalTickets,
		event.TicketsSold,
		event.ImageURL,
		event.Status,
		now,
		now,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return created, nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// ListPublic returns published events that have not started yet, soonest first
func (r *EventRepository) ListPublic(ctx context.Context, now time.Time, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE status = $1 AND starts_at >= $2
		ORDER BY starts_at ASC
		LIMIT $3`
	return r.list(ctx, query, models.EventPublished, now, limit)
}

// List returns every event for the admin listing
func (r *EventRepository) List(ctx context.Context, limit, offset int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY starts_at DESC LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]models.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

// Update applies the non-nil fields of the request
func (r *EventRepository) Update(ctx context.Context, id int, req *models.EventUpdateRequest) (*models.Event, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(current)
	if err := current.Validate(); err != nil {
		return nil, models.NewValidationError("event", err.Error())
	}

	set := newSetBuilder()
	setField(set, "title", req.Title)
	setField(set, "description", req.Description)
	setField(set, "venue", req.Venue)
	setField(set, "starts_at", req.StartsAt)
	setField(set, "ticket_price", req.TicketPrice)
	setField(set, "total_tickets", req.TotalTickets)
	setField(set, "status", req.Status)
	if set.empty() {
		return current, nil
	}
	set.addValue("updated_at", time.Now())

	query := fmt.Sprintf("UPDATE events SET %s WHERE id = $%d RETURNING %s", set.clause(), set.next(), eventColumns)
	updated, err := scanEvent(r.db.QueryRowContext(ctx, query, append(set.args, id)...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return updated, nil
}

// Delete removes an event and its bookings
func (r *EventRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return expectRow(result, models.ErrEventNotFound)
}

// ReserveTickets adds count to tickets_sold inside tx unless that would
// exceed total_tickets, in which case it returns ErrSoldOut
func ReserveTickets(ctx context.Context, tx *sql.Tx, eventID, count int) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE events
		SET tickets_sold = tickets_sold + $2, updated_at = $3
		WHERE id = $1 AND status = $4 AND tickets_sold + $2 <= total_tickets`,
		eventID, count, time.Now(), models.EventPublished)
	if err != nil {
		return fmt.Errorf("failed to reserve tickets: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)", eventID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check event: %w", err)
		}
		if !exists {
			return models.ErrEventNotFound
		}
		return models.ErrSoldOut
	}
	return nil
}
