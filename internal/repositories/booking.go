package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"happy-tails/internal/models"
	"happy-tails/internal/pricing"
)

// BookingRepository handles ticket booking data operations
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create records a paid booking and reserves its tickets in one transaction
func (r *BookingRepository) Create(ctx context.Context, req *models.BookingCreateRequest) (*models.Booking, error) {
	if req.NumberOfTickets < 1 {
		return nil, models.NewValidationError("numberOfTickets", "at least one ticket is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var price float64
	err = tx.QueryRowContext(ctx, "SELECT ticket_price FROM events WHERE id = $1 FOR UPDATE", req.EventID).Scan(&price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to lock event: %w", err)
	}

	if err := ReserveTickets(ctx, tx, req.EventID, req.NumberOfTickets); err != nil {
		return nil, err
	}

	base := price * float64(req.NumberOfTickets)
	fee := pricing.Surcharge(base, req.BookingFeeRate)

	booking := &models.Booking{
		EventID:         req.EventID,
		UserID:          req.UserID,
		NumberOfTickets: req.NumberOfTickets,
		BaseAmount:      base,
		BookingFee:      fee,
		GrandTotal:      base + fee,
		BillingName:     req.BillingName,
		BillingPhone:    req.BillingPhone,
		BillingEmail:    req.BillingEmail,
		PaymentRef:      req.PaymentRef,
		Status:          models.BookingConfirmed,
	}

	query := `
		INSERT INTO bookings (event_id, user_id, number_of_tickets, base_amount, booking_fee, grand_total,
			billing_name, billing_phone, billing_email, payment_ref, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, query,
		booking.EventID,
		booking.UserID,
		booking.NumberOfTickets,
		booking.BaseAmount,
		booking.BookingFee,
		booking.GrandTotal,
		booking.BillingName,
		booking.BillingPhone,
		booking.BillingEmail,
		booking.PaymentRef,
		booking.Status,
		time.Now(),
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}

	return booking, nil
}

// ListAttendees returns the confirmed bookings of an event, newest first
func (r *BookingRepository) ListAttendees(ctx context.Context, eventID int) ([]models.Attendee, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, billing_name, billing_email, billing_phone, number_of_tickets, created_at
		FROM bookings
		WHERE event_id = $1 AND status = $2
		ORDER BY created_at DESC`, eventID, models.BookingConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees: %w", err)
	}
	defer rows.Close()

	attendees := []models.Attendee{}
	for rows.Next() {
		var a models.Attendee
		if err := rows.Scan(&a.BookingID, &a.Name, &a.Email, &a.Phone, &a.NumberOfTickets, &a.BookedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendee: %w", err)
		}
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}
