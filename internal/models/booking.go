package models

import "time"

// BookingStatus represents the status of a ticket booking
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is a confirmed purchase of tickets for an event
type Booking struct {
	ID              int           `json:"id" db:"id"`
	EventID         int           `json:"event_id" db:"event_id"`
	UserID          *int          `json:"user_id,omitempty" db:"user_id"`
	NumberOfTickets int           `json:"number_of_tickets" db:"number_of_tickets"`
	BaseAmount      float64       `json:"base_amount" db:"base_amount"`
	BookingFee      float64       `json:"booking_fee" db:"booking_fee"`
	GrandTotal      float64       `json:"grand_total" db:"grand_total"`
	BillingName     string        `json:"billing_name" db:"billing_name"`
	BillingPhone    string        `json:"billing_phone" db:"billing_phone"`
	BillingEmail    string        `json:"billing_email" db:"billing_email"`
	PaymentRef      string        `json:"payment_ref" db:"payment_ref"`
	Status          BookingStatus `json:"status" db:"status"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
}

// BookingCreateRequest is the body of POST /tickets/{eventId}
type BookingCreateRequest struct {
	EventID         int     `json:"-"`
	UserID          *int    `json:"user_id,omitempty"`
	NumberOfTickets int     `json:"numberOfTickets"`
	BillingName     string  `json:"billing_name"`
	BillingPhone    string  `json:"billing_phone"`
	BillingEmail    string  `json:"billing_email"`
	PaymentRef      string  `json:"-"`
	BookingFeeRate  float64 `json:"-"`
}

// Attendee is a booking as shown in an event's attendee list
type Attendee struct {
	BookingID       int       `json:"booking_id" db:"booking_id"`
	Name            string    `json:"name" db:"billing_name"`
	Email           string    `json:"email" db:"billing_email"`
	Phone           string    `json:"phone" db:"billing_phone"`
	NumberOfTickets int       `json:"number_of_tickets" db:"number_of_tickets"`
	BookedAt        time.Time `json:"booked_at" db:"created_at"`
}
