package middleware

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// SessionName is the visitor cookie name
const SessionName = "happy_tails"

const (
	cartIDValue   = "cart_id"
	bookingsValue = "booking_ids"
)

// maxTrackedBookings bounds the booking ids kept in the cookie
const maxTrackedBookings = 8

// SessionMiddleware provides the anonymous visitor session. It holds the
// visitor's cart id and the booking sessions they started.
type SessionMiddleware struct {
	store sessions.Store
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(store sessions.Store) *SessionMiddleware {
	return &SessionMiddleware{store: store}
}

// NewCookieStore builds the signed cookie store for visitor sessions
func NewCookieStore(secret string, maxAge int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func (m *SessionMiddleware) session(r *http.Request) *sessions.Session {
	// A tampered or stale cookie yields a fresh session rather than an error
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		session, _ = m.store.New(r, SessionName)
	}
	return session
}

// CartID returns the visitor's cart id, creating and persisting one on first
// use
func (m *SessionMiddleware) CartID(w http.ResponseWriter, r *http.Request) (string, error) {
	session := m.session(r)
	if id, ok := session.Values[cartIDValue].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	session.Values[cartIDValue] = id
	if err := session.Save(r, w); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return id, nil
}

// TrackBooking records a booking session id as belonging to this visitor
func (m *SessionMiddleware) TrackBooking(w http.ResponseWriter, r *http.Request, bookingID string) error {
	session := m.session(r)
	ids := bookingIDs(session)
	for _, id := range ids {
		if id == bookingID {
			return nil
		}
	}

	ids = append(ids, bookingID)
	if len(ids) > maxTrackedBookings {
		ids = ids[len(ids)-maxTrackedBookings:]
	}
	session.Values[bookingsValue] = ids
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// OwnsBooking reports whether the visitor started the booking session
func (m *SessionMiddleware) OwnsBooking(r *http.Request, bookingID string) bool {
	for _, id := range bookingIDs(m.session(r)) {
		if id == bookingID {
			return true
		}
	}
	return false
}

// ForgetBooking drops a booking session id from the visitor session
func (m *SessionMiddleware) ForgetBooking(w http.ResponseWriter, r *http.Request, bookingID string) error {
	session := m.session(r)
	ids := bookingIDs(session)
	kept := ids[:0]
	for _, id := range ids {
		if id != bookingID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(ids) {
		return nil
	}
	session.Values[bookingsValue] = kept
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func bookingIDs(session *sessions.Session) []string {
	ids, _ := session.Values[bookingsValue].([]string)
	return append([]string(nil), ids...)
}
