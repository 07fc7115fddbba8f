package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"happy-tails/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrTooManySessions is returned when the manager is at capacity
var ErrTooManySessions = errors.New("too many active booking sessions")

// ManagerConfig configures a Manager
type ManagerConfig struct {
	Countdown   int           // seconds
	FeeRate     float64       // booking fee rate
	Interval    time.Duration // tick interval, one second in production
	Retention   time.Duration // how long finished sessions stay readable
	MaxSessions int           // 0 means unlimited
}

// DefaultManagerConfig returns production settings
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Countdown:   DefaultCountdown,
		FeeRate:     DefaultFeeRate,
		Interval:    time.Second,
		Retention:   5 * time.Minute,
		MaxSessions: 10000,
	}
}

type entry struct {
	session *Session
	cancel  context.CancelFunc
	evict   *time.Timer
}

// Manager owns live booking sessions and drives their countdowns. Each
// session gets a ticker goroutine bound to a context that is cancelled when
// the session succeeds, aborts, is discarded, or the manager closes.
type Manager struct {
	cfg    ManagerConfig
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*entry
	wg       sync.WaitGroup

	// OnAbort runs once per aborted session, after the countdown goroutine
	// has stopped driving it
	OnAbort func(View)
}

// NewManager creates a session manager
func NewManager(cfg ManagerConfig, logger *zap.Logger) *Manager {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		cfg:      cfg,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*entry),
	}
}

// Start opens a session for the event and starts its countdown
func (m *Manager) Start(event *models.Event) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg.MaxSessions > 0 && len(m.sessions) >= m.cfg.MaxSessions {
		return nil, ErrTooManySessions
	}

	id := uuid.New().String()
	session, err := NewSession(id, event, Options{
		Countdown: m.cfg.Countdown,
		FeeRate:   m.cfg.FeeRate,
		OnAbort:   m.handleAbort,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.sessions[id] = &entry{session: session, cancel: cancel}

	m.wg.Add(1)
	go m.countdown(ctx, session)

	m.logger.Info("booking session started",
		zap.String("session_id", id),
		zap.Int("event_id", event.ID),
		zap.Int("countdown_seconds", m.cfg.Countdown))
	return session, nil
}

func (m *Manager) countdown(ctx context.Context, session *Session) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if session.Tick() || session.Finished() {
				return
			}
		}
	}
}

func (m *Manager) handleAbort(view View) {
	m.logger.Info("booking session expired",
		zap.String("session_id", view.ID),
		zap.Int("event_id", view.EventID),
		zap.Int("step", int(view.Step)))

	m.retire(view.ID)

	if m.OnAbort != nil {
		m.OnAbort(view)
	}
}

// retire stops the countdown and schedules eviction. The session stays
// readable until then so callers see it as aborted or succeeded.
func (m *Manager) retire(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok || e.evict != nil {
		return
	}
	e.cancel()
	e.evict = time.AfterFunc(m.cfg.Retention, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if cur, ok := m.sessions[id]; ok && cur == e {
			delete(m.sessions, id)
		}
	})
}

// Get returns a session by id
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return e.session, nil
}

// Complete marks a session as succeeded and stops its countdown
func (m *Manager) Complete(id, paymentRef string) (View, error) {
	session, err := m.Get(id)
	if err != nil {
		return View{}, err
	}
	view, err := session.Succeed(paymentRef)
	if err != nil {
		return view, err
	}
	m.retire(id)
	return view, nil
}

// Discard drops a session immediately, stopping its countdown
func (m *Manager) Discard(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return models.ErrSessionNotFound
	}
	e.cancel()
	if e.evict != nil {
		e.evict.Stop()
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of tracked sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close stops every countdown and waits for the goroutines to exit
func (m *Manager) Close() {
	m.cancel()

	m.mu.Lock()
	for _, e := range m.sessions {
		if e.evict != nil {
			e.evict.Stop()
		}
	}
	m.mu.Unlock()

	m.wg.Wait()
}
