package services

import (
	"context"
	"sync"
	"time"

	"happy-tails/internal/events"
	"happy-tails/internal/models"
	"happy-tails/internal/payment"

	"github.com/stretchr/testify/mock"
)

// fakeProductRepository is an in-memory ProductRepository
type fakeProductRepository struct {
	products   map[int]*models.Product
	shouldFail map[string]error
}

func newFakeProductRepository(products ...*models.Product) *fakeProductRepository {
	r := &fakeProductRepository{products: map[int]*models.Product{}, shouldFail: map[string]error{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	if err := r.shouldFail["GetByID"]; err != nil {
		return nil, err
	}
	p, ok := r.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	copied := *p
	copied.Variants = append([]models.Variant(nil), p.Variants...)
	return &copied, nil
}

func (r *fakeProductRepository) List(ctx context.Context, limit, offset int) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepository) Update(ctx context.Context, id int, req *models.ProductUpdateRequest) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	return r.GetByID(ctx, id)
}

func (r *fakeProductRepository) Delete(ctx context.Context, id int) error {
	if _, ok := r.products[id]; !ok {
		return models.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// fakeEventRepository is an in-memory EventRepository
type fakeEventRepository struct {
	events map[int]*models.Event
}

func newFakeEventRepository(events ...*models.Event) *fakeEventRepository {
	r := &fakeEventRepository{events: map[int]*models.Event{}}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

func (r *fakeEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEventRepository) ListPublic(ctx context.Context, now time.Time, limit int) ([]models.Event, error) {
	out := []models.Event{}
	for _, e := range r.events {
		if e.IsPublished() && !e.IsPast(now) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEventRepository) List(ctx context.Context, limit, offset int) ([]models.Event, error) {
	return r.ListPublic(ctx, time.Time{}, limit)
}

func (r *fakeEventRepository) Update(ctx context.Context, id int, req *models.EventUpdateRequest) (*models.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	req.Apply(e)
	return r.GetByID(ctx, id)
}

func (r *fakeEventRepository) Delete(ctx context.Context, id int) error {
	if _, ok := r.events[id]; !ok {
		return models.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

// fakeBookingRepository records created bookings
type fakeBookingRepository struct {
	mu       sync.Mutex
	created  []*models.BookingCreateRequest
	failWith error
}

func (r *fakeBookingRepository) Create(ctx context.Context, req *models.BookingCreateRequest) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	r.created = append(r.created, req)
	return &models.Booking{
		ID:              len(r.created),
		EventID:         req.EventID,
		NumberOfTickets: req.NumberOfTickets,
		BillingName:     req.BillingName,
		BillingEmail:    req.BillingEmail,
		PaymentRef:      req.PaymentRef,
		Status:          models.BookingConfirmed,
	}, nil
}

func (r *fakeBookingRepository) ListAttendees(ctx context.Context, eventID int) ([]models.Attendee, error) {
	return []models.Attendee{}, nil
}

// fakeOrderRepository records created orders
type fakeOrderRepository struct {
	created  []*models.Order
	failWith error
}

func (r *fakeOrderRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	copied := *order
	copied.ID = len(r.created) + 1
	r.created = append(r.created, &copied)
	return &copied, nil
}

func (r *fakeOrderRepository) GetByID(ctx context.Context, id int) (*models.Order, error) {
	for _, o := range r.created {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, models.ErrOrderNotFound
}

func (r *fakeOrderRepository) List(ctx context.Context, limit, offset int) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range r.created {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOrderRepository) ListByCustomer(ctx context.Context, customerID, limit int) ([]models.Order, error) {
	return []models.Order{}, nil
}

func (r *fakeOrderRepository) Update(ctx context.Context, id int, req *models.OrderUpdateRequest) (*models.Order, error) {
	o, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != nil {
		o.Status = *req.Status
	}
	return o, nil
}

func (r *fakeOrderRepository) Delete(ctx context.Context, id int) error {
	return nil
}

// MockGateway is a mock implementation of payment.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Charge(ctx context.Context, req payment.ChargeRequest) (*payment.Receipt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Receipt), args.Error(1)
}

func (m *MockGateway) Name() string {
	return "mock"
}

// MockPublisher is a mock implementation of events.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() {}

func eventOfType(eventType string) any {
	return mock.MatchedBy(func(e events.Event) bool { return e.Type == eventType })
}

func validCard() payment.Card {
	return payment.Card{Name: "Asha Rao", Number: "4242 4242 4242 4242", Expiry: "12/99", CVV: "123"}
}

func collar() *models.Product {
	return &models.Product{
		ID:       1,
		Name:     "Reflective Collar",
		ImageURL: "/img/collar.jpg",
		Variants: []models.Variant{
			{VariantID: "m-red", Size: models.StringPtr("M"), Color: models.StringPtr("Red"), RegularPrice: 499, StockQuantity: 5},
			{VariantID: "m-blue", Size: models.StringPtr("M"), Color: models.StringPtr("Blue"), RegularPrice: 499, SalePrice: models.FloatPtr(449), StockQuantity: 2},
			{VariantID: "l-red", Size: models.StringPtr("L"), Color: models.StringPtr("Red"), RegularPrice: 599, StockQuantity: 0},
		},
	}
}
