package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"happy-tails/internal/booking"
	"happy-tails/internal/models"
	"happy-tails/internal/services"

	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) Product(ctx context.Context, id int) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalogService) Options(ctx context.Context, id int, size, color string) (*services.OptionsView, error) {
	args := m.Called(ctx, id, size, color)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.OptionsView), args.Error(1)
}

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) PublicEvents(ctx context.Context, limit int) ([]models.Event, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventService) Event(ctx context.Context, id int) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) cartView(args mock.Arguments) (*models.CartView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartView), args.Error(1)
}

func (m *MockCartService) Add(ctx context.Context, cartID string, req services.AddToCartRequest) (*models.CartView, error) {
	return m.cartView(m.Called(ctx, cartID, req))
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, cartID string, key models.CartItemKey, raw string) (*models.CartView, error) {
	return m.cartView(m.Called(ctx, cartID, key, raw))
}

func (m *MockCartService) Remove(ctx context.Context, cartID string, key models.CartItemKey) (*models.CartView, error) {
	return m.cartView(m.Called(ctx, cartID, key))
}

func (m *MockCartService) Clear(ctx context.Context, cartID string) (*models.CartView, error) {
	return m.cartView(m.Called(ctx, cartID))
}

func (m *MockCartService) View(ctx context.Context, cartID string) (*models.CartView, error) {
	return m.cartView(m.Called(ctx, cartID))
}

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, cartID string, req services.CheckoutRequest) (*models.Order, error) {
	args := m.Called(ctx, cartID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) view(args mock.Arguments) (booking.View, error) {
	v, _ := args.Get(0).(booking.View)
	return v, args.Error(1)
}

func (m *MockBookingService) Start(ctx context.Context, eventID int) (booking.View, error) {
	return m.view(m.Called(ctx, eventID))
}

func (m *MockBookingService) Get(id string) (booking.View, error) {
	return m.view(m.Called(id))
}

func (m *MockBookingService) IncrementTickets(id string) (booking.View, error) {
	return m.view(m.Called(id))
}

func (m *MockBookingService) DecrementTickets(id string) (booking.View, error) {
	return m.view(m.Called(id))
}

func (m *MockBookingService) Next(id string) (booking.View, error) {
	return m.view(m.Called(id))
}

func (m *MockBookingService) Back(id string) (booking.View, error) {
	return m.view(m.Called(id))
}

func (m *MockBookingService) OpenPayment(id string) (booking.View, error) {
	return m.view(m.Called(id))
}

func (m *MockBookingService) ClosePayment(id string) (booking.View, error) {
	return m.view(m.Called(id))
}

func (m *MockBookingService) SetBilling(id string, details booking.BillingDetails) (booking.View, error) {
	return m.view(m.Called(id, details))
}

func (m *MockBookingService) Pay(ctx context.Context, id string, req services.PayRequest) (*services.PayResult, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PayResult), args.Error(1)
}

func (m *MockBookingService) Discard(id string) error {
	return m.Called(id).Error(0)
}

func (m *MockBookingService) CreateBooking(ctx context.Context, req *models.BookingCreateRequest) (*models.Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

type MockOnboardingService struct {
	mock.Mock
}

func (m *MockOnboardingService) StoreSignup(ctx context.Context, req *models.StoreSignupRequest) (*models.Vendor, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vendor), args.Error(1)
}

func (m *MockOnboardingService) EventManagerSignup(ctx context.Context, req *models.EventManagerSignupRequest) (*models.EventManager, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventManager), args.Error(1)
}

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) List(ctx context.Context, kind string, limit, offset int) (any, error) {
	args := m.Called(ctx, kind, limit, offset)
	return args.Get(0), args.Error(1)
}

func (m *MockAdminService) Detail(ctx context.Context, kind string, id int) (any, error) {
	args := m.Called(ctx, kind, id)
	return args.Get(0), args.Error(1)
}

func (m *MockAdminService) Related(ctx context.Context, kind string, id int, name string) (any, error) {
	args := m.Called(ctx, kind, id, name)
	return args.Get(0), args.Error(1)
}

func (m *MockAdminService) Update(ctx context.Context, kind string, id int, body json.RawMessage) (any, error) {
	args := m.Called(ctx, kind, id, body)
	return args.Get(0), args.Error(1)
}

func (m *MockAdminService) Delete(ctx context.Context, kind string, id int) error {
	return m.Called(ctx, kind, id).Error(0)
}

// fakeVisitor is a single visitor with a fixed cart id
type fakeVisitor struct {
	cartID   string
	bookings map[string]bool
	err      error
}

func newFakeVisitor() *fakeVisitor {
	return &fakeVisitor{cartID: "cart-1", bookings: map[string]bool{}}
}

func (v *fakeVisitor) CartID(w http.ResponseWriter, r *http.Request) (string, error) {
	return v.cartID, v.err
}

func (v *fakeVisitor) TrackBooking(w http.ResponseWriter, r *http.Request, bookingID string) error {
	if v.err != nil {
		return v.err
	}
	v.bookings[bookingID] = true
	return nil
}

func (v *fakeVisitor) OwnsBooking(r *http.Request, bookingID string) bool {
	return v.bookings[bookingID]
}

func (v *fakeVisitor) ForgetBooking(w http.ResponseWriter, r *http.Request, bookingID string) error {
	delete(v.bookings, bookingID)
	return nil
}

type fakePinger struct {
	err error
}

func (p fakePinger) HealthCheck(ctx context.Context) error {
	return p.err
}
