package services

import (
	"context"
	"encoding/json"
	"time"

	"happy-tails/internal/booking"
	"happy-tails/internal/models"
)

// ProductRepository is the product storage used by the catalog, cart and admin services
type ProductRepository interface {
	GetByID(ctx context.Context, id int) (*models.Product, error)
	List(ctx context.Context, limit, offset int) ([]models.Product, error)
	Update(ctx context.Context, id int, req *models.ProductUpdateRequest) (*models.Product, error)
	Delete(ctx context.Context, id int) error
}

// EventRepository is the event storage used by the event, booking and admin services
type EventRepository interface {
	GetByID(ctx context.Context, id int) (*models.Event, error)
	ListPublic(ctx context.Context, now time.Time, limit int) ([]models.Event, error)
	List(ctx context.Context, limit, offset int) ([]models.Event, error)
	Update(ctx context.Context, id int, req *models.EventUpdateRequest) (*models.Event, error)
	Delete(ctx context.Context, id int) error
}

// BookingRepository records paid bookings
type BookingRepository interface {
	Create(ctx context.Context, req *models.BookingCreateRequest) (*models.Booking, error)
	ListAttendees(ctx context.Context, eventID int) ([]models.Attendee, error)
}

// OrderRepository records paid orders
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id int) (*models.Order, error)
	List(ctx context.Context, limit, offset int) ([]models.Order, error)
	ListByCustomer(ctx context.Context, customerID, limit int) ([]models.Order, error)
	Update(ctx context.Context, id int, req *models.OrderUpdateRequest) (*models.Order, error)
	Delete(ctx context.Context, id int) error
}

// UserRepository is the customer account storage
type UserRepository interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	ListCustomers(ctx context.Context, limit, offset int) ([]models.User, error)
	Update(ctx context.Context, id int, req *models.UserUpdateRequest) (*models.User, error)
	Delete(ctx context.Context, id int) error
}

// PartnerRepository is the vendor and event manager storage
type PartnerRepository interface {
	CreateVendor(ctx context.Context, user *models.User, vendor *models.Vendor) (*models.Vendor, error)
	CreateEventManager(ctx context.Context, user *models.User, manager *models.EventManager) (*models.EventManager, error)
	GetVendor(ctx context.Context, id int) (*models.Vendor, error)
	GetEventManager(ctx context.Context, id int) (*models.EventManager, error)
	ListVendors(ctx context.Context, limit, offset int) ([]models.Vendor, error)
	ListEventManagers(ctx context.Context, limit, offset int) ([]models.EventManager, error)
	UpdateVendor(ctx context.Context, id int, req *models.PartnerUpdateRequest) (*models.Vendor, error)
	UpdateEventManager(ctx context.Context, id int, req *models.PartnerUpdateRequest) (*models.EventManager, error)
	DeleteVendor(ctx context.Context, id int) error
	DeleteEventManager(ctx context.Context, id int) error
}

// StatsRepository serves the aggregate admin panels
type StatsRepository interface {
	EventStats(ctx context.Context, eventID int) (*models.EventStats, error)
	ProductMetrics(ctx context.Context, productID int) (*models.ProductMetrics, error)
	VendorStats(ctx context.Context, vendorID int) (*models.VendorStats, error)
	TopOrderedProducts(ctx context.Context, vendorID, limit int) ([]models.TopProduct, error)
	VendorRevenue(ctx context.Context, vendorID int, since time.Time) ([]models.RevenuePoint, error)
	CustomerTotals(ctx context.Context, userID int) (*models.CustomerData, error)
	TopEvents(ctx context.Context, managerID, limit int) ([]models.EventSummary, error)
	ManagerEvents(ctx context.Context, managerID int, now time.Time, upcoming bool) ([]models.EventSummary, error)
}

// CatalogServiceInterface is the product page API
type CatalogServiceInterface interface {
	Product(ctx context.Context, id int) (*models.Product, error)
	Options(ctx context.Context, id int, size, color string) (*OptionsView, error)
}

// CartServiceInterface is the cart API
type CartServiceInterface interface {
	Add(ctx context.Context, cartID string, req AddToCartRequest) (*models.CartView, error)
	UpdateQuantity(ctx context.Context, cartID string, key models.CartItemKey, raw string) (*models.CartView, error)
	Remove(ctx context.Context, cartID string, key models.CartItemKey) (*models.CartView, error)
	Clear(ctx context.Context, cartID string) (*models.CartView, error)
	View(ctx context.Context, cartID string) (*models.CartView, error)
}

// CheckoutServiceInterface turns a cart into a paid order
type CheckoutServiceInterface interface {
	Checkout(ctx context.Context, cartID string, req CheckoutRequest) (*models.Order, error)
}

// EventServiceInterface is the public event API
type EventServiceInterface interface {
	PublicEvents(ctx context.Context, limit int) ([]models.Event, error)
	Event(ctx context.Context, id int) (*models.Event, error)
}

// BookingServiceInterface drives booking sessions
type BookingServiceInterface interface {
	Start(ctx context.Context, eventID int) (booking.View, error)
	Get(id string) (booking.View, error)
	IncrementTickets(id string) (booking.View, error)
	DecrementTickets(id string) (booking.View, error)
	Next(id string) (booking.View, error)
	Back(id string) (booking.View, error)
	OpenPayment(id string) (booking.View, error)
	ClosePayment(id string) (booking.View, error)
	SetBilling(id string, details booking.BillingDetails) (booking.View, error)
	Pay(ctx context.Context, id string, req PayRequest) (*PayResult, error)
	Discard(id string) error
	CreateBooking(ctx context.Context, req *models.BookingCreateRequest) (*models.Booking, error)
}

// OnboardingServiceInterface handles partner signups
type OnboardingServiceInterface interface {
	StoreSignup(ctx context.Context, req *models.StoreSignupRequest) (*models.Vendor, error)
	EventManagerSignup(ctx context.Context, req *models.EventManagerSignupRequest) (*models.EventManager, error)
}

// AdminServiceInterface is the admin resource API
type AdminServiceInterface interface {
	List(ctx context.Context, kind string, limit, offset int) (any, error)
	Detail(ctx context.Context, kind string, id int) (any, error)
	Related(ctx context.Context, kind string, id int, name string) (any, error)
	Update(ctx context.Context, kind string, id int, body json.RawMessage) (any, error)
	Delete(ctx context.Context, kind string, id int) error
}

var (
	_ CatalogServiceInterface    = (*CatalogService)(nil)
	_ CartServiceInterface       = (*CartService)(nil)
	_ CheckoutServiceInterface   = (*CheckoutService)(nil)
	_ EventServiceInterface      = (*EventService)(nil)
	_ BookingServiceInterface    = (*BookingService)(nil)
	_ OnboardingServiceInterface = (*OnboardingService)(nil)
	_ AdminServiceInterface      = (*AdminService)(nil)
)
