package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"happy-tails/internal/auth"
	"happy-tails/internal/booking"
	"happy-tails/internal/middleware"
	"happy-tails/internal/models"
	"happy-tails/internal/payment"
	"happy-tails/internal/pricing"
	"happy-tails/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	handler    http.Handler
	catalog    *MockCatalogService
	events     *MockEventService
	cart       *MockCartService
	checkout   *MockCheckoutService
	bookings   *MockBookingService
	onboarding *MockOnboardingService
	admin      *MockAdminService
	visitor    *fakeVisitor
	tokens     *auth.TokenManager
	db         *fakePinger
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	s := &testServer{
		catalog:    &MockCatalogService{},
		events:     &MockEventService{},
		cart:       &MockCartService{},
		checkout:   &MockCheckoutService{},
		bookings:   &MockBookingService{},
		onboarding: &MockOnboardingService{},
		admin:      &MockAdminService{},
		visitor:    newFakeVisitor(),
		tokens:     auth.NewTokenManager("handler-test-secret", "happy-tails"),
		db:         &fakePinger{},
	}

	s.handler = Router{
		Catalog:       NewCatalogHandler(s.catalog, s.events, logger),
		Cart:          NewCartHandler(s.cart, s.checkout, s.visitor, logger),
		Booking:       NewBookingHandler(s.bookings, s.visitor, logger),
		Onboarding:    NewOnboardingHandler(s.onboarding, logger),
		Admin:         NewAdminHandler(s.admin, logger),
		Health:        NewHealthHandler(map[string]Pinger{"database": s.db}, logger),
		Auth:          middleware.NewAuthMiddleware(s.tokens, logger),
		CORS:          middleware.DefaultCORSConfig(nil),
		SignupLimiter: middleware.NewRateLimiter(100, time.Minute),
		Logger:        logger,
	}.Handler()
	return s
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "body: %s", rr.Body.String())
	return rr, env
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	token, err := s.tokens.Issue(1, "admin@happytails.in", "admin", time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: models.NewValidationError("size", "select size"), want: http.StatusBadRequest},
		{name: "card field", err: models.NewValidationError("cvv", "CVV must be 3 or 4 digits"), want: http.StatusUnprocessableEntity},
		{name: "wrapped validation", err: fmt.Errorf("add: %w", models.NewValidationError("quantity", "insufficient stock")), want: http.StatusBadRequest},
		{name: "sentinel not found", err: models.ErrProductNotFound, want: http.StatusNotFound},
		{name: "typed not found", err: &models.NotFoundError{Resource: "admin resource", ID: "pets"}, want: http.StatusNotFound},
		{name: "timeout", err: &models.TimeoutError{SessionID: "s"}, want: http.StatusGone},
		{name: "payment", err: &payment.PaymentError{Code: "declined"}, want: http.StatusPaymentRequired},
		{name: "stock conflict", err: models.ErrInsufficientStock, want: http.StatusConflict},
		{name: "sold out", err: models.ErrSoldOut, want: http.StatusConflict},
		{name: "duplicate", err: models.ErrDuplicateEntry, want: http.StatusConflict},
		{name: "anything else", err: errors.New("connection refused"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestCatalogHandler_Product(t *testing.T) {
	s := newTestServer(t)
	product := &models.Product{ID: 7, Name: "Reflective Collar"}
	s.catalog.On("Product", mock.Anything, 7).Return(product, nil)
	s.catalog.On("Product", mock.Anything, 8).Return(nil, models.ErrProductNotFound)

	rr, env := s.do(t, "GET", "/api/products/product/7", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, env.Success)
	var got models.Product
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Reflective Collar", got.Name)

	rr, env = s.do(t, "GET", "/api/products/product/8", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "product not found", env.Message)

	rr, _ = s.do(t, "GET", "/api/products/product/abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCatalogHandler_OptionsDefaultsToUnselected(t *testing.T) {
	s := newTestServer(t)
	s.catalog.On("Options", mock.Anything, 7, pricing.Unselected, pricing.Unselected).
		Return(&services.OptionsView{ProductID: 7, Sizes: []string{"M"}}, nil).Once()
	s.catalog.On("Options", mock.Anything, 7, "M", "Red").
		Return(&services.OptionsView{ProductID: 7, Confirmed: true}, nil).Once()

	rr, _ := s.do(t, "GET", "/api/products/product/7/options", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, env := s.do(t, "GET", "/api/products/product/7/options?size=M&color=Red", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, string(env.Data), `"confirmed":true`)
	s.catalog.AssertExpectations(t)
}

func TestCatalogHandler_Events(t *testing.T) {
	s := newTestServer(t)
	s.events.On("PublicEvents", mock.Anything, defaultEventLimit).Return(nil, nil)
	s.events.On("Event", mock.Anything, 3).Return(nil, models.ErrEventNotFound)

	rr, env := s.do(t, "GET", "/api/getPublicEvents?limit=500", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	rr, _ = s.do(t, "GET", "/events/3", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCartHandler_Add(t *testing.T) {
	s := newTestServer(t)
	req := services.AddToCartRequest{ProductID: 7, Size: "M", Color: "Red", Quantity: 2}
	view := &models.CartView{Items: []models.CartItem{{ProductID: 7, VariantID: "m-red", Price: 499, Quantity: 2}}, Totals: models.CartTotals{Subtotal: 998, Charge: 40, Total: 1038, ItemCount: 2}}
	s.cart.On("Add", mock.Anything, "cart-1", req).Return(view, nil).Once()
	s.cart.On("Add", mock.Anything, "cart-1", mock.Anything).Return(nil, models.NewValidationError("size", "select size")).Once()

	rr, env := s.do(t, "POST", "/api/cart/items", `{"product_id":7,"size":"M","color":"Red","quantity":2}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "added to cart", env.Message)
	var got models.CartView
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 1038.0, got.Totals.Total)

	rr, env = s.do(t, "POST", "/api/cart/items", `{"product_id":7,"quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "select size", env.Message)

	rr, env = s.do(t, "POST", "/api/cart/items", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid request body", env.Message)
	s.cart.AssertExpectations(t)
}

func TestCartHandler_UpdateQuantityKeepsRawInput(t *testing.T) {
	s := newTestServer(t)
	key := models.CartItemKey{ProductID: 7, VariantID: "m-red"}
	for _, raw := range []string{"abc", "-3", "4"} {
		s.cart.On("UpdateQuantity", mock.Anything, "cart-1", key, raw).Return(&models.CartView{}, nil).Once()
	}

	for _, body := range []string{`{"quantity":"abc"}`, `{"quantity":-3}`, `{"quantity":4}`} {
		rr, _ := s.do(t, "PATCH", "/api/cart/items/7/m-red", body)
		assert.Equal(t, http.StatusOK, rr.Code, body)
	}
	s.cart.AssertExpectations(t)
}

func TestCartHandler_RemoveAndClear(t *testing.T) {
	s := newTestServer(t)
	key := models.CartItemKey{ProductID: 7, VariantID: "l-red"}
	s.cart.On("Remove", mock.Anything, "cart-1", key).Return(&models.CartView{}, nil)
	s.cart.On("Clear", mock.Anything, "cart-1").Return(&models.CartView{Items: []models.CartItem{}}, nil)

	rr, _ := s.do(t, "DELETE", "/api/cart/items/7/l-red", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	rr, _ = s.do(t, "DELETE", "/api/cart", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	s.cart.AssertExpectations(t)
}

func TestCartHandler_SessionFailure(t *testing.T) {
	s := newTestServer(t)
	s.visitor.err = errors.New("securecookie: hash key is not set")

	rr, env := s.do(t, "GET", "/api/cart", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, env.Message, "securecookie")
}

func TestCartHandler_Checkout(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "order placed", wantStatus: http.StatusCreated},
		{name: "card error", err: models.NewValidationError("number", "card number must be 16 digits"), wantStatus: http.StatusUnprocessableEntity},
		{name: "declined", err: &payment.PaymentError{Code: "declined", Message: "payment failed, please try again"}, wantStatus: http.StatusPaymentRequired},
		{name: "stock gone", err: models.ErrInsufficientStock, wantStatus: http.StatusConflict},
		{name: "empty cart", err: models.NewValidationError("cart", "cart is empty"), wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			if tt.err != nil {
				s.checkout.On("Checkout", mock.Anything, "cart-1", mock.Anything).Return(nil, tt.err)
			} else {
				s.checkout.On("Checkout", mock.Anything, "cart-1", mock.MatchedBy(func(req services.CheckoutRequest) bool {
					return req.Email == "asha@example.com" && req.Card.Number == "4242 4242 4242 4242"
				})).Return(&models.Order{ID: 1, OrderNumber: "HT-20260301-000001", Total: 1040}, nil)
			}

			rr, env := s.do(t, "POST", "/api/cart/checkout",
				`{"name":"Asha","email":"asha@example.com","card":{"name":"Asha","number":"4242 4242 4242 4242","expiry":"12/99","cvv":"123"}}`)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.err == nil, env.Success)
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), env.Message)
			}
		})
	}
}

func TestBookingHandler_StartTracksSession(t *testing.T) {
	s := newTestServer(t)
	s.bookings.On("Start", mock.Anything, 10).Return(booking.View{ID: "bk-1", EventID: 10, Step: booking.StepOrderSummary, TicketCount: 1}, nil)
	s.bookings.On("Start", mock.Anything, 11).Return(nil, models.NewValidationError("event", "event is not open for booking"))

	rr, env := s.do(t, "POST", "/api/bookings", `{"event_id":10}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, string(env.Data), `"id":"bk-1"`)
	assert.True(t, s.visitor.bookings["bk-1"])

	rr, _ = s.do(t, "POST", "/api/bookings", `{"event_id":11}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = s.do(t, "POST", "/api/bookings", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBookingHandler_RequiresOwnership(t *testing.T) {
	s := newTestServer(t)

	rr, env := s.do(t, "GET", "/api/bookings/someone-else", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "booking session not found", env.Message)
	s.bookings.AssertNotCalled(t, "Get", mock.Anything)
}

func TestBookingHandler_Steps(t *testing.T) {
	s := newTestServer(t)
	s.visitor.bookings["bk-1"] = true

	routes := []struct {
		method string
		path   string
		call   string
	}{
		{"GET", "/api/bookings/bk-1", "Get"},
		{"POST", "/api/bookings/bk-1/tickets/increment", "IncrementTickets"},
		{"POST", "/api/bookings/bk-1/tickets/decrement", "DecrementTickets"},
		{"POST", "/api/bookings/bk-1/next", "Next"},
		{"POST", "/api/bookings/bk-1/back", "Back"},
		{"POST", "/api/bookings/bk-1/payment/open", "OpenPayment"},
		{"POST", "/api/bookings/bk-1/payment/close", "ClosePayment"},
	}
	for _, rt := range routes {
		s.bookings.On(rt.call, "bk-1").Return(booking.View{ID: "bk-1"}, nil).Once()
		rr, _ := s.do(t, rt.method, rt.path, "")
		assert.Equal(t, http.StatusOK, rr.Code, rt.path)
	}
	s.bookings.AssertExpectations(t)
}

func TestBookingHandler_ErrorsMapToStatus(t *testing.T) {
	s := newTestServer(t)
	s.visitor.bookings["bk-1"] = true
	s.bookings.On("Next", "bk-1").Return(nil, &models.TimeoutError{SessionID: "bk-1"})
	s.bookings.On("OpenPayment", "bk-1").Return(nil, models.NewValidationError("accept_terms", "please accept the terms and conditions"))

	rr, env := s.do(t, "POST", "/api/bookings/bk-1/next", "")
	assert.Equal(t, http.StatusGone, rr.Code)
	assert.Equal(t, "booking session expired", env.Message)

	rr, env = s.do(t, "POST", "/api/bookings/bk-1/payment/open", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "please accept the terms and conditions", env.Message)
}

func TestBookingHandler_SetBilling(t *testing.T) {
	s := newTestServer(t)
	s.visitor.bookings["bk-1"] = true
	details := booking.BillingDetails{Name: "Asha", Phone: "9876543210", Email: "asha@example.com", AcceptTerms: true}
	s.bookings.On("SetBilling", "bk-1", details).Return(booking.View{ID: "bk-1", Billing: details}, nil)

	rr, _ := s.do(t, "PUT", "/api/bookings/bk-1/billing",
		`{"name":"Asha","phone":"9876543210","email":"asha@example.com","accept_terms":true}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	s.bookings.AssertExpectations(t)
}

func TestBookingHandler_Pay(t *testing.T) {
	s := newTestServer(t)
	s.visitor.bookings["bk-1"] = true
	s.visitor.bookings["bk-2"] = true

	s.bookings.On("Pay", mock.Anything, "bk-1", mock.Anything).Return(&services.PayResult{
		Session:       booking.View{ID: "bk-1", State: booking.StateSucceeded},
		Receipt:       &payment.Receipt{TransactionID: "sim_txn_1"},
		RedirectURL:   "/",
		RedirectAfter: 3000,
	}, nil)
	s.visitor.bookings["bk-3"] = true
	s.bookings.On("Pay", mock.Anything, "bk-3", mock.Anything).Return(&services.PayResult{
		Session: booking.View{ID: "bk-3", State: booking.StateSucceeded},
		Booking: &models.Booking{ID: 7},
	}, nil)
	s.bookings.On("Pay", mock.Anything, "bk-2", mock.Anything).Return(&services.PayResult{
		BookingError: "booking api unavailable",
		RedirectURL:  "/",
	}, nil)

	rr, env := s.do(t, "POST", "/api/bookings/bk-1/pay", `{"card":{"name":"Asha","number":"4242424242424242","expiry":"12/99","cvv":"123"}}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Payment successful", env.Message)
	var result services.PayResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, int64(3000), result.RedirectAfter)

	rr, env = s.do(t, "POST", "/api/bookings/bk-2/pay", `{"card":{}}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, env.Message, "could not be recorded")
	assert.Contains(t, string(env.Data), `"booking_error":"booking api unavailable"`)
	assert.True(t, s.visitor.bookings["bk-2"], "an unrecorded booking stays claimable")

	rr, _ = s.do(t, "POST", "/api/bookings/bk-3/pay", `{"card":{}}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, s.visitor.bookings["bk-3"])
}

func TestBookingHandler_Discard(t *testing.T) {
	s := newTestServer(t)
	s.visitor.bookings["bk-1"] = true
	s.bookings.On("Discard", "bk-1").Return(nil)

	rr, _ := s.do(t, "DELETE", "/api/bookings/bk-1", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, s.visitor.bookings["bk-1"])
}

func TestBookingHandler_CreateTickets(t *testing.T) {
	s := newTestServer(t)
	s.visitor.bookings["bk-paid"] = true
	s.visitor.bookings["bk-sold"] = true

	billing := booking.BillingDetails{Name: "Asha", Phone: "9876543210", Email: "asha@example.com", AcceptTerms: true}
	s.bookings.On("Get", "bk-paid").Return(booking.View{
		ID: "bk-paid", EventID: 10, State: booking.StateSucceeded, TicketCount: 3, Billing: billing, PaymentRef: "sim_txn_1",
	}, nil)
	s.bookings.On("Get", "bk-sold").Return(booking.View{
		ID: "bk-sold", EventID: 10, State: booking.StateSucceeded, TicketCount: 30, PaymentRef: "sim_txn_2",
	}, nil)
	s.bookings.On("CreateBooking", mock.Anything, mock.MatchedBy(func(req *models.BookingCreateRequest) bool {
		return req.EventID == 10 && req.NumberOfTickets == 3 && req.PaymentRef == "sim_txn_1" && req.BillingEmail == "asha@example.com"
	})).Return(&models.Booking{ID: 1, EventID: 10, NumberOfTickets: 3, GrandTotal: 8250}, nil).Once()
	s.bookings.On("CreateBooking", mock.Anything, mock.MatchedBy(func(req *models.BookingCreateRequest) bool {
		return req.PaymentRef == "sim_txn_2"
	})).Return(nil, models.ErrSoldOut).Once()

	rr, env := s.do(t, "POST", "/tickets/10", `{"session_id":"bk-paid","numberOfTickets":1,"payment_ref":"forged"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, string(env.Data), `"grand_total":8250`)
	assert.False(t, s.visitor.bookings["bk-paid"], "a recorded session cannot be replayed")

	rr, env = s.do(t, "POST", "/tickets/10", `{"session_id":"bk-sold"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "not enough tickets left", env.Message)
	s.bookings.AssertExpectations(t)
}

func TestBookingHandler_CreateTicketsRequiresPaidSession(t *testing.T) {
	s := newTestServer(t)
	s.visitor.bookings["bk-open"] = true
	s.visitor.bookings["bk-other"] = true
	s.bookings.On("Get", "bk-open").Return(booking.View{ID: "bk-open", EventID: 10, State: booking.StateActive, TicketCount: 2}, nil)
	s.bookings.On("Get", "bk-other").Return(booking.View{ID: "bk-other", EventID: 11, State: booking.StateSucceeded, TicketCount: 2, PaymentRef: "sim_txn_9"}, nil)

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"anonymous request", `{"numberOfTickets":3,"billing_name":"Asha","payment_ref":"anything"}`, http.StatusNotFound},
		{"session owned by someone else", `{"session_id":"bk-stranger"}`, http.StatusNotFound},
		{"session not yet paid", `{"session_id":"bk-open"}`, http.StatusPaymentRequired},
		{"session for another event", `{"session_id":"bk-other"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr, _ := s.do(t, "POST", "/tickets/10", tc.body)
			assert.Equal(t, tc.status, rr.Code)
		})
	}
	s.bookings.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	s.bookings.AssertNotCalled(t, "Get", "bk-stranger")
}

func TestOnboardingHandler(t *testing.T) {
	s := newTestServer(t)
	s.onboarding.On("StoreSignup", mock.Anything, mock.MatchedBy(func(req *models.StoreSignupRequest) bool {
		return req.StoreName == "Paws & Co"
	})).Return(&models.Vendor{ID: 4, StoreName: "Paws & Co", Status: models.PartnerPending}, nil).Once()
	s.onboarding.On("StoreSignup", mock.Anything, mock.Anything).Return(nil, models.ErrDuplicateEntry).Once()
	s.onboarding.On("EventManagerSignup", mock.Anything, mock.Anything).
		Return(nil, models.NewValidationError("password", "password must be at least 8 characters long")).Once()

	rr, env := s.do(t, "POST", "/auth/storeSignup", `{"storeName":"Paws & Co","ownerName":"Ravi","email":"ravi@paws.in","phone":"9876543210","password":"s3cretpass"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, env.Message, "pending approval")

	rr, _ = s.do(t, "POST", "/auth/storeSignup", `{"storeName":"Again"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr, env = s.do(t, "POST", "/auth/eventManagerSignup", `{"name":"Meera","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "password must be at least 8 characters long", env.Message)
}

func TestAdminHandler_RequiresAdminToken(t *testing.T) {
	s := newTestServer(t)

	rr, _ := s.do(t, "GET", "/admin/vendors/1", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	vendor, err := s.tokens.Issue(2, "shop@paws.in", "vendor", time.Hour)
	require.NoError(t, err)
	rr, _ = s.do(t, "GET", "/admin/vendors/1", "", "Authorization", "Bearer "+vendor)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	s.admin.AssertNotCalled(t, "Detail", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminHandler_Routes(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)

	s.admin.On("List", mock.Anything, "vendors", defaultAdminPageSize, 40).Return([]models.Vendor{{ID: 1}}, nil)
	s.admin.On("Detail", mock.Anything, "vendors", 1).Return(&models.Vendor{ID: 1, StoreName: "Paws & Co"}, nil)
	s.admin.On("Related", mock.Anything, "vendors", 1, "top-ordered").Return([]models.TopProduct{{ProductID: 7, UnitsSold: 12}}, nil)
	s.admin.On("Update", mock.Anything, "vendors", 1, json.RawMessage(`{"status":"approved"}`)).
		Return(&models.Vendor{ID: 1, Status: models.PartnerApproved}, nil)
	s.admin.On("Delete", mock.Anything, "vendors", 1).Return(nil)

	rr, _ := s.do(t, "GET", "/admin/vendors?offset=40&limit=1000", "", "Authorization", token)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, env := s.do(t, "GET", "/admin/vendors/1", "", "Authorization", token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, string(env.Data), `"store_name":"Paws & Co"`)

	rr, env = s.do(t, "GET", "/admin/vendors/1/top-ordered", "", "Authorization", token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, string(env.Data), `"units_sold":12`)

	rr, env = s.do(t, "PUT", "/admin/vendors/1", `{"status":"approved"}`, "Authorization", token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, string(env.Data), `"status":"approved"`)

	rr, env = s.do(t, "DELETE", "/admin/vendors/1", "", "Authorization", token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "deleted", env.Message)

	s.admin.AssertExpectations(t)
}

func TestAdminHandler_Errors(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)

	s.admin.On("Detail", mock.Anything, "pets", 1).Return(nil, &models.NotFoundError{Resource: "admin resource", ID: "pets"})
	s.admin.On("Detail", mock.Anything, "orders", 2).Return(nil, errors.New("pq: connection reset"))
	s.admin.On("Update", mock.Anything, "orders", 2, mock.Anything).Return(nil, models.NewValidationError("body", "request body is empty"))

	rr, env := s.do(t, "GET", "/admin/pets/1", "", "Authorization", token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "admin resource pets not found", env.Message)

	rr, env = s.do(t, "GET", "/admin/orders/2", "", "Authorization", token)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, env.Message, "pq:")

	rr, _ = s.do(t, "PUT", "/admin/orders/2", "", "Authorization", token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = s.do(t, "DELETE", "/admin/orders/zero", "", "Authorization", token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)

	rr, env := s.do(t, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"database":"ok"}`, string(env.Data))

	s.db.err = errors.New("dial tcp: refused")
	rr, env = s.do(t, "GET", "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.False(t, env.Success)
	assert.JSONEq(t, `{"database":"unavailable"}`, string(env.Data))
}

func TestRouter_UnknownRoute(t *testing.T) {
	s := newTestServer(t)

	rr, env := s.do(t, "GET", "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}
