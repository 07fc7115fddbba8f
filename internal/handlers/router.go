package handlers

import (
	"net/http"

	"happy-tails/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Router holds everything the HTTP routes are wired to
type Router struct {
	Catalog    *CatalogHandler
	Cart       *CartHandler
	Booking    *BookingHandler
	Onboarding *OnboardingHandler
	Admin      *AdminHandler
	Health     *HealthHandler

	Auth          *middleware.AuthMiddleware
	CORS          middleware.CORSConfig
	SignupLimiter *middleware.RateLimiter
	Logger        *zap.Logger
}

// Handler builds the chi router
func (rt Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(rt.Logger))
	r.Use(middleware.Recover(rt.Logger))
	r.Use(middleware.Tracing)
	r.Use(middleware.CORS(rt.CORS))
	r.Use(middleware.SecurityHeaders)

	r.NotFound(middleware.NotFound())
	r.MethodNotAllowed(middleware.MethodNotAllowed())

	r.Get("/health", rt.Health.Health)

	// Storefront
	r.Route("/api", func(r chi.Router) {
		r.Get("/products/product/{id}", rt.Catalog.Product)
		r.Get("/products/product/{id}/options", rt.Catalog.Options)
		r.Get("/getPublicEvents", rt.Catalog.PublicEvents)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", rt.Cart.View)
			r.Delete("/", rt.Cart.Clear)
			r.Post("/items", rt.Cart.Add)
			r.Patch("/items/{productId}/{variantId}", rt.Cart.UpdateQuantity)
			r.Delete("/items/{productId}/{variantId}", rt.Cart.Remove)
			r.Post("/checkout", rt.Cart.Checkout)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", rt.Booking.Start)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", rt.Booking.Get)
				r.Delete("/", rt.Booking.Discard)
				r.Post("/tickets/increment", rt.Booking.Increment)
				r.Post("/tickets/decrement", rt.Booking.Decrement)
				r.Post("/next", rt.Booking.Next)
				r.Post("/back", rt.Booking.Back)
				r.Put("/billing", rt.Booking.SetBilling)
				r.Post("/payment/open", rt.Booking.OpenPayment)
				r.Post("/payment/close", rt.Booking.ClosePayment)
				r.Post("/pay", rt.Booking.Pay)
			})
		})
	})

	r.Get("/events/{id}", rt.Catalog.Event)
	r.Post("/tickets/{eventId}", rt.Booking.CreateTickets)

	// Partner onboarding
	r.Route("/auth", func(r chi.Router) {
		if rt.SignupLimiter != nil {
			r.Use(middleware.RateLimit(rt.SignupLimiter))
		}
		r.Post("/storeSignup", rt.Onboarding.StoreSignup)
		r.Post("/eventManagerSignup", rt.Onboarding.EventManagerSignup)
	})

	// Admin
	r.Route("/admin", func(r chi.Router) {
		r.Use(rt.Auth.RequireAdmin)
		r.Get("/{kind}", rt.Admin.List)
		r.Get("/{kind}/{id}", rt.Admin.Detail)
		r.Put("/{kind}/{id}", rt.Admin.Update)
		r.Delete("/{kind}/{id}", rt.Admin.Delete)
		r.Get("/{kind}/{id}/{related}", rt.Admin.Related)
	})

	return r
}
