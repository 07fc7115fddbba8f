package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"happy-tails/internal/admin"
	"happy-tails/internal/models"
)

// AdminService backs the /admin API: list, detail, related panels, update
// and delete for every admin resource kind
type AdminService struct {
	products ProductRepository
	events   EventRepository
	bookings BookingRepository
	orders   OrderRepository
	users    UserRepository
	partners PartnerRepository
	stats    StatsRepository
	now      func() time.Time
}

// AdminRepositories groups the stores the admin service reads and writes
type AdminRepositories struct {
	Products ProductRepository
	Events   EventRepository
	Bookings BookingRepository
	Orders   OrderRepository
	Users    UserRepository
	Partners PartnerRepository
	Stats    StatsRepository
}

// NewAdminService creates a new admin service
func NewAdminService(repos AdminRepositories) *AdminService {
	return &AdminService{
		products: repos.Products,
		events:   repos.Events,
		bookings: repos.Bookings,
		orders:   repos.Orders,
		users:    repos.Users,
		partners: repos.Partners,
		stats:    repos.Stats,
		now:      time.Now,
	}
}

func resource(kind string) (admin.Resource, error) {
	r, ok := admin.Lookup(kind)
	if !ok {
		return admin.Resource{}, &models.NotFoundError{Resource: "admin resource", ID: kind}
	}
	return r, nil
}

// List returns a page of entities of the given kind
func (s *AdminService) List(ctx context.Context, kind string, limit, offset int) (any, error) {
	r, err := resource(kind)
	if err != nil {
		return nil, err
	}

	switch r.Kind {
	case admin.KindEvents:
		return s.events.List(ctx, limit, offset)
	case admin.KindProducts:
		return s.products.List(ctx, limit, offset)
	case admin.KindVendors:
		return s.partners.ListVendors(ctx, limit, offset)
	case admin.KindCustomers:
		return s.users.ListCustomers(ctx, limit, offset)
	case admin.KindEventManagers:
		return s.partners.ListEventManagers(ctx, limit, offset)
	case admin.KindOrders:
		return s.orders.List(ctx, limit, offset)
	}
	return nil, fmt.Errorf("unhandled admin resource %s", r.Kind)
}

// Detail returns one entity
func (s *AdminService) Detail(ctx context.Context, kind string, id int) (any, error) {
	r, err := resource(kind)
	if err != nil {
		return nil, err
	}

	switch r.Kind {
	case admin.KindEvents:
		return s.events.GetByID(ctx, id)
	case admin.KindProducts:
		return s.products.GetByID(ctx, id)
	case admin.KindVendors:
		return s.partners.GetVendor(ctx, id)
	case admin.KindCustomers:
		return s.users.GetByID(ctx, id)
	case admin.KindEventManagers:
		return s.partners.GetEventManager(ctx, id)
	case admin.KindOrders:
		return s.orders.GetByID(ctx, id)
	}
	return nil, fmt.Errorf("unhandled admin resource %s", r.Kind)
}

// Related returns one related panel of an entity
func (s *AdminService) Related(ctx context.Context, kind string, id int, name string) (any, error) {
	r, err := resource(kind)
	if err != nil {
		return nil, err
	}
	if !r.HasRelated(name) {
		return nil, &models.NotFoundError{Resource: string(r.Kind) + " panel", ID: name}
	}

	switch r.Kind {
	case admin.KindEvents:
		if name == "stats" {
			return s.stats.EventStats(ctx, id)
		}
		return s.bookings.ListAttendees(ctx, id)

	case admin.KindProducts:
		return s.stats.ProductMetrics(ctx, id)

	case admin.KindVendors:
		switch name {
		case "stats":
			return s.stats.VendorStats(ctx, id)
		case "top-ordered":
			return s.stats.TopOrderedProducts(ctx, id, 5)
		default:
			return s.stats.VendorRevenue(ctx, id, s.now().AddDate(-1, 0, 0))
		}

	case admin.KindCustomers:
		data, err := s.stats.CustomerTotals(ctx, id)
		if err != nil {
			return nil, err
		}
		recent, err := s.orders.ListByCustomer(ctx, id, 5)
		if err != nil {
			return nil, err
		}
		data.RecentOrder = recent
		return data, nil

	case admin.KindEventManagers:
		switch name {
		case "top-events":
			return s.stats.TopEvents(ctx, id, 5)
		case "upcoming-events":
			return s.stats.ManagerEvents(ctx, id, s.now(), true)
		default:
			return s.stats.ManagerEvents(ctx, id, s.now(), false)
		}
	}
	return nil, fmt.Errorf("unhandled admin panel %s/%s", r.Kind, name)
}

// Update applies a JSON patch body and returns the updated entity
func (s *AdminService) Update(ctx context.Context, kind string, id int, body json.RawMessage) (any, error) {
	r, err := resource(kind)
	if err != nil {
		return nil, err
	}

	switch r.Kind {
	case admin.KindEvents:
		var req models.EventUpdateRequest
		if err := decodePatch(body, &req); err != nil {
			return nil, err
		}
		return s.events.Update(ctx, id, &req)

	case admin.KindProducts:
		var req models.ProductUpdateRequest
		if err := decodePatch(body, &req); err != nil {
			return nil, err
		}
		return s.products.Update(ctx, id, &req)

	case admin.KindVendors, admin.KindEventManagers:
		var req models.PartnerUpdateRequest
		if err := decodePatch(body, &req); err != nil {
			return nil, err
		}
		if r.Kind == admin.KindVendors {
			return s.partners.UpdateVendor(ctx, id, &req)
		}
		return s.partners.UpdateEventManager(ctx, id, &req)

	case admin.KindCustomers:
		var req models.UserUpdateRequest
		if err := decodePatch(body, &req); err != nil {
			return nil, err
		}
		return s.users.Update(ctx, id, &req)

	case admin.KindOrders:
		var req models.OrderUpdateRequest
		if err := decodePatch(body, &req); err != nil {
			return nil, err
		}
		return s.orders.Update(ctx, id, &req)
	}
	return nil, fmt.Errorf("unhandled admin resource %s", r.Kind)
}

// Delete removes an entity
func (s *AdminService) Delete(ctx context.Context, kind string, id int) error {
	r, err := resource(kind)
	if err != nil {
		return err
	}

	switch r.Kind {
	case admin.KindEvents:
		return s.events.Delete(ctx, id)
	case admin.KindProducts:
		return s.products.Delete(ctx, id)
	case admin.KindVendors:
		return s.partners.DeleteVendor(ctx, id)
	case admin.KindCustomers:
		return s.users.Delete(ctx, id)
	case admin.KindEventManagers:
		return s.partners.DeleteEventManager(ctx, id)
	case admin.KindOrders:
		return s.orders.Delete(ctx, id)
	}
	return fmt.Errorf("unhandled admin resource %s", r.Kind)
}

func decodePatch(body json.RawMessage, into any) error {
	if len(body) == 0 {
		return models.NewValidationError("body", "request body is required")
	}
	if err := json.Unmarshal(body, into); err != nil {
		return models.NewValidationError("body", "invalid request body")
	}
	return nil
}
