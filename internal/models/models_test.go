package models

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestVariant_Validate(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid variant",
			variant: Variant{VariantID: "COL-S-RED", RegularPrice: 499, StockQuantity: 3},
			wantErr: false,
		},
		{
			name:    "valid sale price",
			variant: Variant{VariantID: "COL-S-RED", RegularPrice: 499, SalePrice: FloatPtr(399)},
			wantErr: false,
		},
		{
			name:    "missing id",
			variant: Variant{VariantID: "  ", RegularPrice: 499},
			wantErr: true,
			errMsg:  "variant id is required",
		},
		{
			name:    "negative price",
			variant: Variant{VariantID: "v", RegularPrice: -1},
			wantErr: true,
			errMsg:  "regular price cannot be negative",
		},
		{
			name:    "sale above regular",
			variant: Variant{VariantID: "v", RegularPrice: 100, SalePrice: FloatPtr(120)},
			wantErr: true,
			errMsg:  "sale price cannot exceed regular price",
		},
		{
			name:    "negative stock",
			variant: Variant{VariantID: "v", RegularPrice: 100, StockQuantity: -2},
			wantErr: true,
			errMsg:  "stock quantity cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.variant.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Variant.Validate() expected error but got none")
					return
				}
				if err.Error() != tt.errMsg {
					t.Errorf("Variant.Validate() error = %v, want %v", err.Error(), tt.errMsg)
				}
			} else if err != nil {
				t.Errorf("Variant.Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestProduct_Validate(t *testing.T) {
	variant := func(id, size, color string) Variant {
		return Variant{VariantID: id, Size: StringPtr(size), Color: StringPtr(color), RegularPrice: 10}
	}

	tests := []struct {
		name    string
		product Product
		wantErr string
	}{
		{
			name:    "valid",
			product: Product{Name: "Collar", Variants: []Variant{variant("a", "S", "Red"), variant("b", "M", "Red")}},
		},
		{
			name:    "no name",
			product: Product{Variants: []Variant{variant("a", "S", "Red")}},
			wantErr: "product name is required",
		},
		{
			name:    "name too long",
			product: Product{Name: strings.Repeat("x", 256), Variants: []Variant{variant("a", "S", "Red")}},
			wantErr: "product name must be less than 255 characters",
		},
		{
			name:    "no variants",
			product: Product{Name: "Collar"},
			wantErr: "product must have at least one variant",
		},
		{
			name:    "duplicate variant id",
			product: Product{Name: "Collar", Variants: []Variant{variant("a", "S", "Red"), variant("a", "M", "Red")}},
			wantErr: `duplicate variant id "a"`,
		},
		{
			name:    "duplicate combination",
			product: Product{Name: "Collar", Variants: []Variant{variant("a", "S", "Red"), variant("b", "S", "Red")}},
			wantErr: `duplicate size/color combination for variant "b"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Product.Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Product.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProduct_FindVariantAndStock(t *testing.T) {
	p := Product{Variants: []Variant{
		{VariantID: "a", StockQuantity: 2},
		{VariantID: "b", StockQuantity: 5},
	}}

	v, ok := p.FindVariant("b")
	if !ok || v.StockQuantity != 5 {
		t.Fatalf("FindVariant(b) = %v, %v", v, ok)
	}
	v.StockQuantity = 4
	if p.Variants[1].StockQuantity != 4 {
		t.Errorf("FindVariant should return a pointer into the product's variants")
	}
	if _, ok := p.FindVariant("missing"); ok {
		t.Errorf("FindVariant(missing) should not be found")
	}
	if got := p.TotalStock(); got != 6 {
		t.Errorf("TotalStock() = %d, want 6", got)
	}
}

func TestVariant_Accessors(t *testing.T) {
	bare := Variant{RegularPrice: 200}
	if bare.SizeValue() != "" || bare.ColorValue() != "" {
		t.Errorf("absent dimensions should read as empty strings")
	}
	if bare.EffectivePrice() != 200 {
		t.Errorf("EffectivePrice() = %v, want 200", bare.EffectivePrice())
	}

	sale := Variant{Size: StringPtr("M"), Color: StringPtr("Blue"), RegularPrice: 200, SalePrice: FloatPtr(150)}
	if sale.SizeValue() != "M" || sale.ColorValue() != "Blue" {
		t.Errorf("SizeValue/ColorValue = %q/%q", sale.SizeValue(), sale.ColorValue())
	}
	if sale.EffectivePrice() != 150 {
		t.Errorf("EffectivePrice() = %v, want 150", sale.EffectivePrice())
	}
}

func TestEvent_Validate(t *testing.T) {
	base := func() Event {
		return Event{Title: "Adoption Drive", TicketPrice: 250, TotalTickets: 10, Status: EventPublished}
	}

	tests := []struct {
		name    string
		mutate  func(e *Event)
		wantErr string
	}{
		{name: "valid", mutate: func(e *Event) {}},
		{name: "no title", mutate: func(e *Event) { e.Title = " " }, wantErr: "event title is required"},
		{name: "negative price", mutate: func(e *Event) { e.TicketPrice = -5 }, wantErr: "ticket price cannot be negative"},
		{name: "negative capacity", mutate: func(e *Event) { e.TotalTickets = -1 }, wantErr: "total tickets cannot be negative"},
		{name: "oversold", mutate: func(e *Event) { e.TicketsSold = 11 }, wantErr: "tickets sold cannot exceed total tickets"},
		{name: "bad status", mutate: func(e *Event) { e.Status = "archived" }, wantErr: "invalid event status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := base()
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Event.Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Event.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEvent_Helpers(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	e := Event{TotalTickets: 10, TicketsSold: 7, StartsAt: now.Add(time.Hour), Status: EventPublished}

	if e.TicketsLeft() != 3 {
		t.Errorf("TicketsLeft() = %d, want 3", e.TicketsLeft())
	}
	if !e.IsPublished() {
		t.Errorf("IsPublished() = false, want true")
	}
	if e.IsPast(now) {
		t.Errorf("IsPast() = true for a future event")
	}

	e.TicketsSold = 12
	if e.TicketsLeft() != 0 {
		t.Errorf("TicketsLeft() should never go negative, got %d", e.TicketsLeft())
	}

	title := "Renamed"
	price := 99.0
	(&EventUpdateRequest{Title: &title, TicketPrice: &price}).Apply(&e)
	if e.Title != "Renamed" || e.TicketPrice != 99 || e.TotalTickets != 10 {
		t.Errorf("Apply() only copies non-nil fields, got %+v", e)
	}
}

func TestOrder_Validate(t *testing.T) {
	valid := func() Order {
		return Order{
			OrderNumber:   "HT-20260101-123456",
			CustomerName:  "Asha",
			CustomerEmail: "asha@example.com",
			Items:         []OrderItem{{ProductID: 1, VariantID: "a", Quantity: 2, UnitPrice: 10}},
			Total:         20,
			Status:        OrderPaid,
		}
	}

	tests := []struct {
		name    string
		mutate  func(o *Order)
		wantErr string
	}{
		{name: "valid order", mutate: func(o *Order) {}},
		{name: "bad order number", mutate: func(o *Order) { o.OrderNumber = "ORD-1" }, wantErr: "order number format is invalid"},
		{name: "no items", mutate: func(o *Order) { o.Items = nil }, wantErr: "order must contain at least one item"},
		{name: "negative total", mutate: func(o *Order) { o.Total = -1 }, wantErr: "total amount cannot be negative"},
		{name: "bad status", mutate: func(o *Order) { o.Status = "lost" }, wantErr: "invalid order status"},
		{name: "no name", mutate: func(o *Order) { o.CustomerName = "" }, wantErr: "customer name is required"},
		{name: "bad email", mutate: func(o *Order) { o.CustomerEmail = "asha@" }, wantErr: "customer email format is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid()
			tt.mutate(&o)
			err := o.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Order.Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Order.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	now := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	num := GenerateOrderNumber(now)
	if !orderNumberRegex.MatchString(num) {
		t.Errorf("GenerateOrderNumber() = %q, does not match format", num)
	}
	if !strings.HasPrefix(num, "HT-20260309-") {
		t.Errorf("GenerateOrderNumber() = %q, want date prefix", num)
	}
}

func TestOrder_ItemCount(t *testing.T) {
	o := Order{Items: []OrderItem{{Quantity: 2}, {Quantity: 3}}}
	if o.ItemCount() != 5 {
		t.Errorf("ItemCount() = %d, want 5", o.ItemCount())
	}
}

func TestSignupRequests_Validate(t *testing.T) {
	store := StoreSignupRequest{
		StoreName: "Paws",
		OwnerName: "Asha",
		Email:     "asha@example.com",
		Phone:     "+91 98765 43210",
		Password:  "longenough",
	}
	if err := store.Validate(); err != nil {
		t.Fatalf("valid store signup rejected: %v", err)
	}

	tests := []struct {
		name  string
		req   interface{ Validate() error }
		field string
	}{
		{name: "store without name", req: &StoreSignupRequest{OwnerName: "A", Email: "a@b.co", Phone: "9876543210", Password: "longenough"}, field: "storeName"},
		{name: "store without owner", req: &StoreSignupRequest{StoreName: "S", Email: "a@b.co", Phone: "9876543210", Password: "longenough"}, field: "ownerName"},
		{name: "bad email", req: &StoreSignupRequest{StoreName: "S", OwnerName: "A", Email: "nope", Phone: "9876543210", Password: "longenough"}, field: "email"},
		{name: "short phone", req: &StoreSignupRequest{StoreName: "S", OwnerName: "A", Email: "a@b.co", Phone: "12-34", Password: "longenough"}, field: "phone"},
		{name: "short password", req: &EventManagerSignupRequest{Name: "R", Email: "a@b.co", Phone: "9876543210", Password: "short"}, field: "password"},
		{name: "long password", req: &EventManagerSignupRequest{Name: "R", Email: "a@b.co", Phone: "9876543210", Password: strings.Repeat("p", 129)}, field: "password"},
		{name: "manager without name", req: &EventManagerSignupRequest{Email: "a@b.co", Phone: "9876543210", Password: "longenough"}, field: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Validate() field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestPartnerUpdateRequest_Validate(t *testing.T) {
	empty := " "
	bad := PartnerStatus("banned")
	ok := PartnerApproved

	if err := (&PartnerUpdateRequest{Status: &ok}).Validate(); err != nil {
		t.Errorf("approved status rejected: %v", err)
	}
	if err := (&PartnerUpdateRequest{Name: &empty}).Validate(); err == nil {
		t.Errorf("blank name accepted")
	}
	if err := (&PartnerUpdateRequest{Status: &bad}).Validate(); err == nil {
		t.Errorf("unknown status accepted")
	}
}

func TestErrorClassification(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", &NotFoundError{Resource: "vendor", ID: "7"})
	if !errors.Is(wrapped, ErrNotFound) {
		t.Errorf("NotFoundError should match ErrNotFound")
	}
	if got := (&NotFoundError{Resource: "vendor"}).Error(); got != "vendor not found" {
		t.Errorf("NotFoundError without id = %q", got)
	}
	if !errors.Is(ErrProductNotFound, ErrNotFound) {
		t.Errorf("ErrProductNotFound should wrap ErrNotFound")
	}

	if !IsValidation(fmt.Errorf("x: %w", NewValidationError("qty", "bad"))) {
		t.Errorf("IsValidation() = false for wrapped ValidationError")
	}
	if !IsTimeout(&TimeoutError{SessionID: "s"}) || IsTimeout(errors.New("other")) {
		t.Errorf("IsTimeout() misclassified")
	}

	cause := errors.New("connection refused")
	te := &TransportError{Err: cause}
	if te.Error() != "connection refused" || !errors.Is(te, cause) {
		t.Errorf("TransportError should surface and unwrap its cause")
	}
	if (&TransportError{Status: 502, Message: "bad gateway"}).Error() != "bad gateway" {
		t.Errorf("TransportError should prefer the server message")
	}
	if (&TransportError{Status: 500}).Error() != "request failed with status 500" {
		t.Errorf("TransportError fallback message wrong")
	}
}
