package models

import "time"

// EventStats backs /admin/events/{id}/stats
type EventStats struct {
	EventID      int     `json:"event_id"`
	TicketsSold  int     `json:"tickets_sold"`
	TicketsLeft  int     `json:"tickets_left"`
	Bookings     int     `json:"bookings"`
	GrossRevenue float64 `json:"gross_revenue"`
	FeeRevenue   float64 `json:"fee_revenue"`
}

// ProductMetrics backs /admin/products/{id}/metrics
type ProductMetrics struct {
	ProductID    int     `json:"product_id"`
	UnitsSold    int     `json:"units_sold"`
	OrderCount   int     `json:"order_count"`
	Revenue      float64 `json:"revenue"`
	StockOnHand  int     `json:"stock_on_hand"`
	VariantCount int     `json:"variant_count"`
}

// VendorStats backs /admin/vendors/{id}/stats
type VendorStats struct {
	VendorID     int     `json:"vendor_id"`
	ProductCount int     `json:"product_count"`
	UnitsSold    int     `json:"units_sold"`
	Revenue      float64 `json:"revenue"`
}

// TopProduct is one row of /admin/vendors/{id}/top-ordered
type TopProduct struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	UnitsSold int     `json:"units_sold"`
	Revenue   float64 `json:"revenue"`
}

// RevenuePoint is one month of a revenue breakdown
type RevenuePoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// CustomerData backs /admin/customers/{id}/data
type CustomerData struct {
	UserID      int       `json:"user_id"`
	OrderCount  int       `json:"order_count"`
	TotalSpent  float64   `json:"total_spent"`
	Bookings    int       `json:"bookings"`
	RecentOrder []Order   `json:"recent_orders"`
	LastSeenAt  time.Time `json:"last_seen_at"`
}

// EventSummary is a short event row used in event manager panels
type EventSummary struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	StartsAt    time.Time `json:"starts_at"`
	TicketsSold int       `json:"tickets_sold"`
	Revenue     float64   `json:"revenue"`
}
