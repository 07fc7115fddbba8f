package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"happy-tails/internal/models"
)

// StatsRepository runs the aggregate queries behind the admin related panels
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// EventStats summarizes ticket sales for an event
func (r *StatsRepository) EventStats(ctx context.Context, eventID int) (*models.EventStats, error) {
	stats := &models.EventStats{EventID: eventID}
	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT e.tickets_sold, e.total_tickets,
			COUNT(b.id),
			COALESCE(SUM(b.base_amount), 0),
			COALESCE(SUM(b.booking_fee), 0)
		FROM events e
		LEFT JOIN bookings b ON b.event_id = e.id AND b.status = $2
		WHERE e.id = $1
		GROUP BY e.id`, eventID, models.BookingConfirmed,
	).Scan(&stats.TicketsSold, &total, &stats.Bookings, &stats.GrossRevenue, &stats.FeeRevenue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event stats: %w", err)
	}
	stats.TicketsLeft = max(total-stats.TicketsSold, 0)
	return stats, nil
}

// ProductMetrics summarizes sales and stock for a product
func (r *StatsRepository) ProductMetrics(ctx context.Context, productID int) (*models.ProductMetrics, error) {
	metrics := &models.ProductMetrics{ProductID: productID}
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE((SELECT SUM(stock_quantity) FROM product_variants WHERE product_id = p.id), 0),
			(SELECT COUNT(*) FROM product_variants WHERE product_id = p.id),
			COALESCE((SELECT SUM(quantity) FROM order_items WHERE product_id = p.id), 0),
			(SELECT COUNT(DISTINCT order_id) FROM order_items WHERE product_id = p.id),
			COALESCE((SELECT SUM(unit_price * quantity) FROM order_items WHERE product_id = p.id), 0)
		FROM products p
		WHERE p.id = $1`, productID,
	).Scan(&metrics.StockOnHand, &metrics.VariantCount, &metrics.UnitsSold, &metrics.OrderCount, &metrics.Revenue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product metrics: %w", err)
	}
	return metrics, nil
}

// VendorStats summarizes a vendor's catalog and sales
func (r *StatsRepository) VendorStats(ctx context.Context, vendorID int) (*models.VendorStats, error) {
	stats := &models.VendorStats{VendorID: vendorID}
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products WHERE vendor_id = v.id),
			COALESCE((SELECT SUM(oi.quantity) FROM order_items oi JOIN products p ON p.id = oi.product_id WHERE p.vendor_id = v.id), 0),
			COALESCE((SELECT SUM(oi.unit_price * oi.quantity) FROM order_items oi JOIN products p ON p.id = oi.product_id WHERE p.vendor_id = v.id), 0)
		FROM vendors v
		WHERE v.id = $1`, vendorID,
	).Scan(&stats.ProductCount, &stats.UnitsSold, &stats.Revenue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrVendorNotFound
		}
		return nil, fmt.Errorf("failed to get vendor stats: %w", err)
	}
	return stats, nil
}

// TopOrderedProducts lists a vendor's best selling products by units
func (r *StatsRepository) TopOrderedProducts(ctx context.Context, vendorID, limit int) ([]models.TopProduct, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name, COALESCE(SUM(oi.quantity), 0) AS units, COALESCE(SUM(oi.unit_price * oi.quantity), 0)
		FROM products p
		JOIN order_items oi ON oi.product_id = p.id
		WHERE p.vendor_id = $1
		GROUP BY p.id, p.name
		ORDER BY units DESC, p.id
		LIMIT $2`, vendorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top products: %w", err)
	}
	defer rows.Close()

	top := []models.TopProduct{}
	for rows.Next() {
		var p models.TopProduct
		if err := rows.Scan(&p.ProductID, &p.Name, &p.UnitsSold, &p.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan top product: %w", err)
		}
		top = append(top, p)
	}
	return top, rows.Err()
}

// VendorRevenue returns monthly revenue since the given time
func (r *StatsRepository) VendorRevenue(ctx context.Context, vendorID int, since time.Time) ([]models.RevenuePoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT TO_CHAR(DATE_TRUNC('month', o.created_at), 'YYYY-MM') AS month, SUM(oi.unit_price * oi.quantity)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE p.vendor_id = $1 AND o.created_at >= $2 AND o.status <> $3
		GROUP BY month
		ORDER BY month`, vendorID, since, models.OrderCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor revenue: %w", err)
	}
	defer rows.Close()

	points := []models.RevenuePoint{}
	for rows.Next() {
		var p models.RevenuePoint
		if err := rows.Scan(&p.Month, &p.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan revenue: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// CustomerTotals returns order and booking aggregates for a customer
func (r *StatsRepository) CustomerTotals(ctx context.Context, userID int) (*models.CustomerData, error) {
	data := &models.CustomerData{UserID: userID}
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM orders WHERE customer_id = u.id),
			COALESCE((SELECT SUM(total) FROM orders WHERE customer_id = u.id AND status <> $2), 0),
			(SELECT COUNT(*) FROM bookings WHERE user_id = u.id),
			u.updated_at
		FROM users u
		WHERE u.id = $1`, userID, models.OrderCancelled,
	).Scan(&data.OrderCount, &data.TotalSpent, &data.Bookings, &data.LastSeenAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get customer data: %w", err)
	}
	return data, nil
}

// TopEvents lists a manager's events by tickets sold
func (r *StatsRepository) TopEvents(ctx context.Context, managerID, limit int) ([]models.EventSummary, error) {
	if limit <= 0 {
		limit = 5
	}
	return r.summaries(ctx, `
		SELECT e.id, e.title, e.starts_at, e.tickets_sold, COALESCE(SUM(b.grand_total), 0)
		FROM events e
		LEFT JOIN bookings b ON b.event_id = e.id
		WHERE e.manager_id = $1
		GROUP BY e.id
		ORDER BY e.tickets_sold DESC, e.id
		LIMIT $2`, managerID, limit)
}

// ManagerEvents lists a manager's upcoming or past events as summaries
func (r *StatsRepository) ManagerEvents(ctx context.Context, managerID int, now time.Time, upcoming bool) ([]models.EventSummary, error) {
	cmp, order := "<", "DESC"
	if upcoming {
		cmp, order = ">=", "ASC"
	}
	query := fmt.Sprintf(`
		SELECT e.id, e.title, e.starts_at, e.tickets_sold, COALESCE(SUM(b.grand_total), 0)
		FROM events e
		LEFT JOIN bookings b ON b.event_id = e.id
		WHERE e.manager_id = $1 AND e.starts_at %s $2
		GROUP BY e.id
		ORDER BY e.starts_at %s
		LIMIT 20`, cmp, order)
	return r.summaries(ctx, query, managerID, now)
}

func (r *StatsRepository) summaries(ctx context.Context, query string, args ...any) ([]models.EventSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get event summaries: %w", err)
	}
	defer rows.Close()

	events := []models.EventSummary{}
	for rows.Next() {
		var e models.EventSummary
		if err := rows.Scan(&e.ID, &e.Title, &e.StartsAt, &e.TicketsSold, &e.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan event summary: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
