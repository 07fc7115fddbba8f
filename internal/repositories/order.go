package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"happy-tails/internal/models"
)

// OrderRepository handles order data operations
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, order_number, customer_id, customer_name, customer_email, subtotal, charge, total,
	payment_ref, status, created_at, updated_at`

func scanOrder(row rowScanner) (*models.Order, error) {
	o := &models.Order{}
	var customerID sql.NullInt64
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&customerID,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.Subtotal,
		&o.Charge,
		&o.Total,
		&o.PaymentRef,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if customerID.Valid {
		id := int(customerID.Int64)
		o.CustomerID = &id
	}
	return o, err
}

// Create stores a paid order, its items and the matching stock decrements in
// one transaction. Any variant without enough stock aborts the whole order.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := order.Validate(); err != nil {
		return nil, models.NewValidationError("order", err.Error())
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Ensure order number is unique (retry if collision)
	number := order.OrderNumber
	for i := 0; i < 5; i++ {
		var exists bool
		err = tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM orders WHERE order_number = $1)", number).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check order number uniqueness: %w", err)
		}
		if !exists {
			break
		}
		number = models.GenerateOrderNumber(time.Now())
	}

	query := `
		INSERT INTO orders (order_number, customer_id, customer_name, customer_email, subtotal, charge, total,
			payment_ref, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + orderColumns

	now := time.Now()
	created, err := scanOrder(tx.QueryRowContext(ctx, query,
		number,
		order.CustomerID,
		order.CustomerName,
		order.CustomerEmail,
		order.Subtotal,
		order.Charge,
		order.Total,
		order.PaymentRef,
		order.Status,
		now,
		now,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range order.Items {
		if err := DecrementStock(ctx, tx, item.ProductID, item.VariantID, item.Quantity); err != nil {
			return nil, err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, variant_id, name, size, color, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			created.ID, item.ProductID, item.VariantID, item.Name, item.Size, item.Color, item.UnitPrice, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order creation: %w", err)
	}

	created.Items = append([]models.OrderItem(nil), order.Items...)
	return created, nil
}

// GetByID retrieves an order with its items
func (r *OrderRepository) GetByID(ctx context.Context, id int) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *OrderRepository) items(ctx context.Context, orderID int) ([]models.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, variant_id, name, size, color, unit_price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ProductID, &item.VariantID, &item.Name, &item.Size, &item.Color, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// List returns orders without items, newest first
func (r *OrderRepository) List(ctx context.Context, limit, offset int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

// ListByCustomer returns a customer's most recent orders
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC LIMIT $2`, customerID, limit)
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		order.Items = []models.OrderItem{}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// Update changes the status of an order
func (r *OrderRepository) Update(ctx context.Context, id int, req *models.OrderUpdateRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, models.NewValidationError("status", err.Error())
	}
	if req.Status != nil {
		result, err := r.db.ExecContext(ctx, "UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3", *req.Status, time.Now(), id)
		if err != nil {
			return nil, fmt.Errorf("failed to update order: %w", err)
		}
		if err := expectRow(result, models.ErrOrderNotFound); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes an order and its items
func (r *OrderRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return expectRow(result, models.ErrOrderNotFound)
}
