package models

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is a completed product cart checkout
type Order struct {
	ID            int         `json:"id" db:"id"`
	OrderNumber   string      `json:"order_number" db:"order_number"`
	CustomerID    *int        `json:"customer_id,omitempty" db:"customer_id"`
	CustomerName  string      `json:"customer_name" db:"customer_name"`
	CustomerEmail string      `json:"customer_email" db:"customer_email"`
	Items         []OrderItem `json:"items"`
	Subtotal      float64     `json:"subtotal" db:"subtotal"`
	Charge        float64     `json:"charge" db:"charge"`
	Total         float64     `json:"total" db:"total"`
	PaymentRef    string      `json:"payment_ref" db:"payment_ref"`
	Status        OrderStatus `json:"status" db:"status"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderItem is one line of an order, copied from the cart at checkout
type OrderItem struct {
	ProductID int     `json:"product_id" db:"product_id"`
	VariantID string  `json:"variant_id" db:"variant_id"`
	Name      string  `json:"name" db:"name"`
	Size      string  `json:"size,omitempty" db:"size"`
	Color     string  `json:"color,omitempty" db:"color"`
	UnitPrice float64 `json:"unit_price" db:"unit_price"`
	Quantity  int     `json:"quantity" db:"quantity"`
}

// OrderUpdateRequest is the admin PUT payload for an order
type OrderUpdateRequest struct {
	Status *OrderStatus `json:"status,omitempty"`
}

var (
	// Order number format: HT-YYYYMMDD-XXXXXX (e.g., HT-20240101-123456)
	orderNumberRegex = regexp.MustCompile(`^HT-\d{8}-\d{6}$`)
	emailRegex       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Validate validates the order data
func (o *Order) Validate() error {
	if !orderNumberRegex.MatchString(o.OrderNumber) {
		return errors.New("order number format is invalid")
	}

	if len(o.Items) == 0 {
		return errors.New("order must contain at least one item")
	}

	if o.Total < 0 {
		return errors.New("total amount cannot be negative")
	}

	if err := validateOrderStatus(o.Status); err != nil {
		return err
	}

	if strings.TrimSpace(o.CustomerName) == "" {
		return errors.New("customer name is required")
	}

	if !emailRegex.MatchString(o.CustomerEmail) {
		return errors.New("customer email format is invalid")
	}

	return nil
}

// Validate validates the order update request
func (req *OrderUpdateRequest) Validate() error {
	if req.Status == nil {
		return nil
	}
	return validateOrderStatus(*req.Status)
}

func validateOrderStatus(status OrderStatus) error {
	switch status {
	case OrderPending, OrderPaid, OrderShipped, OrderDelivered, OrderCancelled:
		return nil
	default:
		return errors.New("invalid order status")
	}
}

// IsValidEmail reports whether the string looks like an email address
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// GenerateOrderNumber generates a unique order number
func GenerateOrderNumber(now time.Time) string {
	dateStr := now.Format("20060102")

	max := big.NewInt(1000000)
	randomNum, err := rand.Int(rand.Reader, max)
	if err != nil {
		return fmt.Sprintf("HT-%s-%06d", dateStr, now.UnixNano()%1000000)
	}

	return fmt.Sprintf("HT-%s-%06d", dateStr, randomNum.Int64())
}

// ItemCount returns the number of units across all lines
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}
