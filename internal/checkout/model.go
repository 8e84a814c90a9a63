package checkout

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound       = errors.New("order not found")
	ErrInvalidRequest = errors.New("invalid checkout request")
	ErrEmptyCart      = errors.New("cart is empty")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

const PaymentMethodXendit = "xendit"

// Item is an order line, priced when the order was placed.
type Item struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductPrice int64  `json:"product_price"`
	Quantity     int    `json:"quantity"`
	Subtotal     int64  `json:"subtotal"`
}

type Order struct {
	ID               string    `json:"id"`
	SessionID        string    `json:"session_id"`
	CustomerName     string    `json:"customer_name"`
	CustomerPhone    *string   `json:"customer_phone"`
	TableNumber      int       `json:"table_number"`
	TotalAmount      int64     `json:"total_amount"`
	Status           Status    `json:"status"`
	PaymentMethod    *string   `json:"payment_method"`
	PaymentReference *string   `json:"payment_reference"`
	Items            []Item    `json:"items"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Request struct {
	SessionID     string  `json:"session_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone *string `json:"customer_phone,omitempty"`
	TableNumber   int     `json:"table_number"`
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.SessionID) == "" {
		return errors.Join(ErrInvalidRequest, errors.New("session id is required"))
	}
	if strings.TrimSpace(r.CustomerName) == "" {
		return errors.Join(ErrInvalidRequest, errors.New("customer name is required"))
	}
	if r.TableNumber < 1 {
		return errors.Join(ErrInvalidRequest, errors.New("table number must be at least 1"))
	}
	return nil
}
